// Package cli provides the Portfolio Visualizer command-line client.
//
// It wires configuration, the credential store, the session guard and the
// API services, and exposes them both as one-shot subcommands (see
// Register) and as an interactive REPL (see App.Run).
//
// Protected commands (profile, strategies, strategy, stats) go through the
// session gate: a pending session is verified first, a refused one prints
// "Login required" and, in the REPL, opens the login prompt.
package cli
