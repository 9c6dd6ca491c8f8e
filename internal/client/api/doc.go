// Package api is the HTTP client of the Portfolio Visualizer remote API.
//
// # Overview
//
// Client covers the auth endpoints (login, signup, verify, me, update), the
// heartbeat and the analytics endpoints (strategies, strategy detail,
// monthly stats). Authenticated calls take the bearer token as an explicit
// argument; the client never stores it. Token ownership belongs to the
// session guard.
//
// # Error Handling
//
// Failures are reported as sentinel errors matched with errors.Is:
// ErrUnavailable (no response), ErrUnauthorized (401/403), ErrNotFound,
// ErrServer (5xx), ErrBadResponse and ErrRejected. HTTP failures are
// wrapped in *StatusError, which keeps the status code. Cancellation of the
// caller's context is returned as ctx.Err(), never as ErrUnavailable.
package api
