package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/pvisualizer/internal/buildinfo"
	"github.com/google/subcommands"
)

// errOut receives command errors.
var errOut io.Writer = os.Stderr

// Register adds the CLI subcommands to c. Execute must be called with the
// *App as its first extra argument.
func Register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&loginCmd{}, "session")
	c.Register(&signupCmd{}, "session")
	c.Register(&logoutCmd{}, "session")
	c.Register(&statusCmd{}, "session")
	c.Register(&profileCmd{}, "session")
	c.Register(&updateProfileCmd{}, "session")

	c.Register(&strategiesCmd{}, "analytics")
	c.Register(&strategyCmd{}, "analytics")
	c.Register(&statsCmd{}, "analytics")

	c.Register(&replCmd{}, "")
	c.Register(&versionCmd{}, "")
}

func appFrom(args []interface{}) *App {
	if len(args) == 0 {
		return nil
	}
	a, _ := args[0].(*App)
	return a
}

// exitStatus maps a command error to an exit status. Refusals by the gate
// have already been reported to the user.
func exitStatus(err error) subcommands.ExitStatus {
	switch {
	case err == nil:
		return subcommands.ExitSuccess
	case errors.Is(err, ErrLoginRequired):
		return subcommands.ExitFailure
	default:
		fmt.Fprintln(errOut, "Error:", err)
		return subcommands.ExitFailure
	}
}

// runSimple runs an App method that takes no positional arguments.
func runSimple(ctx context.Context, f *flag.FlagSet, args []interface{}, run func(*App, context.Context) error) subcommands.ExitStatus {
	a := appFrom(args)
	if a == nil || f.NArg() != 0 {
		return subcommands.ExitUsageError
	}
	return exitStatus(run(a, ctx))
}

type loginCmd struct{}

func (*loginCmd) Name() string     { return "login" }
func (*loginCmd) Synopsis() string { return "log in with email and password" }
func (*loginCmd) Usage() string {
	return `pv login

  Prompts for email and password. Does nothing when the stored session is
  still valid.
`
}
func (*loginCmd) SetFlags(_ *flag.FlagSet) {}
func (*loginCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return runSimple(ctx, f, args, (*App).Login)
}

type signupCmd struct{}

func (*signupCmd) Name() string     { return "signup" }
func (*signupCmd) Synopsis() string { return "create an account and log in" }
func (*signupCmd) Usage() string {
	return `pv signup

  Prompts for the account form and a password.
`
}
func (*signupCmd) SetFlags(_ *flag.FlagSet) {}
func (*signupCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return runSimple(ctx, f, args, (*App).Signup)
}

type logoutCmd struct{}

func (*logoutCmd) Name() string     { return "logout" }
func (*logoutCmd) Synopsis() string { return "forget the stored session" }
func (*logoutCmd) Usage() string {
	return `pv logout

  Deletes the stored credential. No request is sent.
`
}
func (*logoutCmd) SetFlags(_ *flag.FlagSet) {}
func (*logoutCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return runSimple(ctx, f, args, (*App).Logout)
}

type statusCmd struct{}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "verify the stored session" }
func (*statusCmd) Usage() string {
	return `pv status

  Verifies the stored credential and prints the session state. An invalid
  credential is removed.
`
}
func (*statusCmd) SetFlags(_ *flag.FlagSet) {}
func (*statusCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return runSimple(ctx, f, args, (*App).Status)
}

type profileCmd struct{}

func (*profileCmd) Name() string     { return "profile" }
func (*profileCmd) Synopsis() string { return "show the account profile" }
func (*profileCmd) Usage() string    { return "pv profile\n" }
func (*profileCmd) SetFlags(_ *flag.FlagSet) {}
func (*profileCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return runSimple(ctx, f, args, (*App).Profile)
}

type updateProfileCmd struct{}

func (*updateProfileCmd) Name() string     { return "update-profile" }
func (*updateProfileCmd) Synopsis() string { return "edit the account profile" }
func (*updateProfileCmd) Usage() string {
	return `pv update-profile

  Prompts for every profile field; an empty answer keeps the current value.
`
}
func (*updateProfileCmd) SetFlags(_ *flag.FlagSet) {}
func (*updateProfileCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return runSimple(ctx, f, args, (*App).UpdateProfile)
}

type strategiesCmd struct{}

func (*strategiesCmd) Name() string     { return "strategies" }
func (*strategiesCmd) Synopsis() string { return "list available strategies" }
func (*strategiesCmd) Usage() string    { return "pv strategies\n" }
func (*strategiesCmd) SetFlags(_ *flag.FlagSet) {}
func (*strategiesCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	return runSimple(ctx, f, args, (*App).Strategies)
}

type strategyCmd struct{}

func (*strategyCmd) Name() string     { return "strategy" }
func (*strategyCmd) Synopsis() string { return "show backtest analytics of a strategy" }
func (*strategyCmd) Usage() string {
	return `pv strategy <id>

  Shows rolling and annual returns, portfolio growth, statistics and tickers.
`
}
func (*strategyCmd) SetFlags(_ *flag.FlagSet) {}
func (*strategyCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if a == nil || f.NArg() != 1 {
		return subcommands.ExitUsageError
	}
	return exitStatus(a.Strategy(ctx, f.Arg(0)))
}

type statsCmd struct {
	yearly bool
	limit  int
	offset int
}

func (*statsCmd) Name() string     { return "stats" }
func (*statsCmd) Synopsis() string { return "show monthly returns of a strategy" }
func (*statsCmd) Usage() string {
	return `pv stats [-yearly] [-limit n] [-offset n] <id>

  Shows monthly (or yearly) returns, oldest first.
`
}
func (c *statsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yearly, "yearly", false, "only yearly rows")
	f.IntVar(&c.limit, "limit", 100, "rows per page")
	f.IntVar(&c.offset, "offset", 0, "rows to skip")
}
func (c *statsCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if a == nil || f.NArg() != 1 || c.limit < 0 || c.offset < 0 {
		return subcommands.ExitUsageError
	}
	return exitStatus(a.MonthlyStats(ctx, f.Arg(0), c.yearly, c.limit, c.offset))
}

type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "start the interactive shell" }
func (*replCmd) Usage() string {
	return `pv repl

  Interactive shell with a background heartbeat. Starts with a login prompt
  when there is no valid session.
`
}
func (*replCmd) SetFlags(_ *flag.FlagSet) {}
func (*replCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if a == nil {
		return subcommands.ExitUsageError
	}
	a.Run(ctx)
	return subcommands.ExitSuccess
}

type versionCmd struct{}

func (*versionCmd) Name() string             { return "version" }
func (*versionCmd) Synopsis() string         { return "print build information" }
func (*versionCmd) Usage() string            { return "pv version\n" }
func (*versionCmd) SetFlags(_ *flag.FlagSet) {}
func (*versionCmd) Execute(_ context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	if a := appFrom(args); a != nil {
		buildinfo.PrintBuildData(a.out)
		return subcommands.ExitSuccess
	}
	buildinfo.PrintBuildData(os.Stdout)
	return subcommands.ExitSuccess
}
