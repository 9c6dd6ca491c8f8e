package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a
// lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Profile(ctx context.Context) error
	UpdateProfile(ctx context.Context) error
	Strategies(ctx context.Context) error
	Strategy(ctx context.Context, id string) error
	MonthlyStats(ctx context.Context, modelID string, yearlyOnly bool, limit, offset int) error
}

// runREPL reads commands line by line from reader and dispatches them to
// a. It returns on EOF, on "exit"/"quit" or when ctx is done.
//
//	Not logged in:
//	  help | login | signup | status | exit
//
//	Logged in:
//	  help | strategies | strategy <id> | stats <id> [yearly] [limit] [offset]
//	  profile | update-profile | status | logout | exit
//
// A protected command that is refused with ErrLoginRequired starts the
// login prompt. Other errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, w io.Writer) {
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprintf(w, "pv %s> ", statusFn())
		line, err := reader.ReadString('\n')
		if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
			fmt.Fprintln(w)
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(w, "Available commands: strategies, strategy <id>, stats <id> [yearly] [limit] [offset], profile, update-profile, status, logout, exit")
			} else {
				fmt.Fprintln(w, "Available commands: login, signup, status, exit")
			}

		case "login":
			cmdErr = a.Login(ctx)
		case "signup":
			cmdErr = a.Signup(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "status":
			cmdErr = a.Status(ctx)
		case "profile":
			cmdErr = a.Profile(ctx)
		case "update-profile":
			cmdErr = a.UpdateProfile(ctx)
		case "ls", "strategies":
			cmdErr = a.Strategies(ctx)

		case "strategy":
			if len(args) == 0 {
				fmt.Fprintln(w, "Usage: strategy <id>")
				continue
			}
			cmdErr = a.Strategy(ctx, args[0])

		case "stats":
			q, ok := parseStatsArgs(args)
			if !ok {
				fmt.Fprintln(w, "Usage: stats <id> [yearly] [limit] [offset]")
				continue
			}
			cmdErr = a.MonthlyStats(ctx, q.modelID, q.yearly, q.limit, q.offset)

		case "exit", "quit":
			fmt.Fprintln(w, "Bye!")
			return

		default:
			fmt.Fprintln(w, "Unknown command:", cmd)
		}

		switch {
		case errors.Is(cmdErr, ErrLoginRequired):
			_ = a.Login(ctx)
		case cmdErr != nil:
			fmt.Fprintln(w, "Error:", cmdErr)
		}
	}
}

type statsArgs struct {
	modelID string
	yearly  bool
	limit   int
	offset  int
}

// parseStatsArgs reads "<id> [yearly] [limit] [offset]".
func parseStatsArgs(args []string) (statsArgs, bool) {
	if len(args) == 0 {
		return statsArgs{}, false
	}
	q := statsArgs{modelID: args[0]}
	rest := args[1:]
	if len(rest) > 0 && rest[0] == "yearly" {
		q.yearly = true
		rest = rest[1:]
	}
	nums := []*int{&q.limit, &q.offset}
	if len(rest) > len(nums) {
		return statsArgs{}, false
	}
	for i, s := range rest {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return statsArgs{}, false
		}
		*nums[i] = n
	}
	return q, true
}

// Run starts the heartbeat and the interactive loop. It blocks until the
// user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go a.heartbeat.Run(ctx)

	a.println("Portfolio Visualizer CLI (type 'help' for commands)")
	if ok, err := a.auth.LoggedIn(ctx); err == nil && !ok {
		if err := a.Login(ctx); err != nil {
			a.logger.Debug(ctx, "initial login", "error", err)
		}
	}
	runREPL(ctx, a, a.getStatus, a.reader, a.out)
}
