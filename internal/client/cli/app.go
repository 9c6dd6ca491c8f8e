package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dmitrijs2005/pvisualizer/internal/client/api"
	"github.com/dmitrijs2005/pvisualizer/internal/client/config"
	"github.com/dmitrijs2005/pvisualizer/internal/client/credentials"
	"github.com/dmitrijs2005/pvisualizer/internal/client/localdb"
	"github.com/dmitrijs2005/pvisualizer/internal/client/render"
	"github.com/dmitrijs2005/pvisualizer/internal/client/services"
	"github.com/dmitrijs2005/pvisualizer/internal/client/session"
	"github.com/dmitrijs2005/pvisualizer/internal/filex"
	"github.com/dmitrijs2005/pvisualizer/internal/logging"
	"github.com/redis/go-redis/v9"
)

// App wires the session guard, the services and the terminal I/O.
type App struct {
	config    *config.Config
	logger    logging.Logger
	guard     *session.Guard
	auth      services.AuthService
	analytics services.AnalyticsService
	heartbeat *services.Heartbeat
	printer   *render.Printer
	reader    *bufio.Reader
	out       io.Writer
	closers   []func() error
}

// Open builds the credential store selected by cfg and an App on top of it
// reading from stdin and writing to stdout.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	store, closer, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app, err := New(cfg, store, os.Stdin, os.Stdout, logger)
	if err != nil {
		_ = closer()
		return nil, err
	}
	app.closers = append(app.closers, closer)
	return app, nil
}

func openStore(ctx context.Context, cfg *config.Config) (credentials.Store, func() error, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return credentials.NewMemoryStore(), func() error { return nil }, nil

	case config.StoreRedis:
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			_ = rdb.Close()
			return nil, nil, fmt.Errorf("connect redis %s: %w", cfg.RedisAddr, err)
		}
		return credentials.NewRedisStore(rdb, cfg.CredentialKey), rdb.Close, nil

	case config.StoreSQLite:
		if cfg.StorePath != ":memory:" && !strings.HasPrefix(cfg.StorePath, "file:") {
			if _, err := filex.EnsureParentDir(cfg.StorePath); err != nil {
				return nil, nil, err
			}
		}
		db, err := localdb.InitDatabase(ctx, cfg.StorePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open local database: %w", err)
		}
		return credentials.NewSQLiteStore(db, cfg.CredentialKey), db.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

// New builds an App over an existing credential store.
func New(cfg *config.Config, store credentials.Store, in io.Reader, out io.Writer, logger logging.Logger) (*App, error) {
	client, err := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, logger)
	if err != nil {
		return nil, err
	}
	printer, err := render.NewPrinter(out, cfg.Plain, cfg.MarkdownStyle, 0)
	if err != nil {
		return nil, err
	}

	guard := session.New(store, client, session.Options{
		Retries:           cfg.VerifyRetries,
		KeepOnUnreachable: cfg.KeepCredentialOnUnreachable,
	}, logger)

	return &App{
		config:    cfg,
		logger:    logger,
		guard:     guard,
		auth:      services.NewAuthService(client, guard, logger),
		analytics: services.NewAnalyticsService(client, guard, logger),
		heartbeat: services.NewHeartbeat(client, cfg.HeartbeatInterval, cfg.RequestTimeout, logger),
		printer:   printer,
		reader:    bufio.NewReader(in),
		out:       out,
	}, nil
}

func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) isLoggedIn() bool {
	return a.guard.State() == session.Authenticated
}

// getStatus renders the prompt suffix, e.g. "(authenticated, online)".
func (a *App) getStatus() string {
	s := strings.ToLower(a.guard.State().String())
	if m := a.heartbeat.Mode(); m != services.ModeUnknown {
		s += ", " + string(m)
	}
	return fmt.Sprintf("(%s)", s)
}
