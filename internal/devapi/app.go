// Package devapi wires the local stand-in of the Portfolio Visualizer API:
// user storage, token issuing, canned analytics and the HTTP server.
package devapi

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/pvisualizer/internal/devapi/config"
	"github.com/dmitrijs2005/pvisualizer/internal/devapi/httpserver"
	"github.com/dmitrijs2005/pvisualizer/internal/devapi/repositories/repomanager"
	"github.com/dmitrijs2005/pvisualizer/internal/devapi/services"
	"github.com/dmitrijs2005/pvisualizer/internal/logging"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	server *httpserver.HTTPServer
}

// NewApp picks the user store from cfg.DatabaseDSN: PostgreSQL when set,
// process memory otherwise.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	var repos repomanager.RepositoryManager
	if cfg.DatabaseDSN != "" {
		pg, err := repomanager.OpenPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		repos = pg
	} else {
		logger.Warn(ctx, "no database configured, users are kept in memory")
		repos = repomanager.NewInMemoryRepositoryManager()
	}

	as, err := services.NewAnalyticsService()
	if err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("fixtures: %w", err)
	}
	us := services.NewUserService(repos, cfg, logger)

	return &App{
		config: cfg,
		logger: logger,
		repos:  repos,
		server: httpserver.NewHTTPServer(cfg.EndpointAddr, logger, us, as),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")
	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)

	if cerr := app.repos.Close(); cerr != nil {
		app.logger.Error(ctx, "close storage", "error", cerr)
	}
	return err
}
