// Package httpserver exposes the dev API over HTTP with a chi router.
package httpserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/pvisualizer/internal/devapi/services"
	"github.com/dmitrijs2005/pvisualizer/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 5 * time.Second

type HTTPServer struct {
	address   string
	users     *services.UserService
	analytics *services.AnalyticsService
	logger    logging.Logger
}

func NewHTTPServer(a string, l logging.Logger, us *services.UserService, as *services.AnalyticsService) *HTTPServer {
	return &HTTPServer{
		address:   a,
		logger:    l.With("module", "http_server"),
		users:     us,
		analytics: as,
	}
}

// Router builds the handler tree. Everything except the root, login and
// signup requires a bearer token.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/", s.ping)
	r.Post("/auth/login", s.login)
	r.Post("/auth/signup", s.signup)

	r.Group(func(r chi.Router) {
		r.Use(s.requireToken)

		r.Get("/auth/verify", s.verify)
		r.Get("/auth/me", s.me)
		r.Post("/auth/update", s.update)

		r.Get("/strategy/all", s.strategies)
		r.Get("/strategy/{id}", s.strategy)
		r.Get("/monthly-stats/all", s.monthlyStats)
	})

	return r
}

func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
