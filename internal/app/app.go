// Package app assembles the results API: configuration, logging,
// metrics, services, middleware and routes, plus the HTTP server
// lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wardrivecli/internal/config"
	"wardrivecli/internal/infrastructure"
	custommw "wardrivecli/internal/middleware"
	"wardrivecli/internal/services"
	transport "wardrivecli/internal/transport/http"
)

// App wires the whole server together.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics *infrastructure.Metrics

	router chi.Router
	server *http.Server
}

// New builds the application from configuration.
func New(cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	metrics := infrastructure.NewMetrics()

	a := &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: metrics,
	}
	a.router = a.buildRouter()
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      a.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return a
}

// Router exposes the HTTP handler, mainly for tests.
func (a *App) Router() http.Handler {
	return a.router
}

func (a *App) buildRouter() chi.Router {
	analysisService := services.NewAnalysisService(a.Logger, a.Metrics, a.Config)
	healthService := services.NewHealthService()

	analyzeHandler := transport.NewAnalyzeHandler(analysisService, a.Logger)
	healthHandler := transport.NewHealthHandler(healthService, a.Logger)

	r := chi.NewRouter()
	r.Use(custommw.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.RequestMetrics(a.Metrics))
	if a.Config.Server.RateLimit.Enabled {
		limiter := custommw.NewRateLimiter(
			a.Config.Server.RateLimit.RPS,
			a.Config.Server.RateLimit.Burst,
			a.Logger)
		r.Use(limiter.Handler)
	}

	r.Get("/metrics", promhttp.HandlerFor(a.Metrics.Registry, promhttp.HandlerOpts{}).ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/health", healthHandler.HealthCheck)
		r.Get("/version", healthHandler.Version)
		r.Route("/v1", func(r chi.Router) {
			r.Post("/analyze", analyzeHandler.Handle)
		})
	})

	return r
}

// Run serves until ctx is canceled, then shuts down gracefully within
// the configured timeout.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening",
			slog.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down",
		slog.Duration("timeout", a.Config.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.Config.Server.ShutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
