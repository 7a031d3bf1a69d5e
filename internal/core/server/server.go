package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ZikZak134/Geozona/internal/core/config"
	"github.com/ZikZak134/Geozona/internal/core/health"
	middleware "github.com/ZikZak134/Geozona/internal/core/middleware"
	"github.com/ZikZak134/Geozona/internal/core/router"
	"github.com/ZikZak134/Geozona/internal/pipeline"
)

// sets up http and starts serving
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger, runner *pipeline.Runner, resolver router.PlaceResolver, deps ...health.DependencyReporter) error {
	r := chi.NewRouter()
	r.Use(middleware.Recover())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.RunTimeout(cfg.RunTimeout))

	r.Get("/healthz", health.Liveness())
	r.Get("/readyz", health.Readiness(deps...))
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Post("/coverage", router.HandleCoverage(logger, cfg, runner))
	r.Get("/coverage/by-place", router.HandleCoverageByPlace(logger, cfg, runner, resolver))

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// streaming responses can outlive slow grids; keep this generous
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listen", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		return err
	}
}
