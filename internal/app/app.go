// Package app assembles the API process from config.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bizdir/backend/internal/businesses"
	"github.com/bizdir/backend/internal/config"
	"github.com/bizdir/backend/internal/infra"
	"github.com/bizdir/backend/internal/security"
	"github.com/bizdir/backend/internal/server"
	"github.com/bizdir/backend/internal/server/mw"
	"github.com/bizdir/backend/internal/store"
)

// Run serves the API until ctx is cancelled, then shuts down within
// Server.ShutdownTimeout.
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	inf, err := infra.New(ctx, *cfg, logger)
	if err != nil {
		return fmt.Errorf("infra init: %w", err)
	}
	defer inf.Close()

	srv := NewHTTPServer(*cfg, Dependencies(*cfg, inf), logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.AppEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("http server shutting down")
	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Dependencies builds the router dependencies on top of live infra.
func Dependencies(cfg config.Config, inf *infra.Infra) server.Dependencies {
	denylist := store.NewTokenDenylist(inf.Redis)
	return server.Dependencies{
		Catalog:    inf.Catalog,
		Businesses: businesses.NewRepo(inf.PG),
		Cache:      store.NewListingCache(inf.Redis, cfg.Cache.ListingTTL),
		Limiter:    mw.NewRedisLimiter(inf.Redis, cfg.Security.RateLimitRPS),
		Denylist:   denylist,
		Revoker:    denylist,
		JWT:        security.NewJWTManager(cfg.Security.AdminJWTSecret, cfg.Security.AdminTokenTTL),
	}
}

func NewHTTPServer(cfg config.Config, deps server.Dependencies, logger *zap.Logger) *http.Server {
	return &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.NewRouter(cfg, deps, logger),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}
}
