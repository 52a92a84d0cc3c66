package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/bizdir/backend/internal/app"
	"github.com/bizdir/backend/internal/bootstrap"
	"github.com/bizdir/backend/internal/config"
)

func main() {
	envFile, envErr := config.LoadDotEnvUp(8)

	logger, _ := zap.NewProduction()
	if os.Getenv("APP_ENV") == "local" {
		logger, _ = zap.NewDevelopment()
	}
	defer func() { _ = logger.Sync() }()

	switch {
	case envErr != nil:
		logger.Fatal("env file load failed", zap.String("path", envFile), zap.Error(envErr))
	case envFile != "":
		logger.Info("env file loaded", zap.String("path", envFile))
	}

	if err := bootstrap.APIGuard(logger).Check(nil); err != nil {
		logger.Fatal("startup guard failed", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config load failed", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, logger); err != nil {
		logger.Fatal("api stopped", zap.Error(err))
	}
	logger.Info("api stopped")
}
