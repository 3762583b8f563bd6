package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	maintenanceapp "github.com/naluwan/wsa-backend/internal/app/maintenance"
	"github.com/naluwan/wsa-backend/internal/config"
	"github.com/naluwan/wsa-backend/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Info("starting maintenance", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := maintenanceapp.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize maintenance app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error("maintenance app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("maintenance stopped gracefully")
}
