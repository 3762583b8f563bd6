// Package maintenance собирает приложение фоновых задач обслуживания.
package maintenance

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/naluwan/wsa-backend/internal/config"
	maintenanceservice "github.com/naluwan/wsa-backend/internal/services/maintenance"
	"github.com/naluwan/wsa-backend/internal/storage/repository"
)

const (
	sweepInterval = time.Hour
	resetInterval = time.Hour
)

// App представляет приложение фоновых задач.
type App struct {
	maintenanceService *maintenanceservice.Service
	db                 *repository.Storage
	logger             *slog.Logger
}

func waitForDB(db *repository.Storage) error {
	for range 10 {
		err := repository.CheckDatabaseReady(db)
		if err == nil {
			return nil
		}
		time.Sleep(3 * time.Second)
	}
	return fmt.Errorf("database not ready after retries")
}

// New создает новый экземпляр приложения фоновых задач.
func New(_ context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect storage: %w", err)
	}

	if err := waitForDB(db); err != nil {
		return nil, err
	}

	maintenanceService := maintenanceservice.New(db, logger)

	return &App{
		maintenanceService: maintenanceService,
		db:                 db,
		logger:             logger,
	}, nil
}

// Run запускает фоновые задачи и блокируется до отмены контекста.
func (a *App) Run(ctx context.Context) error {
	go a.maintenanceService.SweepExpiredOrders(ctx, sweepInterval)
	go a.maintenanceService.ResetWeeklyXP(ctx, resetInterval)

	<-ctx.Done()

	a.logger.Info("shutting down maintenance service")

	if err := a.db.DB.Close(); err != nil {
		a.logger.Error("failed to close database", slog.Any("err", err))
	}

	return nil
}
