// Package maintenance содержит фоновые задачи обслуживания данных:
// зачистку просроченных заказов и еженедельный сброс счётчиков опыта.
package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/naluwan/wsa-backend/internal/lib/sl"
)

// Repository описывает операции хранилища, нужные фоновым задачам.
type Repository interface {
	CancelExpiredOrders(ctx context.Context, now time.Time) (int64, error)
	ResetWeeklyXP(ctx context.Context) (int64, error)
}

// Service запускает периодические задачи обслуживания.
type Service struct {
	repo Repository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, log *slog.Logger) *Service {
	return &Service{
		repo: repo,
		log:  log,
	}
}

// SweepExpiredOrders периодически закрывает просроченные pending-заказы.
// Блокируется до отмены контекста.
func (s *Service) SweepExpiredOrders(ctx context.Context, interval time.Duration) {
	s.runSweepExpiredOrders(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runSweepExpiredOrders(ctx)
		}
	}
}

func (s *Service) runSweepExpiredOrders(ctx context.Context) {
	s.log.Info("starting expired orders sweep")
	count, err := s.repo.CancelExpiredOrders(ctx, time.Now().UTC())
	if err != nil {
		s.log.Error("failed to cancel expired orders", sl.Err(err))
		return
	}
	if count == 0 {
		s.log.Info("no expired orders found")
		return
	}
	s.log.Info("cancelled expired orders", slog.Int64("count", count))
}

// ResetWeeklyXP сбрасывает недельные счётчики опыта при смене ISO-недели.
// Проверка выполняется раз в interval; сброс происходит только когда
// номер недели изменился с прошлой проверки. Блокируется до отмены контекста.
func (s *Service) ResetWeeklyXP(ctx context.Context, interval time.Duration) {
	lastYear, lastWeek := time.Now().UTC().ISOWeek()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			year, week := time.Now().UTC().ISOWeek()
			if year == lastYear && week == lastWeek {
				continue
			}
			s.runResetWeeklyXP(ctx)
			lastYear, lastWeek = year, week
		}
	}
}

func (s *Service) runResetWeeklyXP(ctx context.Context) {
	s.log.Info("starting weekly xp reset")
	count, err := s.repo.ResetWeeklyXP(ctx)
	if err != nil {
		s.log.Error("failed to reset weekly xp", sl.Err(err))
		return
	}
	s.log.Info("weekly xp reset done", slog.Int64("users", count))
}
