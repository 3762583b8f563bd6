// Package entry решает, куда направить пользователя при входе в курс.
//
// Приоритет строгий и проверяется сверху вниз: владение курсом,
// затем незакрытый заказ, затем оформление нового заказа. Перестановка
// первых двух веток — классическая ошибка, из-за которой оплативший
// пользователь снова попадает на страницу оплаты.
package entry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/naluwan/wsa-backend/internal/models"
	"github.com/naluwan/wsa-backend/internal/services/entitlement"
)

// Repository определяет методы хранилища для маршрутизации входа в курс.
type Repository interface {
	// FindOwnership сообщает, владеет ли пользователь курсом.
	FindOwnership(ctx context.Context, userUID, courseCode string) (bool, error)
	// FindLastWatched возвращает последний просмотренный урок пользователя в курсе.
	FindLastWatched(ctx context.Context, userUID, courseCode string) (int, bool, error)
	// FirstUnit возвращает первый по порядку урок курса.
	FirstUnit(ctx context.Context, courseCode string) (int, bool, error)
	// GetUnit возвращает урок по идентификатору.
	GetUnit(ctx context.Context, unitID int) (*models.Unit, bool, error)
	// UpsertLastWatched запоминает последний просмотренный урок.
	UpsertLastWatched(ctx context.Context, userUID, courseCode string, unitID int, now time.Time) error
}

// OrderFinder ищет актуальный неоплаченный заказ пользователя на курс.
type OrderFinder interface {
	FindActiveOrder(ctx context.Context, userUID, courseCode string, now time.Time) (*models.Order, bool, error)
}

// Service реализует маршрутизацию входа в курс.
type Service struct {
	repo   Repository
	orders OrderFinder
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, orders OrderFinder, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		orders: orders,
		log:    log,
	}
}

// Resolve возвращает назначение для пользователя, открывшего курс.
//
// Владелец курса продолжает с последнего просмотренного урока, а при
// его отсутствии — с первого урока курса. Не-владелец с непросроченным
// pending-заказом отправляется на шаг оплаты именно этого заказа.
// Все остальные — на оформление нового заказа.
func (s *Service) Resolve(ctx context.Context, userUID, courseCode string, now time.Time) (*models.Destination, error) {
	const op = "services.entry.Resolve"

	owns, err := s.repo.FindOwnership(ctx, userUID, courseCode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if owns {
		unitID, found, err := s.repo.FindLastWatched(ctx, userUID, courseCode)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if !found {
			unitID, found, err = s.repo.FirstUnit(ctx, courseCode)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
			if !found {
				return nil, models.ErrCourseNotFound
			}
		}
		return &models.Destination{Kind: models.DestinationResumeLesson, UnitID: unitID}, nil
	}

	active, found, err := s.orders.FindActiveOrder(ctx, userUID, courseCode, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if found {
		return &models.Destination{Kind: models.DestinationPaymentStep, OrderNo: active.OrderNo}, nil
	}

	return &models.Destination{Kind: models.DestinationCreateOrder}, nil
}

// RecordWatch запоминает последний просмотренный урок пользователя в курсе.
// Право на просмотр перепроверяется: урок вне курса или недоступный
// пользователю урок не записывается.
func (s *Service) RecordWatch(ctx context.Context, userUID, courseCode string, unitID int, now time.Time) error {
	const op = "services.entry.RecordWatch"

	unit, found, err := s.repo.GetUnit(ctx, unitID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !found || unit.CourseCode != courseCode {
		return models.ErrUnitNotFound
	}

	owns, err := s.repo.FindOwnership(ctx, userUID, courseCode)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !entitlement.CanView(userUID != "", owns, *unit) {
		return models.ErrForbidden
	}

	if err := s.repo.UpsertLastWatched(ctx, userUID, courseCode, unitID, now); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("recorded last watched unit",
		slog.String("user_uid", userUID),
		slog.String("course_code", courseCode),
		slog.Int("unit_id", unitID))
	return nil
}
