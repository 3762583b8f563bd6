// Package order реализует жизненный цикл заказа на покупку курса:
// создание, оплату, отмену и поиск актуального неоплаченного заказа.
//
// Заказ живёт по схеме pending -> {paid, cancelled}; оба конечные.
// Истечение срока оплаты — вычисляемый признак (pay_deadline в прошлом),
// он пересчитывается по текущим часам при каждом чтении и никогда
// не хранится как отдельный статус.
package order

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/naluwan/wsa-backend/internal/models"
)

// Repository определяет методы хранилища для заказов и владения курсами.
// Методы InsertOrder, PayOrder и CancelOrder атомарны: проверка статуса
// и запись выполняются одной транзакцией.
type Repository interface {
	// FindOwnership сообщает, владеет ли пользователь курсом.
	FindOwnership(ctx context.Context, userUID, courseCode string) (bool, error)
	// GetCourse возвращает курс по коду.
	GetCourse(ctx context.Context, code string) (*models.Course, bool, error)
	// InsertOrder вставляет pending-заказ; при гонке с параллельным
	// созданием возвращает уже существующий активный заказ пары.
	InsertOrder(ctx context.Context, entry models.Order, now time.Time) (*models.Order, error)
	// FindActiveOrder возвращает самый свежий непросроченный pending-заказ пары.
	FindActiveOrder(ctx context.Context, userUID, courseCode string, now time.Time) (*models.Order, bool, error)
	// PayOrder переводит заказ в paid и выдаёт владение курсом одной транзакцией.
	PayOrder(ctx context.Context, orderNo, userUID string, now time.Time) (*models.Order, error)
	// CancelOrder переводит заказ в cancelled.
	CancelOrder(ctx context.Context, orderNo, userUID string, now time.Time) (*models.Order, error)
}

// EventPublisher публикует доменные события для внешних потребителей
// (рассылка уведомлений живёт в отдельном сервисе).
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// PaidEvent — событие об успешной оплате заказа.
type PaidEvent struct {
	OrderNo    string    `json:"order_no"`
	UserUID    string    `json:"user_uid"`
	CourseCode string    `json:"course_code"`
	Amount     int       `json:"amount"`
	PaidAt     time.Time `json:"paid_at"`
}

// Service реализует бизнес-логику заказов.
type Service struct {
	repo      Repository
	events    EventPublisher
	log       *slog.Logger
	payWindow time.Duration
}

// New создает новый экземпляр Service. payWindow задаёт срок,
// в течение которого созданный заказ можно оплатить.
func New(repo Repository, events EventPublisher, log *slog.Logger, payWindow time.Duration) *Service {
	return &Service{
		repo:      repo,
		events:    events,
		log:       log,
		payWindow: payWindow,
	}
}

// Create оформляет заказ пользователя на курс.
//
// Уже купленный курс повторно заказать нельзя (models.ErrAlreadyOwned).
// Если у пары (пользователь, курс) уже есть непросроченный pending-заказ,
// возвращается именно он: повторный вызов Create идемпотентен и отдаёт
// тот же номер заказа.
func (s *Service) Create(ctx context.Context, userUID, courseCode string, now time.Time) (*models.Order, error) {
	const op = "services.order.Create"

	owns, err := s.repo.FindOwnership(ctx, userUID, courseCode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if owns {
		return nil, models.ErrAlreadyOwned
	}

	course, found, err := s.repo.GetCourse(ctx, courseCode)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, models.ErrCourseNotFound
	}

	existing, found, err := s.repo.FindActiveOrder(ctx, userUID, courseCode, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if found {
		s.log.Info("reusing active order",
			slog.String("order_no", existing.OrderNo),
			slog.String("course_code", courseCode))
		return existing, nil
	}

	entry := models.Order{
		OrderNo:     uuid.New().String(),
		UserUID:     userUID,
		CourseCode:  courseCode,
		Amount:      course.Price,
		Status:      models.OrderStatusPending,
		PayDeadline: now.Add(s.payWindow),
		CreatedAt:   now,
	}

	created, err := s.repo.InsertOrder(ctx, entry, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("created new order",
		slog.String("order_no", created.OrderNo),
		slog.String("course_code", courseCode),
		slog.Int("amount", created.Amount))
	return created, nil
}

// Pay подтверждает оплату заказа. Сам платёжный шлюз внешний:
// здесь моделируется только переход после подтверждения платежа.
//
// Возможные исходы: models.ErrOrderNotFound, models.ErrForbidden (чужой
// заказ), models.ErrAlreadyTerminal, models.ErrOrderExpired. Проверка срока
// и смена статуса вместе с выдачей владения выполняются одной транзакцией
// хранилища: не бывает состояния, когда заказ оплачен, а владение не выдано.
func (s *Service) Pay(ctx context.Context, orderNo, userUID string, now time.Time) (*models.Order, error) {
	const op = "services.order.Pay"

	paid, err := s.repo.PayOrder(ctx, orderNo, userUID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("order paid",
		slog.String("order_no", paid.OrderNo),
		slog.String("course_code", paid.CourseCode))

	event := PaidEvent{
		OrderNo:    paid.OrderNo,
		UserUID:    paid.UserUID,
		CourseCode: paid.CourseCode,
		Amount:     paid.Amount,
		PaidAt:     *paid.PaidAt,
	}
	if err := s.events.Publish("order.paid", event); err != nil {
		s.log.Warn("failed to publish order.paid event",
			slog.String("order_no", paid.OrderNo), slog.Any("err", err))
	}

	return paid, nil
}

// Cancel отменяет pending-заказ. Владение курсом не затрагивается.
// Возможные исходы: models.ErrOrderNotFound, models.ErrForbidden,
// models.ErrAlreadyTerminal.
func (s *Service) Cancel(ctx context.Context, orderNo, userUID string, now time.Time) (*models.Order, error) {
	const op = "services.order.Cancel"

	cancelled, err := s.repo.CancelOrder(ctx, orderNo, userUID, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("order cancelled", slog.String("order_no", cancelled.OrderNo))
	return cancelled, nil
}

// FindActiveOrder возвращает самый свежий непросроченный pending-заказ
// пользователя на курс или found=false, если такого нет.
func (s *Service) FindActiveOrder(ctx context.Context, userUID, courseCode string, now time.Time) (*models.Order, bool, error) {
	const op = "services.order.FindActiveOrder"

	entry, found, err := s.repo.FindActiveOrder(ctx, userUID, courseCode, now)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return entry, found, nil
}
