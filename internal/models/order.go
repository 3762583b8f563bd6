package models

import "time"

// Статусы заказа. Заказ создаётся в статусе pending и переходит
// в paid или cancelled; оба конечные. Истечение срока оплаты —
// вычисляемый признак (pay_deadline в прошлом), не отдельный статус.
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusCancelled = "cancelled"
)

// Order представляет заказ на покупку курса.
type Order struct {
	OrderNo     string     // Уникальный номер заказа (UUID)
	UserUID     string     // Покупатель
	CourseCode  string     // Покупаемый курс
	Amount      int        // Сумма заказа в центах
	Status      string     // pending, paid или cancelled
	PayDeadline time.Time  // Срок, до которого заказ можно оплатить
	PaidAt      *time.Time // Время оплаты, nil пока заказ не оплачен
	CreatedAt   time.Time  // Время создания заказа
}

// IsExpired сообщает, истёк ли срок оплаты pending-заказа
// на момент now. Для конечных статусов всегда false.
func (o *Order) IsExpired(now time.Time) bool {
	return o.Status == OrderStatusPending && now.After(o.PayDeadline)
}

// IsTerminal сообщает, находится ли заказ в конечном статусе.
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusPaid || o.Status == OrderStatusCancelled
}

// DummyOrder используется для приёма данных из JSON-запроса на создание заказа.
type DummyOrder struct {
	CourseCode string `json:"course_code" validate:"required"` // Код курса
}
