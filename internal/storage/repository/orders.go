package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/naluwan/wsa-backend/internal/models"
)

const orderColumns = `order_no, user_uid, course_code, amount, status, pay_deadline, paid_at, created_at`

// InsertOrder вставляет новый pending-заказ.
//
// Частичный уникальный индекс на (user_uid, course_code) для статуса
// pending не допускает двух живых заказов пары. Просроченные pending-заказы
// пары предварительно переводятся в cancelled той же транзакцией, чтобы
// не блокировать новый заказ. При гонке с параллельной вставкой
// возвращается заказ, выигравший гонку.
func (s *Storage) InsertOrder(ctx context.Context, entry models.Order, now time.Time) (*models.Order, error) {
	const op = "storage.InsertOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
		UPDATE orders SET status = $1
		WHERE user_uid = $2 AND course_code = $3 AND status = $4 AND pay_deadline <= $5`,
		models.OrderStatusCancelled, entry.UserUID, entry.CourseCode, models.OrderStatusPending, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (order_no, user_uid, course_code, amount, status, pay_deadline, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.OrderNo, entry.UserUID, entry.CourseCode, entry.Amount,
		entry.Status, entry.PayDeadline, entry.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			existing, found, ferr := s.FindActiveOrder(ctx, entry.UserUID, entry.CourseCode, now)
			if ferr != nil {
				return nil, fmt.Errorf("%s: %w", op, ferr)
			}
			if found {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &entry, nil
}

// FindActiveOrder возвращает самый свежий непросроченный pending-заказ
// пары (пользователь, курс). Срок оплаты всегда сравнивается с now,
// переданным вызывающей стороной: просроченность — вычисляемый признак.
func (s *Storage) FindActiveOrder(ctx context.Context, userUID, courseCode string, now time.Time) (*models.Order, bool, error) {
	const op = "storage.FindActiveOrder"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + orderColumns + `
			  FROM orders
			  WHERE user_uid = $1 AND course_code = $2 AND status = $3 AND pay_deadline > $4
			  ORDER BY created_at DESC
			  LIMIT 1`
	var entry models.Order
	err := s.DB.QueryRowContext(ctx, query, userUID, courseCode, models.OrderStatusPending, now).Scan(
		&entry.OrderNo, &entry.UserUID, &entry.CourseCode, &entry.Amount,
		&entry.Status, &entry.PayDeadline, &entry.PaidAt, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return &entry, true, nil
}

// PayOrder переводит заказ в paid и выдаёт владение курсом.
// Чужой заказ оплатить нельзя: userUID сверяется с покупателем.
//
// Чтение с блокировкой строки, проверка срока и обе записи выполняются
// одной транзакцией: оплата после дедлайна невозможна даже при гонке
// с часами, и не бывает оплаченного заказа без выданного владения.
func (s *Storage) PayOrder(ctx context.Context, orderNo, userUID string, now time.Time) (*models.Order, error) {
	const op = "storage.PayOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	entry, err := lockOrder(ctx, tx, orderNo)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if entry.UserUID != userUID {
		return nil, models.ErrForbidden
	}
	if entry.IsTerminal() {
		return nil, models.ErrAlreadyTerminal
	}
	if entry.IsExpired(now) {
		return nil, models.ErrOrderExpired
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE orders SET status = $1, paid_at = $2 WHERE order_no = $3`,
		models.OrderStatusPaid, now, orderNo)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO ownerships (user_uid, course_code, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_uid, course_code) DO NOTHING`,
		entry.UserUID, entry.CourseCode, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entry.Status = models.OrderStatusPaid
	entry.PaidAt = &now
	return entry, nil
}

// CancelOrder переводит pending-заказ в cancelled. Владение не затрагивается.
func (s *Storage) CancelOrder(ctx context.Context, orderNo, userUID string, now time.Time) (*models.Order, error) {
	const op = "storage.CancelOrder"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	entry, err := lockOrder(ctx, tx, orderNo)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if entry.UserUID != userUID {
		return nil, models.ErrForbidden
	}
	if entry.IsTerminal() {
		return nil, models.ErrAlreadyTerminal
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE orders SET status = $1 WHERE order_no = $2`,
		models.OrderStatusCancelled, orderNo)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entry.Status = models.OrderStatusCancelled
	return entry, nil
}

// CancelExpiredOrders переводит все просроченные pending-заказы в cancelled.
// Возвращает количество закрытых заказов. Просроченные заказы и так
// лениво закрываются при создании нового заказа пары; фоновая зачистка
// не даёт им копиться для пользователей, которые не вернулись.
func (s *Storage) CancelExpiredOrders(ctx context.Context, now time.Time) (int64, error) {
	const op = "storage.CancelExpiredOrders"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `
		UPDATE orders SET status = $1
		WHERE status = $2 AND pay_deadline <= $3`,
		models.OrderStatusCancelled, models.OrderStatusPending, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}

// lockOrder читает заказ с блокировкой строки внутри транзакции.
func lockOrder(ctx context.Context, tx *sql.Tx, orderNo string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE order_no = $1 FOR UPDATE`
	var entry models.Order
	err := tx.QueryRowContext(ctx, query, orderNo).Scan(
		&entry.OrderNo, &entry.UserUID, &entry.CourseCode, &entry.Amount,
		&entry.Status, &entry.PayDeadline, &entry.PaidAt, &entry.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}
	return &entry, nil
}
