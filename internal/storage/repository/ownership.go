package repository

import (
	"context"
	"fmt"
)

// FindOwnership сообщает, владеет ли пользователь курсом.
// Владение выдаётся только оплатой заказа (см. PayOrder) и в штатной
// работе не отзывается.
func (s *Storage) FindOwnership(ctx context.Context, userUID, courseCode string) (bool, error) {
	const op = "storage.FindOwnership"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS(
				SELECT 1 FROM ownerships WHERE user_uid = $1 AND course_code = $2)`
	var owns bool
	err := s.DB.QueryRowContext(ctx, query, userUID, courseCode).Scan(&owns)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return owns, nil
}
