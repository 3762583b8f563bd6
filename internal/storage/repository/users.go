package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/naluwan/wsa-backend/internal/models"
)

// GetUserByUID возвращает пользователя вместе со счётчиками опыта.
func (s *Storage) GetUserByUID(ctx context.Context, userUID string) (*models.User, bool, error) {
	const op = "storage.GetUserByUID"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, email, total_xp, weekly_xp, created_at
			  FROM users WHERE uid = $1`
	var user models.User
	err := s.DB.QueryRowContext(ctx, query, userUID).Scan(
		&user.UID, &user.Username, &user.Email,
		&user.TotalXP, &user.WeeklyXP, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return &user, true, nil
}

// ResetWeeklyXP обнуляет недельные счётчики опыта всем пользователям.
// Возвращает количество затронутых строк.
func (s *Storage) ResetWeeklyXP(ctx context.Context) (int64, error) {
	const op = "storage.ResetWeeklyXP"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `UPDATE users SET weekly_xp = 0 WHERE weekly_xp > 0`)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return affected, nil
}

// ListWeeklyLeaders возвращает пользователей с наибольшим недельным опытом.
func (s *Storage) ListWeeklyLeaders(ctx context.Context, limit int) ([]*models.User, error) {
	const op = "storage.ListWeeklyLeaders"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, username, email, total_xp, weekly_xp, created_at
			  FROM users
			  WHERE weekly_xp > 0
			  ORDER BY weekly_xp DESC, username
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.UID, &user.Username, &user.Email,
			&user.TotalXP, &user.WeeklyXP, &user.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
