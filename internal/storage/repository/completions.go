package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/naluwan/wsa-backend/internal/models"
)

// InsertCompletionAndAddXP одной транзакцией фиксирует завершение урока
// и прибавляет опыт к обоим счётчикам пользователя.
//
// Точка принуждения идемпотентности: первичный ключ (user_uid, unit_id)
// плюс условное начисление в той же транзакции. Параллельные дубли
// упираются в конфликт вставки, и опыт начисляется ровно один раз;
// проигравший запрос получает models.ErrAlreadyCompleted, счётчики
// не меняются.
func (s *Storage) InsertCompletionAndAddXP(ctx context.Context, userUID string, unitID, xpReward int, now time.Time) (int, int, error) {
	const op = "storage.InsertCompletionAndAddXP"
	select {
	case <-ctx.Done():
		return 0, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO unit_completions (user_uid, unit_id, completed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_uid, unit_id) DO NOTHING`,
		userUID, unitID, now)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	inserted, err := res.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	if inserted == 0 {
		return 0, 0, models.ErrAlreadyCompleted
	}

	var totalXP, weeklyXP int
	err = tx.QueryRowContext(ctx, `
		UPDATE users SET total_xp = total_xp + $1, weekly_xp = weekly_xp + $1
		WHERE uid = $2
		RETURNING total_xp, weekly_xp`,
		xpReward, userUID).Scan(&totalXP, &weeklyXP)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, models.ErrUserNotFound
		}
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	return totalXP, weeklyXP, nil
}
