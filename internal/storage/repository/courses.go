package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/naluwan/wsa-backend/internal/models"
)

// GetCourse возвращает опубликованный курс по коду.
func (s *Storage) GetCourse(ctx context.Context, code string) (*models.Course, bool, error) {
	const op = "storage.GetCourse"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT code, title, description, price, is_published
			  FROM courses WHERE code = $1 AND is_published = TRUE`
	var course models.Course
	err := s.DB.QueryRowContext(ctx, query, code).Scan(
		&course.Code, &course.Title, &course.Description, &course.Price, &course.IsPublished)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return &course, true, nil
}

// GetUnit возвращает урок по идентификатору.
func (s *Storage) GetUnit(ctx context.Context, unitID int) (*models.Unit, bool, error) {
	const op = "storage.GetUnit"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, course_code, section_id, title, is_free_preview, xp_reward, order_index
			  FROM units WHERE id = $1`
	var unit models.Unit
	err := s.DB.QueryRowContext(ctx, query, unitID).Scan(
		&unit.ID, &unit.CourseCode, &unit.SectionID, &unit.Title,
		&unit.IsFreePreview, &unit.XPReward, &unit.OrderIndex)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return &unit, true, nil
}

// FirstUnit возвращает идентификатор первого по порядку урока курса.
func (s *Storage) FirstUnit(ctx context.Context, courseCode string) (int, bool, error) {
	const op = "storage.FirstUnit"
	select {
	case <-ctx.Done():
		return 0, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.id
			  FROM units u
			  JOIN sections s ON s.id = u.section_id
			  WHERE u.course_code = $1
			  ORDER BY s.order_index, u.order_index
			  LIMIT 1`
	var unitID int
	err := s.DB.QueryRowContext(ctx, query, courseCode).Scan(&unitID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return unitID, true, nil
}

// FindLastWatched возвращает последний просмотренный урок пользователя в курсе.
func (s *Storage) FindLastWatched(ctx context.Context, userUID, courseCode string) (int, bool, error) {
	const op = "storage.FindLastWatched"
	select {
	case <-ctx.Done():
		return 0, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT unit_id FROM last_watched WHERE user_uid = $1 AND course_code = $2`
	var unitID int
	err := s.DB.QueryRowContext(ctx, query, userUID, courseCode).Scan(&unitID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%s: %w", op, err)
	}
	return unitID, true, nil
}

// UpsertLastWatched запоминает последний просмотренный урок пользователя в курсе.
func (s *Storage) UpsertLastWatched(ctx context.Context, userUID, courseCode string, unitID int, now time.Time) error {
	const op = "storage.UpsertLastWatched"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO last_watched (user_uid, course_code, unit_id, updated_at)
			  VALUES ($1, $2, $3, $4)
			  ON CONFLICT (user_uid, course_code)
			  DO UPDATE SET unit_id = EXCLUDED.unit_id, updated_at = EXCLUDED.updated_at`
	_, err := s.DB.ExecContext(ctx, query, userUID, courseCode, unitID, now)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
