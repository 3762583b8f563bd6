// Package progression реализует учёт прохождения уроков и начисление опыта.
//
// Завершение урока идемпотентно: опыт за пару (пользователь, урок)
// начисляется ровно один раз, сколько бы раз и как бы параллельно
// ни пришёл запрос. Точка принуждения — атомарная операция хранилища
// InsertCompletionAndAddXP.
package progression

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/naluwan/wsa-backend/internal/lib/leveling"
	"github.com/naluwan/wsa-backend/internal/models"
	"github.com/naluwan/wsa-backend/internal/services/entitlement"
)

// Repository определяет методы хранилища для прогресса пользователя.
type Repository interface {
	// GetUnit возвращает урок по идентификатору.
	GetUnit(ctx context.Context, unitID int) (*models.Unit, bool, error)
	// FindOwnership сообщает, владеет ли пользователь курсом.
	FindOwnership(ctx context.Context, userUID, courseCode string) (bool, error)
	// InsertCompletionAndAddXP одной транзакцией фиксирует завершение
	// урока и прибавляет опыт; повторное завершение возвращает
	// models.ErrAlreadyCompleted без изменения счётчиков.
	InsertCompletionAndAddXP(ctx context.Context, userUID string, unitID, xpReward int, now time.Time) (totalXP, weeklyXP int, err error)
	// GetUserByUID возвращает пользователя вместе со счётчиками опыта.
	GetUserByUID(ctx context.Context, userUID string) (*models.User, bool, error)
	// ListWeeklyLeaders возвращает пользователей с наибольшим недельным опытом.
	ListWeeklyLeaders(ctx context.Context, limit int) ([]*models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// EventPublisher публикует доменные события для внешних потребителей.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// CompletedEvent — событие о первом завершении урока пользователем.
type CompletedEvent struct {
	UserUID     string    `json:"user_uid"`
	UnitID      int       `json:"unit_id"`
	CourseCode  string    `json:"course_code"`
	XPEarned    int       `json:"xp_earned"`
	TotalXP     int       `json:"total_xp"`
	Level       int       `json:"level"`
	CompletedAt time.Time `json:"completed_at"`
}

const (
	summaryTTL     = 5 * time.Minute
	leaderboardTTL = time.Minute

	// DefaultLeaderboardLimit — размер рейтинга по умолчанию; именно эта
	// страница кешируется и инвалидируется при завершении урока.
	DefaultLeaderboardLimit = 10
)

// Service реализует бизнес-логику прогресса, включая кеширование.
type Service struct {
	repo   Repository
	cache  Cache
	events EventPublisher
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, cache Cache, events EventPublisher, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		events: events,
		log:    log,
	}
}

// CompleteUnit фиксирует завершение урока и начисляет опыт.
//
// Право на завершение перепроверяется здесь независимо от того, что
// проверял обработчик: защита в глубину против ошибки вызывающего кода.
// Повторный вызов с теми же аргументами возвращает models.ErrAlreadyCompleted
// и не меняет счётчики — вызывающая сторона может безопасно повторять запрос.
func (s *Service) CompleteUnit(ctx context.Context, userUID string, unitID int, now time.Time) (*models.CompletionResult, error) {
	const op = "services.progression.CompleteUnit"

	unit, owns, err := s.unitFacts(ctx, userUID, unitID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	isAuthenticated := userUID != ""
	if !entitlement.CanComplete(isAuthenticated, owns, *unit) {
		return nil, models.ErrForbidden
	}

	totalXP, weeklyXP, err := s.repo.InsertCompletionAndAddXP(ctx, userUID, unitID, unit.XPReward, now)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	progress := leveling.Level(totalXP)
	result := &models.CompletionResult{
		TotalXP:  totalXP,
		WeeklyXP: weeklyXP,
		Level:    progress.Level,
		XPEarned: unit.XPReward,
	}

	s.log.Info("unit completed",
		slog.String("user_uid", userUID),
		slog.Int("unit_id", unitID),
		slog.Int("xp_earned", unit.XPReward),
		slog.Int("level", progress.Level))

	s.invalidateProgressCache(userUID)

	event := CompletedEvent{
		UserUID:     userUID,
		UnitID:      unitID,
		CourseCode:  unit.CourseCode,
		XPEarned:    unit.XPReward,
		TotalXP:     totalXP,
		Level:       progress.Level,
		CompletedAt: now,
	}
	if err := s.events.Publish("unit.completed", event); err != nil {
		s.log.Warn("failed to publish unit.completed event",
			slog.String("user_uid", userUID), slog.Any("err", err))
	}

	return result, nil
}

// Access сообщает, имеет ли пользователь право открыть урок.
// Пустой userUID означает анонимную сессию.
func (s *Service) Access(ctx context.Context, userUID string, unitID int) (bool, error) {
	const op = "services.progression.Access"

	unit, owns, err := s.unitFacts(ctx, userUID, unitID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return entitlement.CanView(userUID != "", owns, *unit), nil
}

// unitFacts загружает урок и факт владения его курсом. Для анонимной
// сессии владение не запрашивается вовсе и считается ложным.
func (s *Service) unitFacts(ctx context.Context, userUID string, unitID int) (*models.Unit, bool, error) {
	unit, found, err := s.repo.GetUnit(ctx, unitID)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, models.ErrUnitNotFound
	}

	owns := false
	if userUID != "" {
		owns, err = s.repo.FindOwnership(ctx, userUID, unit.CourseCode)
		if err != nil {
			return nil, false, err
		}
	}
	return unit, owns, nil
}

// Summary возвращает сводку прогресса пользователя, используя кеш
// или хранилище. Уровень всегда пересчитывается из суммарного опыта.
func (s *Service) Summary(ctx context.Context, userUID string) (*models.ProgressSummary, error) {
	const op = "services.progression.Summary"

	var cached *models.ProgressSummary
	cacheKey := summaryCacheKey(userUID)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read summary from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	user, found, err := s.repo.GetUserByUID(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, models.ErrUserNotFound
	}

	progress := leveling.Level(user.TotalXP)
	summary := &models.ProgressSummary{
		Username:       user.Username,
		TotalXP:        user.TotalXP,
		WeeklyXP:       user.WeeklyXP,
		Level:          progress.Level,
		XPIntoLevel:    progress.XPIntoLevel,
		XPForNextLevel: progress.XPForNextLevel,
		XPToNext:       progress.XPToNext,
	}

	if err := s.cache.Set(cacheKey, summary, summaryTTL); err != nil {
		s.log.Warn("failed to cache summary", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return summary, nil
}

// Leaderboard возвращает недельный рейтинг пользователей.
// Неположительный limit заменяется на DefaultLeaderboardLimit.
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error) {
	const op = "services.progression.Leaderboard"

	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	var cached []*models.LeaderboardEntry
	cacheKey := fmt.Sprintf("leaderboard:weekly:%d", limit)
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		s.log.Warn("failed to read leaderboard from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
	if found {
		return cached, nil
	}

	users, err := s.repo.ListWeeklyLeaders(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entries := make([]*models.LeaderboardEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, &models.LeaderboardEntry{
			Username: u.Username,
			WeeklyXP: u.WeeklyXP,
			Level:    leveling.Level(u.TotalXP).Level,
		})
	}

	if err := s.cache.Set(cacheKey, entries, leaderboardTTL); err != nil {
		s.log.Warn("failed to cache leaderboard", slog.String("key", cacheKey), slog.Any("err", err))
	}
	return entries, nil
}

func (s *Service) invalidateProgressCache(userUID string) {
	leaderboardKey := fmt.Sprintf("leaderboard:weekly:%d", DefaultLeaderboardLimit)
	for _, key := range []string{summaryCacheKey(userUID), leaderboardKey} {
		if err := s.cache.Invalidate(key); err != nil {
			s.log.Warn("failed to invalidate cache", slog.String("key", key), slog.Any("err", err))
		}
	}
}

func summaryCacheKey(userUID string) string {
	return fmt.Sprintf("progress:%s", userUID)
}
