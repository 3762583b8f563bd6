package models

import "time"

// UnitCompletion фиксирует факт завершения урока пользователем.
// Пара (UserUID, UnitID) уникальна: повторное завершение не создаёт
// новой записи и не начисляет опыт второй раз.
type UnitCompletion struct {
	UserUID     string    // Пользователь
	UnitID      int       // Завершённый урок
	CompletedAt time.Time // Время завершения
}

// CompletionResult возвращается после успешного завершения урока.
type CompletionResult struct {
	TotalXP  int `json:"total_xp"`  // Новый суммарный опыт
	WeeklyXP int `json:"weekly_xp"` // Новый опыт за неделю
	Level    int `json:"level"`     // Новый уровень
	XPEarned int `json:"xp_earned"` // Начислено за этот урок
}

// ProgressSummary описывает прогресс пользователя для профиля и шапки сайта.
type ProgressSummary struct {
	Username       string `json:"username"`
	TotalXP        int    `json:"total_xp"`
	WeeklyXP       int    `json:"weekly_xp"`
	Level          int    `json:"level"`
	XPIntoLevel    int    `json:"xp_into_level"`     // Опыт, набранный внутри текущего уровня
	XPForNextLevel int    `json:"xp_for_next_level"` // Ширина текущего уровня, 0 на максимуме
	XPToNext       int    `json:"xp_to_next"`        // Сколько осталось до следующего уровня
}

// LeaderboardEntry представляет строку недельного рейтинга.
type LeaderboardEntry struct {
	Username string `json:"username"`
	WeeklyXP int    `json:"weekly_xp"`
	Level    int    `json:"level"`
}

// LastWatched хранит последний просмотренный урок пользователя в курсе.
// Используется, чтобы вернуть пользователя к месту, где он остановился.
type LastWatched struct {
	UserUID    string
	CourseCode string
	UnitID     int
	UpdatedAt  time.Time
}

// DummyWatch используется для приёма данных из JSON-запроса
// о просмотре урока.
type DummyWatch struct {
	UnitID int `json:"unit_id" validate:"required,gt=0"` // Идентификатор урока
}
