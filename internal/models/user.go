// Package models содержит доменные структуры платформы: пользователей,
// курсы, заказы и записи о прохождении уроков. Структуры используются
// в бизнес-логике и при работе с хранилищем.
package models

import "time"

// User представляет пользователя платформы.
// Аутентификация выполняется внешним OAuth-провайдером, поэтому
// пароль не хранится: запись создаётся при первом входе.
type User struct {
	UID       string    // Уникальный идентификатор пользователя
	Username  string    // Отображаемое имя
	Email     string    // Электронная почта из OAuth-профиля
	TotalXP   int       // Накопленный опыт за всё время
	WeeklyXP  int       // Опыт за текущую неделю (обнуляется внешним планировщиком)
	CreatedAt time.Time // Дата первого входа
}
