// Package entitlement решает, имеет ли пользователь право на просмотр
// и завершение урока. Функции чистые: они работают только с уже
// загруженными фактами и не могут завершиться ошибкой.
package entitlement

import "github.com/naluwan/wsa-backend/internal/models"

// CanView сообщает, может ли пользователь открыть урок.
//
// Правило: бесплатный превью-урок доступен всем; платный урок —
// только аутентифицированному владельцу курса. Для анонимной сессии
// признак владения игнорируется, даже если вызывающая сторона
// передала ownsCourse=true: устаревшие или ошибочные данные о
// владении не должны открывать платный контент.
func CanView(isAuthenticated, ownsCourse bool, unit models.Unit) bool {
	if unit.IsFreePreview {
		return true
	}
	if !isAuthenticated {
		return false
	}
	return ownsCourse
}

// CanComplete сообщает, может ли пользователь завершить урок.
// Отдельного права на завершение нет: завершение подразумевает
// предшествующий успешный просмотр, поэтому предикат совпадает с CanView.
func CanComplete(isAuthenticated, ownsCourse bool, unit models.Unit) bool {
	return CanView(isAuthenticated, ownsCourse, unit)
}
