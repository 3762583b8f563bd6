package models

import "errors"

// Ожидаемые доменные ошибки. Все они — нормальные исходы операций,
// на которые вызывающая сторона обязана ветвиться; внутренние сбои
// хранилища оборачиваются отдельно и сюда не входят.
var (
	// ErrAlreadyOwned возвращается при попытке создать заказ на уже купленный курс.
	ErrAlreadyOwned = errors.New("course already owned")
	// ErrOrderNotFound возвращается, когда заказ с таким номером не существует.
	ErrOrderNotFound = errors.New("order not found")
	// ErrAlreadyTerminal возвращается при попытке изменить оплаченный или отменённый заказ.
	ErrAlreadyTerminal = errors.New("order already in terminal status")
	// ErrOrderExpired возвращается при оплате заказа с истёкшим сроком.
	ErrOrderExpired = errors.New("order payment deadline passed")
	// ErrForbidden возвращается, когда у пользователя нет права на урок.
	ErrForbidden = errors.New("access to unit denied")
	// ErrAlreadyCompleted возвращается при повторном завершении урока.
	ErrAlreadyCompleted = errors.New("unit already completed")
	// ErrUnitNotFound возвращается, когда урок не существует.
	ErrUnitNotFound = errors.New("unit not found")
	// ErrCourseNotFound возвращается, когда курс не существует или пуст.
	ErrCourseNotFound = errors.New("course not found")
	// ErrUserNotFound возвращается, когда пользователь не существует.
	ErrUserNotFound = errors.New("user not found")
)
