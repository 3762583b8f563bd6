// Package jwt реализует разбор и выпуск сессионных JWT токенов.
//
// Сам OAuth-обмен с внешним провайдером выполняется за пределами
// сервиса: сюда приходит уже выданный bearer-токен, из которого
// извлекаются идентификатор и имя пользователя.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims описывает пользовательские данные, хранящиеся в JWT.
type SessionClaims struct {
	UserUID              string `json:"user_uid"` // Идентификатор пользователя
	Username             string `json:"username"` // Отображаемое имя
	jwt.RegisteredClaims        // Стандартные claims (ExpiresAt, IssuedAt и пр.)
}

// Maker описывает интерфейс для выпуска и разбора сессионных токенов.
type Maker interface {
	// GenerateToken выпускает токен для пользователя.
	GenerateToken(userUID, username string) (string, error)
	// ParseToken проверяет подпись и срок токена, возвращает claims.
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl реализует Maker на секретном ключе HS256 и TTL.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewMaker создаёт новый MakerImpl.
func NewMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
