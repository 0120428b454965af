// Package jwt реализует выпуск и проверку подписанных JWT токенов,
// удостоверяющих личность пользователя.
//
// Maker определяет интерфейс для создания и проверки токенов с идентификатором пользователя.
// MakerImpl реализация с секретным ключом (HS256) и временем жизни токена.
package jwt

import (
	"errors"
	"time"
)

// DefaultTokenTTL время жизни токена по умолчанию: 7 дней.
const DefaultTokenTTL = 7 * 24 * time.Hour

var (
	// ErrInvalidToken возвращается при неверной подписи, алгоритме или формате токена.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken возвращается, если срок действия токена истёк.
	ErrExpiredToken = errors.New("token expired")
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken подписывает токен с идентификатором пользователя.
	GenerateToken(userUID string) (string, error)
	// ParseToken проверяет токен и возвращает его claims.
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey []byte        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
	now       func() time.Time
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
// Нулевой или отрицательный TTL заменяется на DefaultTokenTTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &MakerImpl{
		secretKey: []byte(secretKey),
		tokenTTL:  ttl,
		now:       time.Now,
	}
}

// TTL возвращает время жизни выпускаемых токенов.
func (j *MakerImpl) TTL() time.Duration {
	return j.tokenTTL
}
