// Package jwt реализует генерацию и парсинг JWT токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для создания и проверки токенов, привязанных к
// пользователю и назначению (сессия или сброс пароля).
// MakerImpl — конкретная реализация с секретным ключом и сроками жизни токенов.
package jwt

import (
	"time"
)

// Purpose задает назначение выданного токена.
//
// Токен сессии и токен сброса пароля подписываются одним механизмом,
// но не взаимозаменяемы: при парсинге назначение сверяется с ожидаемым.
type Purpose string

const (
	// PurposeSession — токен авторизации для защищенных маршрутов, живет 24 часа.
	PurposeSession Purpose = "session"
	// PurposePasswordReset — токен сброса пароля, живет 1 час.
	PurposePasswordReset Purpose = "password_reset"
)

// Maker описывает интерфейс для генерации и парсинга JWT токенов.
type Maker interface {
	// GenerateToken создает токен для пользователя с указанной ролью и назначением.
	GenerateToken(userUID, role string, purpose Purpose) (string, error)
	// ParseToken проверяет подпись, срок действия и назначение токена.
	ParseToken(tokenStr string, purpose Purpose) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токенов по назначению.
type MakerImpl struct {
	secretKey  string
	sessionTTL time.Duration
	resetTTL   time.Duration
}

// NewJWTMaker создаёт новый экземпляр MakerImpl.
//
// Секретный ключ передается явно при конструировании и не читается
// из окружения внутри пакета.
func NewJWTMaker(secretKey string, sessionTTL, resetTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:  secretKey,
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
	}
}
