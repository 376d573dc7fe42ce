// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/museum-directory/internal/lib/jwt"
	"github.com/magabrotheeeer/museum-directory/internal/lib/password"
	"github.com/magabrotheeeer/museum-directory/internal/lib/sl"
	"github.com/magabrotheeeer/museum-directory/internal/models"
	"github.com/magabrotheeeer/museum-directory/internal/rabbitmq"
	"github.com/magabrotheeeer/museum-directory/internal/storage/repository"
)

var (
	// ErrEmailTaken возвращается при регистрации на уже занятый email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials возвращается при неуспешном входе.
	// Несуществующий email и неверный пароль дают одну и ту же ошибку,
	// чтобы по ответу нельзя было перечислять учетные записи.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound возвращается, когда пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidToken возвращается при любой неуспешной проверке токена сброса.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по email или ошибку, если не найден.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUserByUID возвращает пользователя по UID.
	GetUserByUID(ctx context.Context, userUID string) (*models.User, error)
	// UpdateUserProfile частично обновляет профиль и возвращает обновленную запись.
	UpdateUserProfile(ctx context.Context, userUID string, upd models.ProfileUpdate) (*models.User, error)
	// UpdatePasswordHash перезаписывает хэш пароля пользователя.
	UpdatePasswordHash(ctx context.Context, userUID, passwordHash string) error
}

// ResetNotifier публикует задачу на отправку письма сброса пароля.
type ResetNotifier interface {
	Publish(routingKey string, message any) error
}

// AuthService отвечает за регистрацию, авторизацию, профиль и сброс пароля.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	notifier ResetNotifier
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, notifier ResetNotifier, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		notifier: notifier,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля и выдает токен сессии.
//
// Email нормализуется к нижнему регистру; роль по умолчанию "user".
// Занятый email приходит из хранилища как нарушение уникального индекса
// и возвращается как ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, name, email, rawPassword, phone, role string) (string, *models.PublicUser, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", nil, err
	}
	if role == "" {
		role = "user" // дефолтная роль при регистрации
	}
	user := models.User{
		Name:         name,
		Email:        normalizeEmail(email),
		PasswordHash: hashed,
		Phone:        phone,
		Role:         role,
	}
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return "", nil, ErrEmailTaken
		}
		return "", nil, err
	}
	user.UID = uid

	token, err := s.jwtMaker.GenerateToken(uid, user.Role, jwt.PurposeSession)
	if err != nil {
		return "", nil, err
	}
	return token, user.Public(), nil
}

// Login проверяет пароль пользователя и генерирует токен сессии.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, *models.PublicUser, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.UID, user.Role, jwt.PurposeSession)
	if err != nil {
		return "", nil, err
	}
	return token, user.Public(), nil
}

// GetProfile возвращает публичную проекцию пользователя по UID из токена.
func (s *AuthService) GetProfile(ctx context.Context, userUID string) (*models.PublicUser, error) {
	user, err := s.users.GetUserByUID(ctx, userUID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.Public(), nil
}

// UpdateProfile частично обновляет имя, телефон и адрес пользователя.
// Пустые поля оставляют сохраненные значения; email, пароль и роль
// через этот путь не меняются.
func (s *AuthService) UpdateProfile(ctx context.Context, userUID string, upd models.ProfileUpdate) (*models.PublicUser, error) {
	user, err := s.users.UpdateUserProfile(ctx, userUID, upd)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user.Public(), nil
}

// ForgotPassword выдает токен сброса пароля с коротким сроком жизни
// и публикует задачу на отправку письма.
//
// Сбой публикации не роняет операцию: письмо можно запросить повторно,
// а доставка — забота отдельного воркера.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	resetToken, err := s.jwtMaker.GenerateToken(user.UID, user.Role, jwt.PurposePasswordReset)
	if err != nil {
		return "", err
	}

	task := models.ResetEmailTask{
		Email:      user.Email,
		Name:       user.Name,
		ResetToken: resetToken,
	}
	if err := s.notifier.Publish(rabbitmq.PasswordResetRoutingKey, task); err != nil {
		s.log.Warn("failed to publish reset email task", sl.Err(err))
	}
	return resetToken, nil
}

// ResetPassword проверяет токен сброса и перезаписывает хэш пароля.
//
// Любая неуспешная проверка токена — подделка, истекший срок, чужое
// назначение — дает ErrInvalidToken. Ранее выданные токены сессии
// при смене пароля не отзываются.
func (s *AuthService) ResetPassword(ctx context.Context, tokenStr, newPassword string) error {
	claims, err := s.jwtMaker.ParseToken(tokenStr, jwt.PurposePasswordReset)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	hashed, err := password.GetHash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePasswordHash(ctx, claims.Subject, hashed); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidToken
		}
		return err
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
