package services_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customjwt "github.com/magabrotheeeer/museum-directory/internal/lib/jwt"
	"github.com/magabrotheeeer/museum-directory/internal/lib/password"
	"github.com/magabrotheeeer/museum-directory/internal/models"
	services "github.com/magabrotheeeer/museum-directory/internal/services/auth"
	"github.com/magabrotheeeer/museum-directory/internal/storage/repository"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) CreateUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *UserRepoMock) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) GetUserByUID(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdateUserProfile(ctx context.Context, userUID string, upd models.ProfileUpdate) (*models.User, error) {
	args := m.Called(ctx, userUID, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *UserRepoMock) UpdatePasswordHash(ctx context.Context, userUID, passwordHash string) error {
	args := m.Called(ctx, userUID, passwordHash)
	return args.Error(0)
}

// Мок для ResetNotifier
type NotifierMock struct {
	mock.Mock
}

func (m *NotifierMock) Publish(routingKey string, message any) error {
	args := m.Called(routingKey, message)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newTestMaker() customjwt.Maker {
	return customjwt.NewJWTMaker("test-secret", 24*time.Hour, time.Hour)
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name       string
		email      string
		role       string
		setupMocks func(r *UserRepoMock)
		wantErr    error
		wantRole   string
	}{
		{
			name:  "successful registration with default role",
			email: "Test@Example.COM",
			role:  "",
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Email == "test@example.com" &&
						user.Name == "testuser" &&
						user.PasswordHash != "" &&
						user.Role == "user"
				})).Return("some-uuid-string", nil).Once()
			},
			wantRole: "user",
		},
		{
			name:  "successful registration as admin",
			email: "admin@example.com",
			role:  "admin",
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.MatchedBy(func(user models.User) bool {
					return user.Role == "admin"
				})).Return("admin-uuid", nil).Once()
			},
			wantRole: "admin",
		},
		{
			name:  "duplicate email",
			email: "taken@example.com",
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.Anything).Return("", repository.ErrUserExists).Once()
			},
			wantErr: services.ErrEmailTaken,
		},
		{
			name:  "repository error",
			email: "test@example.com",
			setupMocks: func(r *UserRepoMock) {
				r.On("CreateUser", mock.Anything, mock.Anything).Return("", errors.New("db error")).Once()
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			notifier := new(NotifierMock)
			svc := services.NewAuthService(repo, newTestMaker(), notifier, newNoopLogger())

			tt.setupMocks(repo)

			token, user, err := svc.Register(context.Background(), "testuser", tt.email, "password123", "", tt.role)
			if tt.wantErr != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr.Error())
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, tt.wantRole, user.Role)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	rawPassword := "correctpassword"
	hash, err := password.GetHash(rawPassword)
	require.NoError(t, err)

	storedUser := &models.User{
		UID:          "user-uid-1",
		Name:         "testuser",
		Email:        "test@example.com",
		PasswordHash: hash,
		Role:         "user",
	}

	tests := []struct {
		name       string
		email      string
		password   string
		setupMocks func(r *UserRepoMock)
		wantErr    error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(storedUser, nil).Once()
			},
		},
		{
			name:     "email is normalized before lookup",
			email:    "  TEST@Example.com ",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(storedUser, nil).Once()
			},
		},
		{
			name:     "unknown email",
			email:    "nobody@example.com",
			password: rawPassword,
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, repository.ErrNotFound).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			email:    "test@example.com",
			password: "wrongpassword",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByEmail", mock.Anything, "test@example.com").Return(storedUser, nil).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			notifier := new(NotifierMock)
			svc := services.NewAuthService(repo, newTestMaker(), notifier, newNoopLogger())

			tt.setupMocks(repo)

			token, user, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.NotEmpty(t, token)
				assert.Equal(t, "user-uid-1", user.UID)
			}

			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login_UniformErrorForUnknownEmailAndWrongPassword(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	repo := new(UserRepoMock)
	notifier := new(NotifierMock)
	svc := services.NewAuthService(repo, newTestMaker(), notifier, newNoopLogger())

	repo.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, repository.ErrNotFound).Once()
	repo.On("GetUserByEmail", mock.Anything, "known@example.com").Return(&models.User{
		UID: "u1", Email: "known@example.com", PasswordHash: hash, Role: "user",
	}, nil).Once()

	_, _, errUnknown := svc.Login(context.Background(), "nobody@example.com", "secret123")
	_, _, errWrongPass := svc.Login(context.Background(), "known@example.com", "badpass")

	// Ответы неразличимы, чтобы нельзя было перечислять учетные записи
	assert.ErrorIs(t, errUnknown, services.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPass, services.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestAuthService_GetProfile(t *testing.T) {
	repo := new(UserRepoMock)
	notifier := new(NotifierMock)
	svc := services.NewAuthService(repo, newTestMaker(), notifier, newNoopLogger())

	repo.On("GetUserByUID", mock.Anything, "uid-1").Return(&models.User{
		UID: "uid-1", Name: "testuser", Email: "test@example.com", PasswordHash: "hash", Role: "user",
	}, nil).Once()
	repo.On("GetUserByUID", mock.Anything, "missing").Return(nil, repository.ErrNotFound).Once()

	user, err := svc.GetProfile(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.Equal(t, "testuser", user.Name)

	_, err = svc.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, services.ErrUserNotFound)

	repo.AssertExpectations(t)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	repo := new(UserRepoMock)
	notifier := new(NotifierMock)
	svc := services.NewAuthService(repo, newTestMaker(), notifier, newNoopLogger())

	upd := models.ProfileUpdate{Name: "newname", Phone: "+70000000000"}
	repo.On("UpdateUserProfile", mock.Anything, "uid-1", upd).Return(&models.User{
		UID: "uid-1", Name: "newname", Email: "test@example.com", Phone: "+70000000000", Role: "user",
	}, nil).Once()

	user, err := svc.UpdateProfile(context.Background(), "uid-1", upd)
	require.NoError(t, err)
	assert.Equal(t, "newname", user.Name)
	assert.Equal(t, "+70000000000", user.Phone)

	repo.AssertExpectations(t)
}

func TestAuthService_ForgotPassword(t *testing.T) {
	storedUser := &models.User{
		UID: "uid-1", Name: "testuser", Email: "test@example.com", Role: "user",
	}

	t.Run("issues reset token and publishes task", func(t *testing.T) {
		repo := new(UserRepoMock)
		notifier := new(NotifierMock)
		maker := newTestMaker()
		svc := services.NewAuthService(repo, maker, notifier, newNoopLogger())

		repo.On("GetUserByEmail", mock.Anything, "test@example.com").Return(storedUser, nil).Once()
		notifier.On("Publish", "password-reset", mock.MatchedBy(func(msg any) bool {
			task, ok := msg.(models.ResetEmailTask)
			return ok && task.Email == "test@example.com" && task.ResetToken != ""
		})).Return(nil).Once()

		token, err := svc.ForgotPassword(context.Background(), "test@example.com")
		require.NoError(t, err)

		// Выданный токен годится только для сброса пароля
		claims, err := maker.ParseToken(token, customjwt.PurposePasswordReset)
		require.NoError(t, err)
		assert.Equal(t, "uid-1", claims.Subject)

		_, err = maker.ParseToken(token, customjwt.PurposeSession)
		assert.Error(t, err)

		repo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("unknown email", func(t *testing.T) {
		repo := new(UserRepoMock)
		notifier := new(NotifierMock)
		svc := services.NewAuthService(repo, newTestMaker(), notifier, newNoopLogger())

		repo.On("GetUserByEmail", mock.Anything, "nobody@example.com").Return(nil, repository.ErrNotFound).Once()

		_, err := svc.ForgotPassword(context.Background(), "nobody@example.com")
		assert.ErrorIs(t, err, services.ErrUserNotFound)
	})

	t.Run("publish failure does not fail the operation", func(t *testing.T) {
		repo := new(UserRepoMock)
		notifier := new(NotifierMock)
		svc := services.NewAuthService(repo, newTestMaker(), notifier, newNoopLogger())

		repo.On("GetUserByEmail", mock.Anything, "test@example.com").Return(storedUser, nil).Once()
		notifier.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

		token, err := svc.ForgotPassword(context.Background(), "test@example.com")
		assert.NoError(t, err)
		assert.NotEmpty(t, token)
	})
}

// fakeUserRepo — репозиторий в памяти для сквозного теста жизненного цикла.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User // ключ — uid
	next  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user models.User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return "", repository.ErrUserExists
		}
	}
	f.next++
	uid := fmt.Sprintf("uid-%d", f.next)
	user.UID = uid
	f.users[uid] = &user
	return uid, nil
}

func (f *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) GetUserByUID(_ context.Context, userUID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userUID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) UpdateUserProfile(_ context.Context, userUID string, upd models.ProfileUpdate) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userUID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.Name != "" {
		u.Name = upd.Name
	}
	if upd.Phone != "" {
		u.Phone = upd.Phone
	}
	if upd.Address != "" {
		u.Address = upd.Address
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) UpdatePasswordHash(_ context.Context, userUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userUID]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func TestAuthService_PasswordResetLifecycle(t *testing.T) {
	repo := newFakeUserRepo()
	notifier := new(NotifierMock)
	notifier.On("Publish", mock.Anything, mock.Anything).Return(nil)
	svc := services.NewAuthService(repo, newTestMaker(), notifier, newNoopLogger())

	ctx := context.Background()

	// Регистрация и вход со старым паролем
	_, user, err := svc.Register(ctx, "testuser", "Test@Example.com", "oldpassword", "", "")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "test@example.com", "oldpassword")
	require.NoError(t, err)

	// Профиль доступен по UID из токена
	profile, err := svc.GetProfile(ctx, user.UID)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", profile.Email)

	// Запрос сброса и смена пароля по токену
	resetToken, err := svc.ForgotPassword(ctx, "test@example.com")
	require.NoError(t, err)

	err = svc.ResetPassword(ctx, resetToken, "newpassword")
	require.NoError(t, err)

	// Старый пароль больше не подходит, новый работает
	_, _, err = svc.Login(ctx, "test@example.com", "oldpassword")
	assert.ErrorIs(t, err, services.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "test@example.com", "newpassword")
	assert.NoError(t, err)

	// Повторная регистрация на тот же email отклоняется
	_, _, err = svc.Register(ctx, "other", "TEST@example.com", "password123", "", "")
	assert.ErrorIs(t, err, services.ErrEmailTaken)
}

func TestAuthService_ResetPassword(t *testing.T) {
	maker := newTestMaker()

	t.Run("valid token updates hash", func(t *testing.T) {
		repo := new(UserRepoMock)
		notifier := new(NotifierMock)
		svc := services.NewAuthService(repo, maker, notifier, newNoopLogger())

		resetToken, err := maker.GenerateToken("uid-1", "user", customjwt.PurposePasswordReset)
		require.NoError(t, err)

		repo.On("UpdatePasswordHash", mock.Anything, "uid-1", mock.MatchedBy(func(hash string) bool {
			return password.CompareHash(hash, "newpassword123") == nil
		})).Return(nil).Once()

		err = svc.ResetPassword(context.Background(), resetToken, "newpassword123")
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("session token is rejected", func(t *testing.T) {
		repo := new(UserRepoMock)
		notifier := new(NotifierMock)
		svc := services.NewAuthService(repo, maker, notifier, newNoopLogger())

		sessionToken, err := maker.GenerateToken("uid-1", "user", customjwt.PurposeSession)
		require.NoError(t, err)

		err = svc.ResetPassword(context.Background(), sessionToken, "newpassword123")
		assert.ErrorIs(t, err, services.ErrInvalidToken)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		repo := new(UserRepoMock)
		notifier := new(NotifierMock)
		svc := services.NewAuthService(repo, maker, notifier, newNoopLogger())

		err := svc.ResetPassword(context.Background(), "garbage", "newpassword123")
		assert.ErrorIs(t, err, services.ErrInvalidToken)
	})

	t.Run("deleted user maps to invalid token", func(t *testing.T) {
		repo := new(UserRepoMock)
		notifier := new(NotifierMock)
		svc := services.NewAuthService(repo, maker, notifier, newNoopLogger())

		resetToken, err := maker.GenerateToken("gone-uid", "user", customjwt.PurposePasswordReset)
		require.NoError(t, err)

		repo.On("UpdatePasswordHash", mock.Anything, "gone-uid", mock.Anything).Return(repository.ErrNotFound).Once()

		err = svc.ResetPassword(context.Background(), resetToken, "newpassword123")
		assert.ErrorIs(t, err, services.ErrInvalidToken)
	})
}
