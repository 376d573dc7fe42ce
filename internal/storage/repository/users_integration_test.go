package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/museum-directory/internal/models"
)

func TestStorage_CreateUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	uid, err := storage.CreateUser(context.Background(), models.User{
		Name:         "testuser",
		Email:        "test@example.com",
		PasswordHash: "hashedpassword",
		Role:         "user",
	})
	require.NoError(t, err)
	require.NotEmpty(t, uid)

	verification := NewTestVerification(storage)
	verification.VerifyUserExists(t, uid)
}

func TestStorage_CreateUser_DuplicateEmail(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	user := models.User{
		Name:         "testuser",
		Email:        "taken@example.com",
		PasswordHash: "hashedpassword",
		Role:         "user",
	}

	_, err := storage.CreateUser(context.Background(), user)
	require.NoError(t, err)

	_, err = storage.CreateUser(context.Background(), user)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestStorage_CreateUser_ConcurrentDuplicates(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	user := models.User{
		Name:         "testuser",
		Email:        "race@example.com",
		PasswordHash: "hashedpassword",
		Role:         "user",
	}

	const workers = 5
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = storage.CreateUser(context.Background(), user)
		}(i)
	}
	wg.Wait()

	// Уникальный индекс пропускает ровно одну регистрацию
	var okCount, dupCount int
	for _, err := range errs {
		switch {
		case err == nil:
			okCount++
		default:
			assert.ErrorIs(t, err, ErrUserExists)
			dupCount++
		}
	}
	assert.Equal(t, 1, okCount)
	assert.Equal(t, workers-1, dupCount)
}

func TestStorage_GetUserByEmail(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "testuser", "test@example.com", "hashedpassword", "user")

	got, err := storage.GetUserByEmail(context.Background(), "test@example.com")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
	assert.Equal(t, "testuser", got.Name)
	assert.Equal(t, "hashedpassword", got.PasswordHash)

	_, err = storage.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_GetUserByUID(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "testuser", "test@example.com", "hashedpassword", "user")

	got, err := storage.GetUserByUID(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", got.Email)
	assert.NotNil(t, got.CreatedAt)

	_, err = storage.GetUserByUID(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStorage_UpdateUserProfile_PartialUpdate(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "oldname", "test@example.com", "hashedpassword", "user")

	// Обновляем только телефон, имя остается прежним
	got, err := storage.UpdateUserProfile(context.Background(), uid, models.ProfileUpdate{
		Phone: "+70000000000",
	})
	require.NoError(t, err)
	assert.Equal(t, "oldname", got.Name)
	assert.Equal(t, "+70000000000", got.Phone)

	// Обновляем имя и адрес, телефон остается
	got, err = storage.UpdateUserProfile(context.Background(), uid, models.ProfileUpdate{
		Name:    "newname",
		Address: "Москва",
	})
	require.NoError(t, err)
	assert.Equal(t, "newname", got.Name)
	assert.Equal(t, "+70000000000", got.Phone)
	assert.Equal(t, "Москва", got.Address)
	assert.Equal(t, "test@example.com", got.Email)
}

func TestStorage_UpdatePasswordHash(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	uid := factory.CreateUser(t, "testuser", "test@example.com", "oldhash", "user")

	err := storage.UpdatePasswordHash(context.Background(), uid, "newhash")
	require.NoError(t, err)

	got, err := storage.GetUserByUID(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, "newhash", got.PasswordHash)

	err = storage.UpdatePasswordHash(context.Background(), uuid.New().String(), "hash")
	assert.ErrorIs(t, err, ErrNotFound)
}
