package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/museum-directory/internal/models"
	authservice "github.com/magabrotheeeer/museum-directory/internal/services/auth"
)

// Мок сервиса с методом Login
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, email, password string) (string, *models.PublicUser, error) {
	args := m.Called(ctx, email, password)
	if args.Get(1) == nil {
		return args.String(0), nil, args.Error(2)
	}
	return args.String(0), args.Get(1).(*models.PublicUser), args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	svcMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handler := New(logger, svcMock)

	okUser := &models.PublicUser{
		UID:   "uid-1",
		Name:  "user1",
		Email: "user1@example.com",
		Role:  "user",
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockToken      string
		mockUser       *models.PublicUser
		mockErr        error
		wantStatusCode int
		wantToken      string
		wantError      string
		wantStatus     string
	}{
		{
			name: "valid login",
			requestBody: Request{
				Email:    "user1@example.com",
				Password: "password123",
			},
			mockToken:      "session-token",
			mockUser:       okUser,
			wantStatusCode: http.StatusOK,
			wantToken:      "session-token",
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name: "validation error - missing email",
			requestBody: Request{
				Password: "password123",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Email is a required field",
			wantStatus:     "Error",
		},
		{
			name: "invalid credentials",
			requestBody: Request{
				Email:    "user1@example.com",
				Password: "wrongpassword",
			},
			mockErr:        authservice.ErrInvalidCredentials,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid credentials",
			wantStatus:     "Error",
		},
		{
			name: "service error",
			requestBody: Request{
				Email:    "user1@example.com",
				Password: "password123",
			},
			mockErr:        errors.New("db error"),
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "internal server error",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svcMock.ExpectedCalls = nil
			svcMock.Calls = nil

			if tt.mockErr != nil || tt.mockUser != nil {
				svcMock.On("Login", mock.Anything, mock.Anything, mock.Anything).
					Return(tt.mockToken, tt.mockUser, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			}

			if tt.wantToken != "" {
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, tt.wantToken, data["token"])
			}

			svcMock.AssertExpectations(t)
		})
	}
}
