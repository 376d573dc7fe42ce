package resetpassword

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

	authservice "github.com/magabrotheeeer/museum-directory/internal/services/auth"
)

// Мок сервиса с методом ResetPassword
type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) ResetPassword(ctx context.Context, token, newPassword string) error {
	args := m.Called(ctx, token, newPassword)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestResetPasswordHandler_ServeHTTP(t *testing.T) {
	svcMock := new(AuthServiceMock)
	logger := newNoopLogger()

	handler := New(logger, svcMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockCall       bool
		mockErr        error
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name: "valid reset",
			requestBody: Request{
				Token:       "reset-token",
				NewPassword: "newpassword123",
			},
			mockCall:       true,
			wantStatusCode: http.StatusOK,
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
			name: "validation error - short password",
			requestBody: Request{
				Token:       "reset-token",
				NewPassword: "123",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field NewPassword is too short",
			wantStatus:     "Error",
		},
		{
			name: "invalid token",
			requestBody: Request{
				Token:       "forged-token",
				NewPassword: "newpassword123",
			},
			mockCall:       true,
			mockErr:        authservice.ErrInvalidToken,
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid or expired token",
			wantStatus:     "Error",
		},
		{
			name: "service error",
			requestBody: Request{
				Token:       "reset-token",
				NewPassword: "newpassword123",
			},
			mockCall:       true,
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

			if tt.mockCall {
				svcMock.On("ResetPassword", mock.Anything, mock.Anything, mock.Anything).
					Return(tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPost, "/auth/reset-password", bytes.NewReader(bodyBytes))
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

			svcMock.AssertExpectations(t)
		})
	}
}
