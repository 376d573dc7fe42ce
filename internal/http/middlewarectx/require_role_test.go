package middlewarectx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name         string
		contextRole  any
		requiredRole string
		wantStatus   int
		wantNext     bool
	}{
		{
			name:         "role matches",
			contextRole:  "admin",
			requiredRole: "admin",
			wantStatus:   http.StatusOK,
			wantNext:     true,
		},
		{
			name:         "role mismatch",
			contextRole:  "user",
			requiredRole: "admin",
			wantStatus:   http.StatusForbidden,
		},
		{
			name:         "role missing in context",
			contextRole:  nil,
			requiredRole: "admin",
			wantStatus:   http.StatusUnauthorized,
		},
		{
			name:         "empty role",
			contextRole:  "",
			requiredRole: "admin",
			wantStatus:   http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			handler := RequireRole(tt.requiredRole, newNoopLogger())(next)

			req := httptest.NewRequest(http.MethodPost, "/museums", nil)
			if tt.contextRole != nil {
				req = req.WithContext(context.WithValue(req.Context(), Role, tt.contextRole))
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNext, nextCalled)
		})
	}
}
