package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/museum-directory/internal/http/response"
)

// RequireRole возвращает middleware, пропускающий запрос только при совпадении
// роли из контекста с требуемой. Проверка роли отделена от проверки токена:
// JWTMiddleware подтверждает личность, RequireRole — полномочия.
func RequireRole(role string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole, ok := r.Context().Value(Role).(string)
			if !ok || userRole == "" {
				log.Error("role missing in request context")
				w.WriteHeader(http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			if userRole != role {
				log.Error("access denied", slog.String("required_role", role),
					slog.String("user_role", userRole))
				w.WriteHeader(http.StatusForbidden)
				render.JSON(w, r, response.Error("forbidden"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
