// Package forgotpassword реализует HTTP-обработчик запроса сброса пароля.
//
// Выдает короткоживущий токен сброса и ставит задачу на отправку письма.
// Сырой токен попадает в тело ответа только вне prod-окружения — это
// удобство для разработки, в проде доставка идет только через письмо.
package forgotpassword

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/museum-directory/internal/http/response"
	"github.com/magabrotheeeer/museum-directory/internal/lib/sl"
	authservice "github.com/magabrotheeeer/museum-directory/internal/services/auth"
)

// Request — входные данные запроса сброса пароля.
type Request struct {
	Email string `json:"email" validate:"required,email"`
}

// Handler обрабатывает запросы на сброс пароля.
type Handler struct {
	log          *slog.Logger
	service      Service
	validate     *validator.Validate
	exposeTokens bool
}

// Service описывает интерфейс бизнес-логики запроса сброса пароля.
type Service interface {
	ForgotPassword(ctx context.Context, email string) (string, error)
}

// New создает новый Handler. exposeTokens включает возврат сырого токена
// в теле ответа (только для не-prod окружений).
func New(log *slog.Logger, service Service, exposeTokens bool) *Handler {
	return &Handler{
		log:          log,
		service:      service,
		validate:     validator.New(),
		exposeTokens: exposeTokens,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.forgotpassword"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	resetToken, err := h.service.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, authservice.ErrUserNotFound) {
			log.Error("user not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("user not found"))
			return
		}
		log.Error("failed to issue reset token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal server error"))
		return
	}

	log.Info("reset token issued")
	data := map[string]any{
		"message": "password reset email sent",
	}
	if h.exposeTokens {
		data["reset_token"] = resetToken
	}
	render.JSON(w, r, response.OKWithData(data))
}
