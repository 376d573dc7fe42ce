// Package read реализует HTTP-обработчик получения статьи по UID.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/museum-directory/internal/http/response"
	"github.com/magabrotheeeer/museum-directory/internal/lib/sl"
	"github.com/magabrotheeeer/museum-directory/internal/models"
	articleservice "github.com/magabrotheeeer/museum-directory/internal/services/article"
)

// Handler обрабатывает запросы на получение статьи по уникальному идентификатору.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения статьи.
type Service interface {
	Read(ctx context.Context, uid string) (*models.Article, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.article.read"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")
	if uid == "" {
		log.Error("missing uid in url")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing uid in url"))
		return
	}

	article, err := h.service.Read(r.Context(), uid)
	if err != nil {
		if errors.Is(err, articleservice.ErrArticleNotFound) {
			log.Error("article not found", sl.Err(err))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("article not found"))
			return
		}
		log.Error("failed to read article", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read article"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"article": article,
	}))
}
