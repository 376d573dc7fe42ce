// Package search реализует HTTP-обработчик поиска музеев.
//
// Поиск — фильтр по подстроке в названии или городе без учета регистра,
// не ранжированный индекс.
package search

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/museum-directory/internal/http/response"
	"github.com/magabrotheeeer/museum-directory/internal/lib/sl"
	"github.com/magabrotheeeer/museum-directory/internal/models"
)

// Handler обрабатывает поисковые запросы по каталогу музеев.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики поиска музеев.
type Service interface {
	Search(ctx context.Context, query string) ([]*models.Museum, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.museum.search"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	query := r.URL.Query().Get("q")
	if query == "" {
		log.Error("missing search query")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing search query"))
		return
	}

	res, err := h.service.Search(r.Context(), query)
	if err != nil {
		log.Error("failed to search museums", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to search museums"))
		return
	}

	log.Info("museums found", slog.Int("count", len(res)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"count":   len(res),
		"museums": res,
	}))
}
