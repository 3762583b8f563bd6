// Package leaderboard реализует HTTP-обработчик недельного рейтинга по XP.
package leaderboard

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/naluwan/wsa-backend/internal/http/response"
	"github.com/naluwan/wsa-backend/internal/lib/sl"
	"github.com/naluwan/wsa-backend/internal/models"
)

// Handler обрабатывает HTTP-запросы на получение недельного рейтинга.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики рейтинга.
type Service interface {
	Leaderboard(ctx context.Context, limit int) ([]*models.LeaderboardEntry, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить недельный рейтинг
// @Description Возвращает пользователей с наибольшим недельным XP.
// @Tags Progress
// @Produce  json
// @Param limit query int false "Количество позиций (по умолчанию 10)"
// @Success 200 {object} response.OKResponse "Рейтинг"
// @Failure 400 {object} response.ErrorResponse "Некорректный limit"
// @Failure 500 {object} response.ErrorResponse "Ошибка при получении рейтинга"
// @Router /leaderboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.progress.leaderboard"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			log.Error("invalid limit", slog.String("limit", raw))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid limit"))
			return
		}
		limit = parsed
	}

	entries, err := h.service.Leaderboard(r.Context(), limit)
	if err != nil {
		log.Error("failed to get leaderboard", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get leaderboard"))
		return
	}

	log.Info("leaderboard returned", slog.Int("entries", len(entries)))
	render.JSON(w, r, response.OKWithData(entries))
}
