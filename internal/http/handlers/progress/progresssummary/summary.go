// Package progresssummary реализует HTTP-обработчик сводки прогресса пользователя.
package progresssummary

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/naluwan/wsa-backend/internal/http/middlewarectx"
	"github.com/naluwan/wsa-backend/internal/http/response"
	"github.com/naluwan/wsa-backend/internal/lib/sl"
	"github.com/naluwan/wsa-backend/internal/models"
)

// Handler обрабатывает HTTP-запросы на получение сводки прогресса.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики сводки прогресса.
type Service interface {
	Summary(ctx context.Context, userUID string) (*models.ProgressSummary, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить сводку прогресса
// @Description Возвращает суммарный XP, недельный XP, уровень и прогресс до следующего уровня.
// @Tags Progress
// @Produce  json
// @Success 200 {object} response.OKResponse "Сводка прогресса"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка при получении сводки"
// @Security BearerAuth
// @Router /progress/summary [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.progress.summary"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := middlewarectx.UserUIDFromContext(r.Context())
	if userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("user identification missing"))
		return
	}

	summary, err := h.service.Summary(r.Context(), userUID)
	switch {
	case errors.Is(err, models.ErrUserNotFound):
		log.Info("user not found", slog.String("user_uid", userUID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	case err != nil:
		log.Error("failed to get progress summary", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get progress summary"))
		return
	}

	log.Info("progress summary returned", slog.Int("level", summary.Level))
	render.JSON(w, r, response.OKWithData(summary))
}
