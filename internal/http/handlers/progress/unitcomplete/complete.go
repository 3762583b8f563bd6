// Package unitcomplete реализует HTTP-обработчик завершения урока.
//
// Handler отмечает урок как завершённый и начисляет XP. Повторное
// завершение того же урока отклоняется: XP начисляется ровно один раз.
package unitcomplete

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/naluwan/wsa-backend/internal/http/middlewarectx"
	"github.com/naluwan/wsa-backend/internal/http/response"
	"github.com/naluwan/wsa-backend/internal/lib/sl"
	"github.com/naluwan/wsa-backend/internal/models"
)

// Handler обрабатывает HTTP-запросы на завершение урока.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики завершения урока.
type Service interface {
	CompleteUnit(ctx context.Context, userUID string, unitID int, now time.Time) (*models.CompletionResult, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Завершить урок
// @Description Отмечает урок завершённым и начисляет XP. Повторное завершение отклоняется.
// @Tags Progress
// @Produce  json
// @Param unitID path int true "Идентификатор урока"
// @Success 200 {object} response.OKResponse "Урок завершён, XP начислен"
// @Failure 403 {object} response.ErrorResponse "Нет доступа к уроку"
// @Failure 404 {object} response.ErrorResponse "Урок не найден"
// @Failure 409 {object} response.ErrorResponse "Урок уже завершён"
// @Failure 500 {object} response.ErrorResponse "Ошибка при завершении"
// @Security BearerAuth
// @Router /units/{unitID}/complete [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.progress.complete"

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

	unitID, err := strconv.Atoi(chi.URLParam(r, "unitID"))
	if err != nil || unitID <= 0 {
		log.Error("invalid unit id", slog.String("unit_id", chi.URLParam(r, "unitID")))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid unit id"))
		return
	}

	result, err := h.service.CompleteUnit(r.Context(), userUID, unitID, time.Now().UTC())
	switch {
	case errors.Is(err, models.ErrUnitNotFound):
		log.Info("unit not found", slog.Int("unit_id", unitID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("unit not found"))
		return
	case errors.Is(err, models.ErrForbidden):
		log.Info("access to unit denied", slog.Int("unit_id", unitID))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("access to unit denied"))
		return
	case errors.Is(err, models.ErrAlreadyCompleted):
		log.Info("unit already completed", slog.Int("unit_id", unitID))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("unit already completed"))
		return
	case err != nil:
		log.Error("failed to complete unit", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to complete unit"))
		return
	}

	log.Info("unit completed",
		slog.Int("unit_id", unitID),
		slog.Int("xp_earned", result.XPEarned),
		slog.Int("level", result.Level))
	render.JSON(w, r, response.OKWithData(result))
}
