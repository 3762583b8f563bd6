// Package unitaccess реализует HTTP-обработчик проверки доступа к уроку.
//
// Handler работает и для анонимных запросов: бесплатные превью-уроки
// доступны без аутентификации.
package unitaccess

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/naluwan/wsa-backend/internal/http/middlewarectx"
	"github.com/naluwan/wsa-backend/internal/http/response"
	"github.com/naluwan/wsa-backend/internal/lib/sl"
	"github.com/naluwan/wsa-backend/internal/models"
)

// Handler обрабатывает HTTP-запросы на проверку доступа к уроку.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики проверки доступа.
type Service interface {
	Access(ctx context.Context, userUID string, unitID int) (bool, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверить доступ к уроку
// @Description Сообщает, может ли текущий пользователь (или аноним) просматривать урок.
// @Tags Progress
// @Produce  json
// @Param unitID path int true "Идентификатор урока"
// @Success 200 {object} response.OKResponse "Результат проверки"
// @Failure 404 {object} response.ErrorResponse "Урок не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка при проверке"
// @Router /units/{unitID}/access [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.progress.access"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	unitID, err := strconv.Atoi(chi.URLParam(r, "unitID"))
	if err != nil || unitID <= 0 {
		log.Error("invalid unit id", slog.String("unit_id", chi.URLParam(r, "unitID")))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid unit id"))
		return
	}

	// Пустой userUID означает анонимный запрос, это допустимо.
	userUID := middlewarectx.UserUIDFromContext(r.Context())

	canView, err := h.service.Access(r.Context(), userUID, unitID)
	switch {
	case errors.Is(err, models.ErrUnitNotFound):
		log.Info("unit not found", slog.Int("unit_id", unitID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("unit not found"))
		return
	case err != nil:
		log.Error("failed to check access", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to check access"))
		return
	}

	log.Info("access checked",
		slog.Int("unit_id", unitID),
		slog.Bool("can_view", canView))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"can_view": canView,
	}))
}
