// Package entrywatch реализует HTTP-обработчик отметки о просмотре урока.
//
// Handler запоминает последний просмотренный урок пользователя в курсе,
// чтобы при следующем входе вернуть его к месту, где он остановился.
package entrywatch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/naluwan/wsa-backend/internal/http/middlewarectx"
	"github.com/naluwan/wsa-backend/internal/http/response"
	"github.com/naluwan/wsa-backend/internal/lib/sl"
	"github.com/naluwan/wsa-backend/internal/models"
)

// Handler обрабатывает HTTP-запросы на отметку о просмотре урока.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отметки просмотра.
type Service interface {
	RecordWatch(ctx context.Context, userUID, courseCode string, unitID int, now time.Time) error
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отметить просмотр урока
// @Description Запоминает последний просмотренный урок пользователя в курсе.
// @Tags Entry
// @Accept  json
// @Produce  json
// @Param courseCode path string true "Код курса"
// @Param request body models.DummyWatch true "Идентификатор урока"
// @Success 200 {object} response.OKResponse "Просмотр отмечен"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 403 {object} response.ErrorResponse "Нет доступа к уроку"
// @Failure 404 {object} response.ErrorResponse "Урок не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка при сохранении"
// @Security BearerAuth
// @Router /courses/{courseCode}/watch [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entry.watch"

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

	courseCode := chi.URLParam(r, "courseCode")
	if courseCode == "" {
		log.Error("missing course code")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing course code"))
		return
	}

	var dummyReq models.DummyWatch
	if err := render.DecodeJSON(r.Body, &dummyReq); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode request"))
		return
	}

	if err := validator.New().Struct(dummyReq); err != nil {
		validateErr := err.(validator.ValidationErrors)
		log.Error("invalid request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(validateErr))
		return
	}

	err := h.service.RecordWatch(r.Context(), userUID, courseCode, dummyReq.UnitID, time.Now().UTC())
	switch {
	case errors.Is(err, models.ErrUnitNotFound):
		log.Info("unit not found", slog.Int("unit_id", dummyReq.UnitID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("unit not found"))
		return
	case errors.Is(err, models.ErrForbidden):
		log.Info("access to unit denied", slog.Int("unit_id", dummyReq.UnitID))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("access to unit denied"))
		return
	case err != nil:
		log.Error("failed to record watch", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to record watch"))
		return
	}

	log.Info("watch recorded",
		slog.String("course_code", courseCode),
		slog.Int("unit_id", dummyReq.UnitID))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"unit_id": dummyReq.UnitID,
	}))
}
