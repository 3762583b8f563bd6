// Package entryresolve реализует HTTP-обработчик входа в курс.
//
// Handler решает, куда направить пользователя, нажавшего «перейти к курсу»:
// к последнему просмотренному уроку, к оплате незакрытого заказа или
// к оформлению нового заказа.
package entryresolve

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/naluwan/wsa-backend/internal/http/middlewarectx"
	"github.com/naluwan/wsa-backend/internal/http/response"
	"github.com/naluwan/wsa-backend/internal/lib/sl"
	"github.com/naluwan/wsa-backend/internal/models"
)

// Handler обрабатывает HTTP-запросы на вход в курс.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики входа в курс.
type Service interface {
	Resolve(ctx context.Context, userUID, courseCode string, now time.Time) (*models.Destination, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Определить точку входа в курс
// @Description Возвращает назначение для кнопки входа: продолжить урок, оплатить существующий заказ или оформить новый.
// @Tags Entry
// @Produce  json
// @Param courseCode path string true "Код курса"
// @Success 200 {object} response.OKResponse "Назначение определено"
// @Failure 404 {object} response.ErrorResponse "Курс не найден или пуст"
// @Failure 500 {object} response.ErrorResponse "Ошибка при определении назначения"
// @Security BearerAuth
// @Router /courses/{courseCode}/entry [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.entry.resolve"

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

	dest, err := h.service.Resolve(r.Context(), userUID, courseCode, time.Now().UTC())
	switch {
	case errors.Is(err, models.ErrCourseNotFound):
		log.Info("course not found", slog.String("course_code", courseCode))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("course not found"))
		return
	case err != nil:
		log.Error("failed to resolve entry", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to resolve entry"))
		return
	}

	log.Info("entry resolved",
		slog.String("course_code", courseCode),
		slog.String("kind", dest.Kind))
	render.JSON(w, r, response.OKWithData(dest))
}
