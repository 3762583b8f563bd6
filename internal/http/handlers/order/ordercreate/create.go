// Package ordercreate реализует HTTP-обработчик оформления заказа на курс.
//
// Handler читает код курса из тела запроса, вызывает бизнес-логику создания
// заказа и возвращает заказ в JSON-формате. Повторный запрос при живом
// pending-заказе возвращает тот же заказ.
package ordercreate

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/naluwan/wsa-backend/internal/http/middlewarectx"
	"github.com/naluwan/wsa-backend/internal/http/response"
	"github.com/naluwan/wsa-backend/internal/lib/sl"
	"github.com/naluwan/wsa-backend/internal/models"
)

// Handler обрабатывает HTTP-запросы на оформление заказа.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service      // Сервис бизнес-логики заказов
}

// Service описывает интерфейс бизнес-логики оформления заказа.
type Service interface {
	Create(ctx context.Context, userUID, courseCode string, now time.Time) (*models.Order, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Оформить заказ на курс
// @Description Создаёт pending-заказ на курс. Если у пользователя уже есть непросроченный заказ на этот курс, возвращает его же.
// @Tags Orders
// @Accept  json
// @Produce  json
// @Param request body models.DummyOrder true "Код курса"
// @Success 201 {object} response.OKResponse "Заказ оформлен"
// @Failure 400 {object} response.ErrorResponse "Некорректное тело запроса"
// @Failure 404 {object} response.ErrorResponse "Курс не найден"
// @Failure 409 {object} response.ErrorResponse "Курс уже куплен"
// @Failure 500 {object} response.ErrorResponse "Ошибка при создании заказа"
// @Security BearerAuth
// @Router /orders [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.create"

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

	var dummyReq models.DummyOrder
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

	entry, err := h.service.Create(r.Context(), userUID, dummyReq.CourseCode, time.Now().UTC())
	switch {
	case errors.Is(err, models.ErrAlreadyOwned):
		log.Info("course already owned", slog.String("course_code", dummyReq.CourseCode))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("course already owned"))
		return
	case errors.Is(err, models.ErrCourseNotFound):
		log.Info("course not found", slog.String("course_code", dummyReq.CourseCode))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("course not found"))
		return
	case err != nil:
		log.Error("failed to create order", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create order"))
		return
	}

	log.Info("order created", slog.String("order_no", entry.OrderNo))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"order_no":     entry.OrderNo,
		"course_code":  entry.CourseCode,
		"amount":       entry.Amount,
		"status":       entry.Status,
		"pay_deadline": entry.PayDeadline,
	}))
}
