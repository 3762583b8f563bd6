// Package orderpay реализует HTTP-обработчик подтверждения оплаты заказа.
//
// Handler извлекает номер заказа из URL-параметров и вызывает бизнес-логику
// оплаты: переход в paid и выдача владения курсом происходят атомарно.
package orderpay

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

// Handler обрабатывает HTTP-запросы на оплату заказа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики оплаты заказа.
type Service interface {
	Pay(ctx context.Context, orderNo, userUID string, now time.Time) (*models.Order, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Оплатить заказ
// @Description Подтверждает оплату pending-заказа и выдаёт владение курсом. Оплата после истечения срока невозможна.
// @Tags Orders
// @Produce  json
// @Param orderNo path string true "Номер заказа"
// @Success 200 {object} response.OKResponse "Заказ оплачен"
// @Failure 403 {object} response.ErrorResponse "Чужой заказ"
// @Failure 404 {object} response.ErrorResponse "Заказ не найден"
// @Failure 409 {object} response.ErrorResponse "Заказ уже в конечном статусе"
// @Failure 410 {object} response.ErrorResponse "Срок оплаты истёк"
// @Failure 500 {object} response.ErrorResponse "Ошибка при оплате"
// @Security BearerAuth
// @Router /orders/{orderNo}/pay [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.pay"

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

	orderNo := chi.URLParam(r, "orderNo")
	if orderNo == "" {
		log.Error("missing order number")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("missing order number"))
		return
	}

	paid, err := h.service.Pay(r.Context(), orderNo, userUID, time.Now().UTC())
	switch {
	case errors.Is(err, models.ErrOrderNotFound):
		log.Info("order not found", slog.String("order_no", orderNo))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("order not found"))
		return
	case errors.Is(err, models.ErrForbidden):
		log.Info("order belongs to another user", slog.String("order_no", orderNo))
		w.WriteHeader(http.StatusForbidden)
		render.JSON(w, r, response.Error("order belongs to another user"))
		return
	case errors.Is(err, models.ErrAlreadyTerminal):
		log.Info("order already in terminal status", slog.String("order_no", orderNo))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("order already paid or cancelled"))
		return
	case errors.Is(err, models.ErrOrderExpired):
		log.Info("order payment deadline passed", slog.String("order_no", orderNo))
		w.WriteHeader(http.StatusGone)
		render.JSON(w, r, response.Error("order payment deadline passed"))
		return
	case err != nil:
		log.Error("failed to pay order", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to pay order"))
		return
	}

	log.Info("order paid", slog.String("order_no", paid.OrderNo))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"order_no":    paid.OrderNo,
		"course_code": paid.CourseCode,
		"status":      paid.Status,
		"paid_at":     paid.PaidAt,
	}))
}
