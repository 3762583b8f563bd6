// Package ordercancel реализует HTTP-обработчик отмены заказа.
package ordercancel

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

// Handler обрабатывает HTTP-запросы на отмену заказа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отмены заказа.
type Service interface {
	Cancel(ctx context.Context, orderNo, userUID string, now time.Time) (*models.Order, error)
}

// New создает новый Handler с переданным логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить заказ
// @Description Переводит pending-заказ в cancelled. Владение курсом не затрагивается.
// @Tags Orders
// @Produce  json
// @Param orderNo path string true "Номер заказа"
// @Success 200 {object} response.OKResponse "Заказ отменён"
// @Failure 403 {object} response.ErrorResponse "Чужой заказ"
// @Failure 404 {object} response.ErrorResponse "Заказ не найден"
// @Failure 409 {object} response.ErrorResponse "Заказ уже в конечном статусе"
// @Failure 500 {object} response.ErrorResponse "Ошибка при отмене"
// @Security BearerAuth
// @Router /orders/{orderNo}/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.order.cancel"

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

	cancelled, err := h.service.Cancel(r.Context(), orderNo, userUID, time.Now().UTC())
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
	case err != nil:
		log.Error("failed to cancel order", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to cancel order"))
		return
	}

	log.Info("order cancelled", slog.String("order_no", cancelled.OrderNo))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"order_no": cancelled.OrderNo,
		"status":   cancelled.Status,
	}))
}
