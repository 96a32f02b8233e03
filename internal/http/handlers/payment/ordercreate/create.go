// Package ordercreate реализует HTTP-обработчик создания заказа на оплату
// premium-подписки через платёжный шлюз.
package ordercreate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nutriscan/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nutriscan/internal/http/response"
	"github.com/magabrotheeeer/nutriscan/internal/lib/sl"
	"github.com/magabrotheeeer/nutriscan/internal/services/payment"
)

// Handler обрабатывает HTTP-запросы на создание заказа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс создания заказа.
type Service interface {
	CreateOrder(ctx context.Context, userUID string) (*payment.Order, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Создать заказ на оплату
// @Description Создает заказ в платёжном шлюзе на оплату годовой premium-подписки.
// @Tags Payment
// @Produce  json
// @Success 200 {object} payment.Order "Данные заказа для платёжной формы"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка платёжного шлюза"
// @Router /payment/order [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.ordercreate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	order, err := h.service.CreateOrder(r.Context(), userUID)
	if err != nil {
		log.Error("failed to create order", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create payment order"))
		return
	}

	log.Info("payment order created", slog.String("order_id", order.OrderID))
	render.JSON(w, r, order)
}
