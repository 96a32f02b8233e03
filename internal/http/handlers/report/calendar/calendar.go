// Package calendar реализует HTTP-обработчик данных календаря потребления.
package calendar

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nutriscan/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nutriscan/internal/http/response"
	"github.com/magabrotheeeer/nutriscan/internal/lib/sl"
	"github.com/magabrotheeeer/nutriscan/internal/services/report"
)

// Handler обрабатывает HTTP-запросы календаря потребления.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс построения календаря.
type Service interface {
	Calendar(ctx context.Context, userUID string) ([]report.CalendarEvent, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Календарь потребления
// @Description Возвращает суточные агрегаты калорий с цветовой разметкой превышений лимита.
// @Tags Report
// @Produce  json
// @Success 200 {array} report.CalendarEvent "События календаря"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /calendar [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.calendar"

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

	events, err := h.service.Calendar(r.Context(), userUID)
	if err != nil {
		log.Error("failed to build calendar", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not build calendar"))
		return
	}

	render.JSON(w, r, events)
}
