// Package dashboard реализует HTTP-обработчик экрана пользователя:
// история питания, сумма калорий за текущие сутки и статус подписки.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nutriscan/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nutriscan/internal/http/response"
	"github.com/magabrotheeeer/nutriscan/internal/lib/sl"
	"github.com/magabrotheeeer/nutriscan/internal/services/scan"
)

// Handler обрабатывает HTTP-запросы экрана пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс сборки данных экрана.
type Service interface {
	GetDashboard(ctx context.Context, userUID string) (*scan.Dashboard, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Экран пользователя
// @Description Возвращает историю питания, сумму калорий за сегодня и статус подписки.
// @Tags Scan
// @Produce  json
// @Success 200 {object} map[string]any "Данные экрана"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /dashboard [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.scan.dashboard"

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

	dashboard, err := h.service.GetDashboard(r.Context(), userUID)
	if err != nil {
		log.Error("failed to build dashboard", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load dashboard"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"logs":           dashboard.Logs,
		"today_calories": dashboard.TodayCalories,
		"daily_limit":    dashboard.DailyLimit,
		"status":         dashboard.Status,
	}))
}
