// Package stats реализует HTTP-обработчик сводной статистики
// для административной панели.
package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nutriscan/internal/http/response"
	"github.com/magabrotheeeer/nutriscan/internal/lib/sl"
	"github.com/magabrotheeeer/nutriscan/internal/services/admin"
)

// Handler обрабатывает HTTP-запросы статистики администратора.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс сборки статистики.
type Service interface {
	GetDashboard(ctx context.Context) (*admin.Dashboard, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Статистика сервиса
// @Description Возвращает сводную статистику, список пользователей и последние записи журнала.
// @Tags Admin
// @Produce  json
// @Success 200 {object} admin.Dashboard "Статистика"
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.stats"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	dashboard, err := h.service.GetDashboard(r.Context())
	if err != nil {
		log.Error("failed to build admin dashboard", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not load statistics"))
		return
	}

	render.JSON(w, r, dashboard)
}
