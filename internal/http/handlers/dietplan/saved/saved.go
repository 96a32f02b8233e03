// Package saved реализует HTTP-обработчик чтения сохранённого плана питания.
package saved

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nutriscan/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nutriscan/internal/http/response"
	"github.com/magabrotheeeer/nutriscan/internal/lib/sl"
	"github.com/magabrotheeeer/nutriscan/internal/services/dietplan"
)

// Handler обрабатывает HTTP-запросы чтения сохранённого плана питания.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис бизнес-логики плана питания
}

// Service описывает интерфейс бизнес-логики плана питания.
type Service interface {
	GetSaved(ctx context.Context, userUID string) (*dietplan.Result, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить сохранённый план питания
// @Description Возвращает последний сгенерированный план питания пользователя и его дневной лимит.
// @Tags DietPlan
// @Produce  json
// @Success 200 {object} map[string]any "План питания и лимит"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 404 {object} response.ErrorResponse "План ещё не сгенерирован"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /diet-plan [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dietplan.saved"

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

	result, err := h.service.GetSaved(r.Context(), userUID)
	if err != nil {
		log.Error("failed to read saved diet plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read saved diet plan"))
		return
	}
	if result.Plan == "" {
		log.Info("no saved diet plan", slog.String("user_uid", userUID))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("no diet plan saved yet"))
		return
	}

	render.JSON(w, r, response.OKWithData(map[string]any{
		"plan":  result.Plan,
		"limit": result.DailyLimit,
	}))
}
