// Package generate реализует HTTP-обработчик генерации плана питания.
//
// Handler принимает JSON с биометрией пользователя, валидирует поля,
// делегирует расчёт дневного лимита и генерацию плана сервису dietplan
// и возвращает план вместе с лимитом.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/nutriscan/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nutriscan/internal/http/response"
	"github.com/magabrotheeeer/nutriscan/internal/lib/sl"
	"github.com/magabrotheeeer/nutriscan/internal/models"
	"github.com/magabrotheeeer/nutriscan/internal/services/dietplan"
)

// Handler обрабатывает HTTP-запросы генерации плана питания.
type Handler struct {
	log      *slog.Logger        // Логгер для записи операций и ошибок
	service  Service             // Сервис бизнес-логики плана питания
	validate *validator.Validate // Валидатор структуры входящих данных
}

// Service описывает интерфейс бизнес-логики плана питания.
type Service interface {
	Generate(ctx context.Context, userUID string, bio models.DummyBiometrics) (*dietplan.Result, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Сгенерировать план питания
// @Description Рассчитывает дневной лимит калорий по биометрии и генерирует план питания через AI.
// @Tags DietPlan
// @Accept  json
// @Produce  json
// @Param request body models.DummyBiometrics true "Биометрия пользователя"
// @Success 200 {object} map[string]any "План питания и лимит"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Пробный период истёк"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /diet-plan [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dietplan.generate"

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

	var req models.DummyBiometrics
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	result, err := h.service.Generate(r.Context(), userUID, req)
	if err != nil {
		if errors.Is(err, dietplan.ErrEntitlementDenied) {
			log.Warn("entitlement denied", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("Trial Expired"))
			return
		}
		log.Error("failed to generate diet plan", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not generate diet plan"))
		return
	}

	log.Info("diet plan generated", slog.Int("daily_limit", result.DailyLimit))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"plan":  result.Plan,
		"limit": result.DailyLimit,
	}))
}
