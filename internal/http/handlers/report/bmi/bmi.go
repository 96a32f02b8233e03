// Package bmi реализует HTTP-обработчик расчёта индекса массы тела.
package bmi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/nutriscan/internal/http/response"
	"github.com/magabrotheeeer/nutriscan/internal/lib/sl"
	"github.com/magabrotheeeer/nutriscan/internal/services/report"
)

// Request — структура входных данных для расчёта BMI.
type Request struct {
	Weight float64 `json:"weight" validate:"required,gt=0"` // Вес в кг
	Height float64 `json:"height" validate:"required,gt=0"` // Рост в см
}

// Handler обрабатывает HTTP-запросы расчёта BMI.
type Handler struct {
	log      *slog.Logger
	validate *validator.Validate
}

// New создает новый Handler с переданным логгером.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log:      log,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Расчёт индекса массы тела
// @Description Вычисляет BMI по весу и росту и относит его к категории.
// @Tags Report
// @Accept  json
// @Produce  json
// @Param request body Request true "Вес и рост"
// @Success 200 {object} report.BMIResult "Индекс и категория"
// @Failure 400 {object} response.ErrorResponse "Некорректные данные"
// @Router /bmi [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.bmi"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid Input"))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid Input"))
		return
	}

	result, err := report.CalculateBMI(req.Weight, req.Height)
	if err != nil {
		log.Error("failed to calculate bmi", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("Invalid Input"))
		return
	}

	render.JSON(w, r, result)
}
