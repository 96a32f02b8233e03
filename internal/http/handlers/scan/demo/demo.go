// Package demo реализует HTTP-обработчик демонстрационного распознавания
// без учётной записи. Результат не записывается в журнал питания.
package demo

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nutriscan/internal/estimator"
	"github.com/magabrotheeeer/nutriscan/internal/http/response"
	"github.com/magabrotheeeer/nutriscan/internal/lib/sl"
)

// MaxImageSize — предельный размер загружаемой фотографии.
const MaxImageSize = 10 << 20

// Handler обрабатывает HTTP-запросы демонстрационного распознавания.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс демонстрационного распознавания.
type Service interface {
	Demo(ctx context.Context, image []byte, mimeType string) (*estimator.Estimation, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Демонстрационное распознавание
// @Description Оценивает калорийность блюда по фотографии без записи в журнал. Доступно без авторизации.
// @Tags Scan
// @Accept  multipart/form-data
// @Produce  json
// @Param food_image formData file true "Фотография еды"
// @Success 200 {object} map[string]any "Оценка калорийности"
// @Failure 400 {object} response.ErrorResponse "Файл не передан"
// @Failure 500 {object} response.ErrorResponse "Ошибка AI-оценщика"
// @Router /demo [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.scan.demo"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := r.ParseMultipartForm(MaxImageSize); err != nil {
		log.Error("failed to parse multipart form", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("no file uploaded"))
		return
	}
	file, header, err := r.FormFile("food_image")
	if err != nil {
		log.Error("failed to read food_image", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("no file uploaded"))
		return
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		log.Error("failed to read uploaded file", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to read uploaded file"))
		return
	}
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	est, err := h.service.Demo(r.Context(), image, mimeType)
	if err != nil {
		log.Error("demo estimation failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error(err.Error()))
		return
	}

	log.Info("demo estimation done", slog.Int("calories", est.TotalCalories))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"total_calories":  est.TotalCalories,
		"total_nutrients": est.TotalNutrients,
		"analysis_notes":  est.AnalysisNotes,
	}))
}
