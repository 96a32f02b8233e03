// Package estimate реализует HTTP-обработчик распознавания фотографии еды.
//
// Handler принимает multipart-запрос с файлом food_image, проверяет право
// пользователя на AI-функции и делегирует распознавание и запись в журнал
// сервису scan. В ответе возвращается оценка калорийности и, при превышении
// дневного лимита, текст предупреждения.
package estimate

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nutriscan/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nutriscan/internal/http/response"
	"github.com/magabrotheeeer/nutriscan/internal/lib/sl"
	"github.com/magabrotheeeer/nutriscan/internal/services/scan"
)

// MaxImageSize — предельный размер загружаемой фотографии.
const MaxImageSize = 10 << 20

// Handler обрабатывает HTTP-запросы на распознавание фотографии еды.
type Handler struct {
	log     *slog.Logger // Логгер для записи операций и ошибок
	service Service      // Сервис бизнес-логики распознавания
}

// Service описывает интерфейс бизнес-логики распознавания и учёта.
type Service interface {
	EstimateAndRecord(ctx context.Context, userUID string, image []byte, mimeType string) (*scan.Result, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Распознать фотографию еды
// @Description Оценивает калорийность блюда по фотографии и записывает результат в журнал питания.
// @Tags Scan
// @Accept  multipart/form-data
// @Produce  json
// @Param food_image formData file true "Фотография еды"
// @Success 200 {object} map[string]any "Оценка калорийности"
// @Failure 400 {object} response.ErrorResponse "Файл не передан"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Пробный период истёк"
// @Failure 500 {object} response.ErrorResponse "Ошибка AI-оценщика"
// @Router /scan [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.scan.estimate"

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

	result, err := h.service.EstimateAndRecord(r.Context(), userUID, image, mimeType)
	if err != nil {
		switch {
		case errors.Is(err, scan.ErrEntitlementDenied):
			log.Warn("entitlement denied", slog.String("user_uid", userUID))
			w.WriteHeader(http.StatusForbidden)
			render.JSON(w, r, response.Error("Trial Expired. Upgrade to Premium."))
		case errors.Is(err, scan.ErrEstimatorFailure):
			log.Error("estimator failure", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to record scan", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("could not process scan"))
		}
		return
	}

	log.Info("scan recorded", slog.String("user_uid", userUID),
		slog.Int("calories", result.Estimation.TotalCalories))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"total_calories":  result.Estimation.TotalCalories,
		"total_nutrients": result.Estimation.TotalNutrients,
		"analysis_notes":  result.Estimation.AnalysisNotes,
		"limit_alert":     result.LimitAlert,
		"limit_message":   result.LimitMessage,
	}))
}
