// Package togglestatus реализует HTTP-обработчик переключения активности
// учётной записи пользователя администратором.
package togglestatus

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/nutriscan/internal/http/middlewarectx"
	"github.com/magabrotheeeer/nutriscan/internal/http/response"
	"github.com/magabrotheeeer/nutriscan/internal/lib/sl"
	"github.com/magabrotheeeer/nutriscan/internal/services/admin"
)

// Handler обрабатывает HTTP-запросы переключения активности учётной записи.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс управления учётными записями.
type Service interface {
	ToggleUserStatus(ctx context.Context, adminUID, targetUID string) (bool, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Переключить активность пользователя
// @Description Активирует или деактивирует учётную запись. Администратор не может отключить себя.
// @Tags Admin
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Success 200 {object} map[string]any "Новое состояние учётной записи"
// @Failure 400 {object} response.ErrorResponse "Попытка отключить себя"
// @Failure 403 {object} response.ErrorResponse "Нет прав администратора"
// @Failure 500 {object} response.ErrorResponse "Внутренняя ошибка сервера"
// @Router /admin/users/{uid}/toggle [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.togglestatus"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	adminUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || adminUID == "" {
		log.Error("user uid not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	targetUID := chi.URLParam(r, "uid")
	if targetUID == "" {
		log.Error("target uid is empty")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("user uid is required"))
		return
	}

	active, err := h.service.ToggleUserStatus(r.Context(), adminUID, targetUID)
	if err != nil {
		if errors.Is(err, admin.ErrSelfDeactivation) {
			log.Warn("self deactivation attempt", slog.String("admin_uid", adminUID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("You cannot deactivate yourself!"))
			return
		}
		log.Error("failed to toggle user status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not toggle user status"))
		return
	}

	log.Info("user status toggled", slog.String("target_uid", targetUID), slog.Bool("active", active))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"user_uid": targetUID,
		"active":   active,
	}))
}
