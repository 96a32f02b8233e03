// Package nutriscan предоставляет маршруты для основного приложения.
package nutriscan

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	profilehandler "github.com/magabrotheeeer/nutriscan/internal/http/handlers/admin/profile"
	settingshandler "github.com/magabrotheeeer/nutriscan/internal/http/handlers/admin/settings"
	statshandler "github.com/magabrotheeeer/nutriscan/internal/http/handlers/admin/stats"
	togglestatushandler "github.com/magabrotheeeer/nutriscan/internal/http/handlers/admin/togglestatus"
	"github.com/magabrotheeeer/nutriscan/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/nutriscan/internal/http/handlers/auth/register"
	generatehandler "github.com/magabrotheeeer/nutriscan/internal/http/handlers/dietplan/generate"
	savedhandler "github.com/magabrotheeeer/nutriscan/internal/http/handlers/dietplan/saved"
	healthhandler "github.com/magabrotheeeer/nutriscan/internal/http/handlers/health"
	"github.com/magabrotheeeer/nutriscan/internal/http/handlers/payment/ordercreate"
	"github.com/magabrotheeeer/nutriscan/internal/http/handlers/payment/verify"
	bmihandler "github.com/magabrotheeeer/nutriscan/internal/http/handlers/report/bmi"
	calendarhandler "github.com/magabrotheeeer/nutriscan/internal/http/handlers/report/calendar"
	exporthandler "github.com/magabrotheeeer/nutriscan/internal/http/handlers/report/export"
	dashboardhandler "github.com/magabrotheeeer/nutriscan/internal/http/handlers/scan/dashboard"
	demohandler "github.com/magabrotheeeer/nutriscan/internal/http/handlers/scan/demo"
	estimatehandler "github.com/magabrotheeeer/nutriscan/internal/http/handlers/scan/estimate"
	"github.com/magabrotheeeer/nutriscan/internal/http/middlewarectx"
	adminservice "github.com/magabrotheeeer/nutriscan/internal/services/admin"
	authservice "github.com/magabrotheeeer/nutriscan/internal/services/auth"
	dietplanservice "github.com/magabrotheeeer/nutriscan/internal/services/dietplan"
	paymentservice "github.com/magabrotheeeer/nutriscan/internal/services/payment"
	reportservice "github.com/magabrotheeeer/nutriscan/internal/services/report"
	scanservice "github.com/magabrotheeeer/nutriscan/internal/services/scan"
	"github.com/magabrotheeeer/nutriscan/internal/storage/repository"
)

// Services объединяет бизнес-логику, необходимую маршрутам приложения.
type Services struct {
	Auth     *authservice.Service
	Scan     *scanservice.Service
	DietPlan *dietplanservice.Service
	Payment  *paymentservice.Service
	Report   *reportservice.Service
	Admin    *adminservice.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, validator middlewarectx.TokenValidator, db *repository.Storage, s Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
		r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
		r.Post("/demo", demohandler.New(logger, s.Scan).ServeHTTP)
		r.Get("/health", healthhandler.New(logger, db).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(validator, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Post("/scan", estimatehandler.New(logger, s.Scan).ServeHTTP)
			r.Get("/dashboard", dashboardhandler.New(logger, s.Scan).ServeHTTP)
			r.Post("/diet-plan", generatehandler.New(logger, s.DietPlan).ServeHTTP)
			r.Get("/diet-plan", savedhandler.New(logger, s.DietPlan).ServeHTTP)
			r.Get("/export", exporthandler.New(logger, s.Report).ServeHTTP)
			r.Get("/calendar", calendarhandler.New(logger, s.Report).ServeHTTP)
			r.Post("/bmi", bmihandler.New(logger).ServeHTTP)
			r.Post("/payment/order", ordercreate.New(logger, s.Payment).ServeHTTP)
			r.Post("/payment/verify", verify.New(logger, s.Payment).ServeHTTP)

			// Административная консоль
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminMiddleware(logger))
				r.Get("/admin/stats", statshandler.New(logger, s.Admin).ServeHTTP)
				r.Post("/admin/users/{uid}/toggle", togglestatushandler.New(logger, s.Admin).ServeHTTP)
				r.Get("/admin/settings", settingshandler.NewGet(logger, s.Admin).ServeHTTP)
				r.Post("/admin/settings", settingshandler.NewUpdate(logger, s.Admin).ServeHTTP)
				r.Post("/admin/profile", profilehandler.NewUpdate(logger, s.Admin).ServeHTTP)
				r.Post("/admin/profile/password", profilehandler.NewPassword(logger, s.Admin).ServeHTTP)
			})
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
