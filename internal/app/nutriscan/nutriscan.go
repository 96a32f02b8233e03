// Package nutriscan собирает основное HTTP-приложение: хранилище, миграции,
// кэш, клиентов внешних сервисов и маршруты.
package nutriscan

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/nutriscan/internal/cache"
	"github.com/magabrotheeeer/nutriscan/internal/config"
	"github.com/magabrotheeeer/nutriscan/internal/estimator"
	"github.com/magabrotheeeer/nutriscan/internal/lib/jwt"
	"github.com/magabrotheeeer/nutriscan/internal/migrations"
	"github.com/magabrotheeeer/nutriscan/internal/paymentprovider"
	adminservice "github.com/magabrotheeeer/nutriscan/internal/services/admin"
	authservice "github.com/magabrotheeeer/nutriscan/internal/services/auth"
	dietplanservice "github.com/magabrotheeeer/nutriscan/internal/services/dietplan"
	paymentservice "github.com/magabrotheeeer/nutriscan/internal/services/payment"
	reportservice "github.com/magabrotheeeer/nutriscan/internal/services/report"
	scanservice "github.com/magabrotheeeer/nutriscan/internal/services/scan"
	"github.com/magabrotheeeer/nutriscan/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и его зависимости.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New собирает приложение из конфигурации: подключает базу, прогоняет
// миграции, поднимает кэш и регистрирует маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	estimatorClient := estimator.New(cfg.GeminiAPIKey, cfg.VisionModel, cfg.TextModel)
	providerClient := paymentprovider.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret)

	authService := authservice.New(db, db, jwtMaker, logger)
	scanService := scanservice.New(db, db, db, estimatorClient, logger)
	dietPlanService := dietplanservice.New(db, db, estimatorClient, cacheRedis, logger)
	paymentService := paymentservice.New(db, providerClient, cfg.RazorpayKeyID, logger)
	reportService := reportservice.New(db, db, logger)
	adminService := adminservice.New(db, db, db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, db, Services{
		Auth:     authService,
		Scan:     scanService,
		DietPlan: dietPlanService,
		Payment:  paymentService,
		Report:   reportService,
		Admin:    adminService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
