// Package scan содержит бизнес-логику распознавания еды по фотографии
// и учёта потреблённых калорий.
//
// Запись в журнал создаётся только после успешного ответа AI-оценщика,
// после чего сумма калорий за текущие сутки (UTC) пересчитывается по полной
// истории и сравнивается с дневным лимитом пользователя. Запись, вызвавшая
// проверку, входит в пересчитанную сумму.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/nutriscan/internal/estimator"
	"github.com/magabrotheeeer/nutriscan/internal/lib/sl"
	"github.com/magabrotheeeer/nutriscan/internal/models"
	"github.com/magabrotheeeer/nutriscan/internal/services/entitlement"
)

// ErrEntitlementDenied возвращается, когда пробный период истёк и premium не оплачен.
var ErrEntitlementDenied = errors.New("trial expired, upgrade to premium")

// ErrEstimatorFailure возвращается, когда AI-оценщик вернул ошибку.
// Запись в журнал при этом не создаётся.
var ErrEstimatorFailure = errors.New("estimator failure")

var scansProcessed = promauto.NewCounter(prometheus.CounterOpts{
	Name: "nutriscan_scans_processed_total",
	Help: "Количество успешно распознанных фотографий еды.",
})

// UserRepository определяет методы для чтения пользователей.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// FoodLogRepository определяет методы для работы с журналом питания.
type FoodLogRepository interface {
	// CreateFoodLog добавляет новую запись и возвращает её ID.
	CreateFoodLog(ctx context.Context, entry models.FoodLog) (int, error)
	// ListFoodLogs возвращает записи пользователя в порядке убывания даты.
	ListFoodLogs(ctx context.Context, userUID string) ([]*models.FoodLog, error)
	// SumCaloriesForDay пересчитывает сумму калорий за интервал [dayStart, dayEnd).
	SumCaloriesForDay(ctx context.Context, userUID string, dayStart, dayEnd time.Time) (int, error)
}

// SiteConfigRepository возвращает снимок глобальных настроек.
type SiteConfigRepository interface {
	GetSiteConfig(ctx context.Context) (*models.SiteConfig, error)
}

// Estimator описывает контракт AI-оценщика фотографий еды.
type Estimator interface {
	EstimateCalories(ctx context.Context, image []byte, mimeType string) (*estimator.Estimation, error)
}

// Result — итог распознавания и учёта одной фотографии.
type Result struct {
	Estimation   *estimator.Estimation // Ответ оценщика
	LimitAlert   bool                  // Превышен ли дневной лимит после записи
	LimitMessage string                // Текст предупреждения о превышении
}

// Dashboard — данные для экрана пользователя: история, сумма за сегодня и статус.
type Dashboard struct {
	Logs          []*models.FoodLog
	TodayCalories int
	DailyLimit    int
	Status        string
}

// Service реализует бизнес-логику распознавания и учёта потребления.
type Service struct {
	users      UserRepository
	logs       FoodLogRepository
	siteConfig SiteConfigRepository
	estimator  Estimator
	log        *slog.Logger
	now        func() time.Time
}

// New создает новый экземпляр Service.
func New(users UserRepository, logs FoodLogRepository, siteConfig SiteConfigRepository, est Estimator, log *slog.Logger) *Service {
	return &Service{
		users:      users,
		logs:       logs,
		siteConfig: siteConfig,
		estimator:  est,
		log:        log,
		now:        time.Now,
	}
}

// DayWindow возвращает границы календарных суток UTC, в которые попадает момент now:
// [начало суток, начало следующих суток).
func DayWindow(now time.Time) (time.Time, time.Time) {
	utc := now.UTC()
	dayStart := time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
	return dayStart, dayStart.Add(24 * time.Hour)
}

// EstimateAndRecord распознаёт фотографию еды, создаёт запись журнала
// и классифицирует суточную сумму калорий относительно лимита пользователя.
func (s *Service) EstimateAndRecord(ctx context.Context, userUID string, image []byte, mimeType string) (*Result, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.siteConfig.GetSiteConfig(ctx)
	if err != nil {
		return nil, err
	}

	if !entitlement.CanAccessAI(user, s.now(), cfg.DefaultTrialDays) {
		return nil, ErrEntitlementDenied
	}

	est, err := s.estimator.EstimateCalories(ctx, image, mimeType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEstimatorFailure, err)
	}

	entry := models.FoodLog{
		UserUID:  userUID,
		FoodName: est.AnalysisNotes,
		Calories: est.TotalCalories,
		Protein:  est.TotalNutrients.ProteinG,
		Carbs:    est.TotalNutrients.CarbsG,
		Fat:      est.TotalNutrients.FatG,
	}
	id, err := s.logs.CreateFoodLog(ctx, entry)
	if err != nil {
		return nil, err
	}
	s.log.Info("recorded food log", slog.Int("id", id), slog.Int("calories", entry.Calories))
	scansProcessed.Inc()

	dayStart, dayEnd := DayWindow(s.now())
	total, err := s.logs.SumCaloriesForDay(ctx, userUID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	result := &Result{Estimation: est}
	if user.DailyCalorieLimit > 0 && total > user.DailyCalorieLimit {
		result.LimitAlert = true
		result.LimitMessage = fmt.Sprintf("WARNING: Limit exceeded by %d kcal!", total-user.DailyCalorieLimit)
		s.log.Warn("daily calorie limit exceeded",
			slog.Int("total", total), slog.Int("limit", user.DailyCalorieLimit))
	}
	return result, nil
}

// Demo распознаёт фотографию без записи в журнал. Доступно без учётной записи.
func (s *Service) Demo(ctx context.Context, image []byte, mimeType string) (*estimator.Estimation, error) {
	est, err := s.estimator.EstimateCalories(ctx, image, mimeType)
	if err != nil {
		s.log.Error("demo estimation failed", sl.Err(err))
		return nil, fmt.Errorf("%w: %s", ErrEstimatorFailure, err)
	}
	return est, nil
}

// GetDashboard собирает историю пользователя, сумму за текущие сутки UTC
// и метку статуса подписки.
func (s *Service) GetDashboard(ctx context.Context, userUID string) (*Dashboard, error) {
	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, err
	}
	cfg, err := s.siteConfig.GetSiteConfig(ctx)
	if err != nil {
		return nil, err
	}

	logs, err := s.logs.ListFoodLogs(ctx, userUID)
	if err != nil {
		return nil, err
	}

	dayStart, dayEnd := DayWindow(s.now())
	total, err := s.logs.SumCaloriesForDay(ctx, userUID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	return &Dashboard{
		Logs:          logs,
		TodayCalories: total,
		DailyLimit:    user.DailyCalorieLimit,
		Status:        entitlement.Status(user, s.now(), cfg.DefaultTrialDays),
	}, nil
}
