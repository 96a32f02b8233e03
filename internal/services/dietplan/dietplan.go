// Package dietplan содержит расчёт дневного лимита калорий по формуле
// Миффлина-Сан Жеора и генерацию персонального плана питания через AI.
package dietplan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/nutriscan/internal/cache"
	"github.com/magabrotheeeer/nutriscan/internal/lib/sl"
	"github.com/magabrotheeeer/nutriscan/internal/models"
	"github.com/magabrotheeeer/nutriscan/internal/services/entitlement"
)

// ErrEntitlementDenied возвращается, когда пробный период истёк и premium не оплачен.
var ErrEntitlementDenied = errors.New("trial expired, upgrade to premium")

var activityMultipliers = map[string]float64{
	"sedentary": 1.2,
	"light":     1.375,
	"moderate":  1.55,
	"active":    1.725,
}

// CalculateDailyLimit вычисляет дневной лимит калорий по формуле Миффлина-Сан Жеора.
//
// BMR = 10*вес + 6.25*рост - 5*возраст + 5 (мужчины) или -161 (женщины),
// затем умножается на коэффициент активности; цель lose/gain сдвигает
// результат на -500/+500 ккал. Дробная часть отбрасывается.
func CalculateDailyLimit(bio models.DummyBiometrics) int {
	bmr := 10*bio.Weight + 6.25*bio.Height - 5*float64(bio.Age)
	if bio.Gender == "male" {
		bmr += 5
	} else {
		bmr -= 161
	}

	multiplier, ok := activityMultipliers[bio.Activity]
	if !ok {
		multiplier = 1.2
	}
	tdee := bmr * multiplier

	switch bio.Goal {
	case "lose":
		return int(tdee - 500)
	case "gain":
		return int(tdee + 500)
	default:
		return int(tdee)
	}
}

// UserRepository определяет методы для чтения и обновления профиля пользователя.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// UpdateBiometrics сохраняет биометрию и рассчитанный лимит до обращения к AI.
	UpdateBiometrics(ctx context.Context, userUID string, bio models.DummyBiometrics, dailyLimit int) error
	SaveDietPlan(ctx context.Context, userUID, plan string) error
}

// SiteConfigRepository возвращает снимок глобальных настроек.
type SiteConfigRepository interface {
	GetSiteConfig(ctx context.Context) (*models.SiteConfig, error)
}

// TextGenerator описывает контракт AI-генератора текста.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Result — сгенерированный план питания вместе с рассчитанным лимитом.
type Result struct {
	Plan       string `json:"plan"`
	DailyLimit int    `json:"limit"`
}

// Service реализует бизнес-логику генерации плана питания.
type Service struct {
	users      UserRepository
	siteConfig SiteConfigRepository
	generator  TextGenerator
	cache      *cache.Cache
	log        *slog.Logger
	now        func() time.Time
}

// New создает новый экземпляр Service.
func New(users UserRepository, siteConfig SiteConfigRepository, generator TextGenerator,
	c *cache.Cache, log *slog.Logger) *Service {
	return &Service{
		users:      users,
		siteConfig: siteConfig,
		generator:  generator,
		cache:      c,
		log:        log,
		now:        time.Now,
	}
}

// Generate рассчитывает дневной лимит, сохраняет биометрию и лимит в профиле,
// затем запрашивает у AI план питания и сохраняет его.
//
// Биометрия и лимит фиксируются до обращения к AI: при ошибке генерации
// профиль остаётся обновлённым, план — прежним.
func (s *Service) Generate(ctx context.Context, userUID string, bio models.DummyBiometrics) (*Result, error) {
	const op = "dietplan.Generate"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cfg, err := s.siteConfig.GetSiteConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !entitlement.CanAccessAI(user, s.now(), cfg.DefaultTrialDays) {
		return nil, ErrEntitlementDenied
	}

	dailyLimit := CalculateDailyLimit(bio)
	if err := s.users.UpdateBiometrics(ctx, userUID, bio, dailyLimit); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	prompt := fmt.Sprintf(
		"Create a 1-day diet plan for %dyr old %s, %gkg. Goal: %s. Daily Limit: %d kcal. Use HTML tags (<h3>, <ul>, <li>) only. No markdown.",
		bio.Age, bio.Gender, bio.Weight, bio.Goal, dailyLimit)
	plan, err := s.generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.users.SaveDietPlan(ctx, userUID, plan); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &Result{Plan: plan, DailyLimit: dailyLimit}
	if s.cache != nil {
		if err := s.cache.Set("dietplan:"+userUID, result, time.Hour); err != nil {
			s.log.Warn("failed to cache diet plan", sl.Err(err))
		}
	}
	s.log.Info("generated diet plan", slog.String("user_uid", userUID), slog.Int("daily_limit", dailyLimit))
	return result, nil
}

// GetSaved возвращает последний сохранённый план питания пользователя,
// сначала пробуя кэш.
func (s *Service) GetSaved(ctx context.Context, userUID string) (*Result, error) {
	const op = "dietplan.GetSaved"

	if s.cache != nil {
		var cached Result
		found, err := s.cache.Get("dietplan:"+userUID, &cached)
		if err != nil {
			s.log.Warn("failed to read diet plan cache", sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result := &Result{DailyLimit: user.DailyCalorieLimit}
	if user.SavedDietPlan != nil {
		result.Plan = *user.SavedDietPlan
	}
	return result, nil
}
