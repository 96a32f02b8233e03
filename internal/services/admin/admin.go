// Package admin содержит бизнес-логику административной консоли:
// сводную статистику сервиса, управление учётными записями,
// глобальные настройки и профиль администратора.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/magabrotheeeer/nutriscan/internal/lib/password"
	"github.com/magabrotheeeer/nutriscan/internal/models"
)

// PremiumPriceRupees — цена подписки для расчёта выручки.
const PremiumPriceRupees = 99

var (
	// ErrSelfDeactivation возвращается при попытке администратора отключить себя.
	ErrSelfDeactivation = errors.New("cannot deactivate your own account")
	// ErrWrongPassword возвращается при неверном текущем пароле.
	ErrWrongPassword = errors.New("incorrect current password")
	// ErrPasswordMismatch возвращается при несовпадении нового пароля и подтверждения.
	ErrPasswordMismatch = errors.New("new passwords do not match")
)

// UserRepository определяет методы для администрирования учётных записей.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// SetUserActive переключает флаг активности и возвращает новое значение.
	SetUserActive(ctx context.Context, userUID string, active bool) (bool, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	// CountUsers возвращает общее число пользователей и число premium.
	CountUsers(ctx context.Context) (total int, premium int, err error)
	UpdateProfile(ctx context.Context, userUID, username, email string) error
	UpdatePassword(ctx context.Context, userUID, passwordHash string) error
}

// FoodLogRepository определяет методы для статистики по журналу питания.
type FoodLogRepository interface {
	CountFoodLogs(ctx context.Context) (int, error)
	// CountActiveUsersSince считает пользователей хотя бы с одной записью после since.
	CountActiveUsersSince(ctx context.Context, since time.Time) (int, error)
	ListRecentFoodLogs(ctx context.Context, limit int) ([]*models.FoodLog, error)
}

// SiteConfigRepository определяет методы для глобальных настроек.
type SiteConfigRepository interface {
	GetSiteConfig(ctx context.Context) (*models.SiteConfig, error)
	UpdateSiteConfig(ctx context.Context, cfg models.DummySiteConfig) error
}

// Stats — сводная статистика сервиса для административной панели.
type Stats struct {
	TotalUsers     int     `json:"total_users"`
	PremiumUsers   int     `json:"premium_users"`
	TotalScans     int     `json:"total_scans"`
	TotalRevenue   int     `json:"total_revenue"`
	ActiveUsers    int     `json:"active_users"`    // Пользователи с записями за последние 30 дней
	AvgScans       float64 `json:"avg_scans"`       // Среднее число записей на пользователя
	ConversionRate float64 `json:"conversion_rate"` // Доля premium в процентах
}

// Dashboard — статистика вместе со списком пользователей и свежими записями.
type Dashboard struct {
	Stats      Stats             `json:"stats"`
	Users      []*models.User    `json:"users"`
	RecentLogs []*models.FoodLog `json:"recent_logs"`
}

// Service реализует бизнес-логику административной консоли.
type Service struct {
	users      UserRepository
	logs       FoodLogRepository
	siteConfig SiteConfigRepository
	log        *slog.Logger
	now        func() time.Time
}

// New создает новый экземпляр Service.
func New(users UserRepository, logs FoodLogRepository, siteConfig SiteConfigRepository, log *slog.Logger) *Service {
	return &Service{
		users:      users,
		logs:       logs,
		siteConfig: siteConfig,
		log:        log,
		now:        time.Now,
	}
}

// GetDashboard собирает сводную статистику, список пользователей
// и последние записи журнала.
func (s *Service) GetDashboard(ctx context.Context) (*Dashboard, error) {
	const op = "admin.GetDashboard"

	total, premium, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	scans, err := s.logs.CountFoodLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	active, err := s.logs.CountActiveUsersSince(ctx, s.now().Add(-30*24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	stats := Stats{
		TotalUsers:   total,
		PremiumUsers: premium,
		TotalScans:   scans,
		TotalRevenue: premium * PremiumPriceRupees,
		ActiveUsers:  active,
	}
	if total > 0 {
		stats.AvgScans = math.Round(float64(scans)/float64(total)*10) / 10
		stats.ConversionRate = math.Round(float64(premium)/float64(total)*100*10) / 10
	}

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	recent, err := s.logs.ListRecentFoodLogs(ctx, 20)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Dashboard{Stats: stats, Users: users, RecentLogs: recent}, nil
}

// ToggleUserStatus переключает активность учётной записи.
// Администратор не может отключить самого себя.
func (s *Service) ToggleUserStatus(ctx context.Context, adminUID, targetUID string) (bool, error) {
	const op = "admin.ToggleUserStatus"

	if adminUID == targetUID {
		return false, ErrSelfDeactivation
	}

	target, err := s.users.GetUser(ctx, targetUID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	active, err := s.users.SetUserActive(ctx, targetUID, !target.IsActive)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("toggled user status",
		slog.String("target_uid", targetUID), slog.Bool("active", active))
	return active, nil
}

// GetSettings возвращает текущие глобальные настройки сервиса.
func (s *Service) GetSettings(ctx context.Context) (*models.SiteConfig, error) {
	cfg, err := s.siteConfig.GetSiteConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin.GetSettings: %w", err)
	}
	return cfg, nil
}

// UpdateSettings сохраняет новые глобальные настройки.
func (s *Service) UpdateSettings(ctx context.Context, cfg models.DummySiteConfig) error {
	if err := s.siteConfig.UpdateSiteConfig(ctx, cfg); err != nil {
		return fmt.Errorf("admin.UpdateSettings: %w", err)
	}
	s.log.Info("updated site settings",
		slog.Bool("allow_registrations", cfg.AllowRegistrations),
		slog.Bool("maintenance_mode", cfg.MaintenanceMode),
		slog.Int("default_trial_days", cfg.DefaultTrialDays))
	return nil
}

// UpdateProfile обновляет имя и email администратора.
func (s *Service) UpdateProfile(ctx context.Context, userUID, username, email string) error {
	if err := s.users.UpdateProfile(ctx, userUID, username, email); err != nil {
		return fmt.Errorf("admin.UpdateProfile: %w", err)
	}
	return nil
}

// ChangePassword меняет пароль после проверки текущего пароля
// и совпадения нового с подтверждением.
func (s *Service) ChangePassword(ctx context.Context, userUID, currentPw, newPw, confirmPw string) error {
	const op = "admin.ChangePassword"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, currentPw); err != nil {
		return ErrWrongPassword
	}
	if newPw != confirmPw {
		return ErrPasswordMismatch
	}

	hash, err := password.GetHash(newPw)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.users.UpdatePassword(ctx, userUID, hash); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("password changed", slog.String("user_uid", userUID))
	return nil
}
