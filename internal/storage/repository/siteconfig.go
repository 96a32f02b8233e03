package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/nutriscan/internal/models"
)

// GetSiteConfig возвращает снимок глобальных настроек сервиса.
func (s *Storage) GetSiteConfig(ctx context.Context) (*models.SiteConfig, error) {
	const op = "storage.GetSiteConfig"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, site_name, support_email, allow_registrations, maintenance_mode, default_trial_days
			  FROM site_config
			  ORDER BY id
			  LIMIT 1`
	var cfg models.SiteConfig
	if err := s.DB.QueryRowContext(ctx, query).Scan(&cfg.ID, &cfg.SiteName, &cfg.SupportEmail,
		&cfg.AllowRegistrations, &cfg.MaintenanceMode, &cfg.DefaultTrialDays); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// UpdateSiteConfig обновляет глобальные настройки сервиса.
func (s *Storage) UpdateSiteConfig(ctx context.Context, cfg models.DummySiteConfig) error {
	const op = "storage.UpdateSiteConfig"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE site_config
			  SET site_name = $1, support_email = $2, allow_registrations = $3,
			      maintenance_mode = $4, default_trial_days = $5
			  WHERE id = (SELECT id FROM site_config ORDER BY id LIMIT 1)`
	if _, err := s.DB.ExecContext(ctx, query, cfg.SiteName, cfg.SupportEmail,
		cfg.AllowRegistrations, cfg.MaintenanceMode, cfg.DefaultTrialDays); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
