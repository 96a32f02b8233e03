// Package trialscheduler периодически находит пользователей, у которых
// сегодня заканчивается пробный период, и публикует уведомления в брокер.
package trialscheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/nutriscan/internal/lib/sl"
	"github.com/magabrotheeeer/nutriscan/internal/models"
	"github.com/magabrotheeeer/nutriscan/internal/rabbitmq"
)

// UserRepository определяет методы для поиска истекающих пробных периодов.
type UserRepository interface {
	// FindTrialsEndingToday возвращает пользователей без premium, у которых
	// пробный период длиной trialDays заканчивается в текущие сутки.
	FindTrialsEndingToday(ctx context.Context, trialDays int) ([]*models.TrialInfo, error)
}

// SiteConfigRepository возвращает снимок глобальных настроек.
type SiteConfigRepository interface {
	GetSiteConfig(ctx context.Context) (*models.SiteConfig, error)
}

// SchedulerService публикует уведомления об окончании пробного периода.
type SchedulerService struct {
	users      UserRepository
	siteConfig SiteConfigRepository
	log        *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(users UserRepository, siteConfig SiteConfigRepository, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		users:      users,
		siteConfig: siteConfig,
		log:        log,
	}
}

// FindExpiringTrials раз в 12 часов ищет заканчивающиеся пробные периоды
// и публикует по одному сообщению на пользователя.
//
// Длительность пробного периода читается из настроек на каждой итерации:
// администратор может изменить её между проходами.
func (s *SchedulerService) FindExpiringTrials(ctx context.Context, channel *amqp.Channel) {
	ticker := time.NewTicker(12 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		s.log.Info("starting service to find expiring trials")

		trialDays := 7
		cfg, err := s.siteConfig.GetSiteConfig(ctx)
		if err != nil {
			s.log.Error("failed to read site config, using default trial length", sl.Err(err))
		} else {
			trialDays = cfg.DefaultTrialDays
		}

		trials, err := s.users.FindTrialsEndingToday(ctx, trialDays)
		if err != nil {
			s.log.Error("failed to find expiring trials", sl.Err(err))
		}
		for _, trial := range trials {
			err = rabbitmq.PublishMessage(channel, "notifications", "trial", trial)
			if err != nil {
				s.log.Error("failed to publish message", sl.Err(err))
			}
		}
	}
}
