// Package auth содержит бизнес-логику регистрации и входа пользователей.
//
// Регистрация подчиняется глобальному флагу allow_registrations, вход —
// режиму обслуживания: в maintenance_mode войти могут только администраторы.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/nutriscan/internal/lib/jwt"
	"github.com/magabrotheeeer/nutriscan/internal/lib/password"
	"github.com/magabrotheeeer/nutriscan/internal/models"
)

var (
	// ErrRegistrationsClosed возвращается, когда регистрация отключена администратором.
	ErrRegistrationsClosed = errors.New("registrations are currently closed")
	// ErrInvalidCredentials возвращается при неверной паре email/пароль.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrAccountDeactivated возвращается для деактивированных учётных записей.
	ErrAccountDeactivated = errors.New("account is deactivated")
	// ErrMaintenanceMode возвращается не-администраторам в режиме обслуживания.
	ErrMaintenanceMode = errors.New("service is under maintenance")
)

// UserRepository определяет методы для работы с учётными записями.
type UserRepository interface {
	// RegisterUser создаёт пользователя и возвращает его UID.
	// Начало пробного периода устанавливается базой в момент вставки.
	RegisterUser(ctx context.Context, user models.User) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// SiteConfigRepository возвращает снимок глобальных настроек.
type SiteConfigRepository interface {
	GetSiteConfig(ctx context.Context) (*models.SiteConfig, error)
}

// Service реализует бизнес-логику аутентификации.
type Service struct {
	users      UserRepository
	siteConfig SiteConfigRepository
	jwtMaker   jwt.Maker
	log        *slog.Logger
}

// New создает новый экземпляр Service.
func New(users UserRepository, siteConfig SiteConfigRepository, jwtMaker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		users:      users,
		siteConfig: siteConfig,
		jwtMaker:   jwtMaker,
		log:        log,
	}
}

// Register создаёт нового пользователя с ролью user и запущенным пробным периодом.
func (s *Service) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	const op = "auth.Register"

	cfg, err := s.siteConfig.GetSiteConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !cfg.AllowRegistrations {
		return "", ErrRegistrationsClosed
	}

	hash, err := password.GetHash(rawPassword)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	uid, err := s.users.RegisterUser(ctx, models.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		Role:         "user",
		IsActive:     true,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("registered new user", slog.String("user_uid", uid))
	return uid, nil
}

// Login проверяет пару email/пароль и возвращает подписанный JWT.
//
// Неизвестный email и неверный пароль неразличимы для вызывающего.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (string, error) {
	const op = "auth.Login"

	cfg, err := s.siteConfig.GetSiteConfig(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return "", ErrAccountDeactivated
	}
	if cfg.MaintenanceMode && user.Role != "admin" {
		return "", ErrMaintenanceMode
	}

	token, err := s.jwtMaker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user logged in", slog.String("user_uid", user.UID), slog.String("role", user.Role))
	return token, nil
}

// ValidateToken проверяет подпись и срок действия токена, возвращая его claims.
func (s *Service) ValidateToken(tokenStr string) (*jwt.CustomClaims, error) {
	claims, err := s.jwtMaker.ParseToken(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("auth.ValidateToken: %w", err)
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, fmt.Errorf("auth.ValidateToken: token expired")
	}
	return claims, nil
}
