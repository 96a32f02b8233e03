package auth

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/nutriscan/internal/lib/jwt"
	"github.com/magabrotheeeer/nutriscan/internal/lib/password"
	"github.com/magabrotheeeer/nutriscan/internal/models"
)

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockSiteConfigRepo struct {
	mock.Mock
}

func (m *MockSiteConfigRepo) GetSiteConfig(ctx context.Context) (*models.SiteConfig, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SiteConfig), args.Error(1)
}

var testLogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

func newMaker() jwt.Maker {
	return jwt.NewJWTMaker("test-secret", time.Hour)
}

func TestRegister_Success(t *testing.T) {
	users := new(MockUserRepo)
	cfgRepo := new(MockSiteConfigRepo)

	cfgRepo.On("GetSiteConfig", mock.Anything).Return(&models.SiteConfig{AllowRegistrations: true}, nil)
	users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Email == "user@example.com" && u.Username == "user" &&
			u.Role == "user" && u.IsActive &&
			password.CompareHash(u.PasswordHash, "secret123") == nil
	})).Return("uid-1", nil)

	svc := New(users, cfgRepo, newMaker(), testLogger)
	uid, err := svc.Register(context.Background(), "user@example.com", "user", "secret123")

	require.NoError(t, err)
	assert.Equal(t, "uid-1", uid)
	users.AssertExpectations(t)
}

func TestRegister_RegistrationsClosed(t *testing.T) {
	users := new(MockUserRepo)
	cfgRepo := new(MockSiteConfigRepo)

	cfgRepo.On("GetSiteConfig", mock.Anything).Return(&models.SiteConfig{AllowRegistrations: false}, nil)

	svc := New(users, cfgRepo, newMaker(), testLogger)
	_, err := svc.Register(context.Background(), "user@example.com", "user", "secret123")

	assert.ErrorIs(t, err, ErrRegistrationsClosed)
	users.AssertNotCalled(t, "RegisterUser", mock.Anything, mock.Anything)
}

func TestLogin(t *testing.T) {
	hash, err := password.GetHash("secret123")
	require.NoError(t, err)

	activeUser := &models.User{
		UID: "uid-1", Email: "user@example.com", Username: "user",
		Role: "user", IsActive: true, PasswordHash: hash,
	}
	adminUser := &models.User{
		UID: "uid-admin", Email: "admin@example.com", Username: "admin",
		Role: "admin", IsActive: true, PasswordHash: hash,
	}
	inactiveUser := &models.User{
		UID: "uid-2", Email: "banned@example.com", Username: "banned",
		Role: "user", IsActive: false, PasswordHash: hash,
	}

	tests := []struct {
		name     string
		cfg      *models.SiteConfig
		email    string
		pass     string
		user     *models.User
		userErr  error
		wantErr  error
		wantRole string
	}{
		{
			name:     "успешный вход",
			cfg:      &models.SiteConfig{},
			email:    "user@example.com",
			pass:     "secret123",
			user:     activeUser,
			wantRole: "user",
		},
		{
			name:    "неверный пароль",
			cfg:     &models.SiteConfig{},
			email:   "user@example.com",
			pass:    "wrong",
			user:    activeUser,
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "неизвестный email",
			cfg:     &models.SiteConfig{},
			email:   "ghost@example.com",
			pass:    "secret123",
			userErr: assert.AnError,
			wantErr: ErrInvalidCredentials,
		},
		{
			name:    "деактивированная учётная запись",
			cfg:     &models.SiteConfig{},
			email:   "banned@example.com",
			pass:    "secret123",
			user:    inactiveUser,
			wantErr: ErrAccountDeactivated,
		},
		{
			name:    "режим обслуживания закрывает вход пользователю",
			cfg:     &models.SiteConfig{MaintenanceMode: true},
			email:   "user@example.com",
			pass:    "secret123",
			user:    activeUser,
			wantErr: ErrMaintenanceMode,
		},
		{
			name:     "режим обслуживания пропускает администратора",
			cfg:      &models.SiteConfig{MaintenanceMode: true},
			email:    "admin@example.com",
			pass:     "secret123",
			user:     adminUser,
			wantRole: "admin",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepo)
			cfgRepo := new(MockSiteConfigRepo)
			cfgRepo.On("GetSiteConfig", mock.Anything).Return(tt.cfg, nil)
			if tt.userErr != nil {
				users.On("GetUserByEmail", mock.Anything, tt.email).Return(nil, tt.userErr)
			} else {
				users.On("GetUserByEmail", mock.Anything, tt.email).Return(tt.user, nil)
			}

			svc := New(users, cfgRepo, newMaker(), testLogger)
			token, err := svc.Login(context.Background(), tt.email, tt.pass)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			claims, err := svc.ValidateToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, claims.Role)
			assert.Equal(t, tt.user.UID, claims.UserUID)
		})
	}
}

func TestValidateToken_Expired(t *testing.T) {
	maker := jwt.NewJWTMaker("test-secret", -time.Hour)
	token, err := maker.GenerateToken("user", "user", "uid-1")
	require.NoError(t, err)

	svc := New(new(MockUserRepo), new(MockSiteConfigRepo), jwt.NewJWTMaker("test-secret", time.Hour), testLogger)
	_, err = svc.ValidateToken(token)
	assert.Error(t, err)
}
