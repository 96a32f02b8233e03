package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/nutriscan/internal/models"
)

func TestStorage_RegisterUser(t *testing.T) {
	type args struct {
		ctx  context.Context
		user models.User
	}

	tests := []struct {
		name    string
		args    args
		wantErr bool
		setup   func(s *Storage, f *TestDataFactory)
	}{
		{
			name: "successful register user",
			args: args{
				ctx: context.Background(),
				user: models.User{
					Email:        "test@example.com",
					Username:     "testuser",
					PasswordHash: "hashedpassword",
					Role:         "user",
				},
			},
			wantErr: false,
		},
		{
			name: "register user with duplicate email",
			args: args{
				ctx: context.Background(),
				user: models.User{
					Email:        "test@example.com", // Дубликат
					Username:     "anotheruser",
					PasswordHash: "hashedpassword2",
					Role:         "user",
				},
			},
			wantErr: true,
			setup: func(_ *Storage, f *TestDataFactory) {
				data := GetTestUserData()
				f.CreateUser(t, data.UID, data.Username, data.Email, data.PasswordHash, data.Role)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			factory := NewTestDataFactory(storage)
			verification := NewTestVerification(storage)

			if tt.setup != nil {
				tt.setup(storage, factory)
			}

			gotUID, err := storage.RegisterUser(tt.args.ctx, tt.args.user)

			if tt.wantErr {
				require.Error(t, err)
				assert.Empty(t, gotUID)
				return
			}

			require.NoError(t, err)
			require.NotEmpty(t, gotUID)
			verification.VerifyUserExists(t, gotUID)
		})
	}
}

func TestStorage_GetUserByEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
		setup   func(f *TestDataFactory) string
	}{
		{
			name:    "successful get user by email",
			email:   "test@example.com",
			wantErr: false,
			setup: func(f *TestDataFactory) string {
				data := GetTestUserData()
				f.CreateUser(t, data.UID, data.Username, data.Email, data.PasswordHash, data.Role)
				return data.UID
			},
		},
		{
			name:    "get non-existing user",
			email:   "nobody@example.com",
			wantErr: true,
			setup:   func(_ *TestDataFactory) string { return "" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage, cleanup := setupTestDatabase(t)
			defer cleanup()

			wantUID := tt.setup(NewTestDataFactory(storage))

			got, err := storage.GetUserByEmail(context.Background(), tt.email)

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, got)

			assert.Equal(t, wantUID, got.UID)
			assert.Equal(t, tt.email, got.Email)
			assert.Equal(t, "testuser", got.Username)
			assert.True(t, got.IsActive)
			assert.False(t, got.IsPremium)
			assert.False(t, got.TrialStart.IsZero())
			assert.Equal(t, 2000, got.DailyCalorieLimit)
		})
	}
}

func TestStorage_SetPremium(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verification := NewTestVerification(storage)

	data := GetTestUserData()
	factory.CreateUser(t, data.UID, data.Username, data.Email, data.PasswordHash, data.Role)

	expiry := time.Now().UTC().Add(365 * 24 * time.Hour)
	err := storage.SetPremium(context.Background(), data.UID, expiry)
	require.NoError(t, err)

	verification.VerifyPremiumStatus(t, data.UID, true)

	got, err := storage.GetUser(context.Background(), data.UID)
	require.NoError(t, err)
	require.NotNil(t, got.PremiumExpiry)
	assert.WithinDuration(t, expiry, *got.PremiumExpiry, time.Second)
}

func TestStorage_UpdateBiometrics(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)

	data := GetTestUserData()
	factory.CreateUser(t, data.UID, data.Username, data.Email, data.PasswordHash, data.Role)

	bio := models.DummyBiometrics{
		Weight:   70,
		Height:   175,
		Age:      30,
		Gender:   "male",
		Goal:     "lose",
		Activity: "moderate",
	}
	err := storage.UpdateBiometrics(context.Background(), data.UID, bio, 1750)
	require.NoError(t, err)

	got, err := storage.GetUser(context.Background(), data.UID)
	require.NoError(t, err)
	require.NotNil(t, got.Age)
	require.NotNil(t, got.Gender)
	require.NotNil(t, got.CurrentWeight)
	require.NotNil(t, got.Height)
	assert.Equal(t, 30, *got.Age)
	assert.Equal(t, "male", *got.Gender)
	assert.InDelta(t, 70.0, *got.CurrentWeight, 0.001)
	assert.InDelta(t, 175.0, *got.Height, 0.001)
	assert.Equal(t, "moderate", got.ActivityLevel)
	assert.Equal(t, "lose", got.Goal)
	assert.Equal(t, 1750, got.DailyCalorieLimit)
}

func TestStorage_SaveDietPlan(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)

	data := GetTestUserData()
	factory.CreateUser(t, data.UID, data.Username, data.Email, data.PasswordHash, data.Role)

	err := storage.SaveDietPlan(context.Background(), data.UID, "<h3>Breakfast</h3><ul><li>Oatmeal</li></ul>")
	require.NoError(t, err)

	got, err := storage.GetUser(context.Background(), data.UID)
	require.NoError(t, err)
	require.NotNil(t, got.SavedDietPlan)
	assert.Contains(t, *got.SavedDietPlan, "Oatmeal")
}

func TestStorage_CreateFoodLog(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	verification := NewTestVerification(storage)

	data := GetTestUserData()
	factory.CreateUser(t, data.UID, data.Username, data.Email, data.PasswordHash, data.Role)

	gotID, err := storage.CreateFoodLog(context.Background(), models.FoodLog{
		UserUID:  data.UID,
		FoodName: "Grilled Chicken",
		Calories: 450,
		Protein:  40,
		Carbs:    10,
		Fat:      15,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, gotID)
	verification.VerifyFoodLogExists(t, gotID)

	logs, err := storage.ListFoodLogs(context.Background(), data.UID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Grilled Chicken", logs[0].FoodName)
	assert.Equal(t, 450, logs[0].Calories)
	assert.False(t, logs[0].CreatedAt.IsZero())
}

func TestStorage_SumCaloriesForDay(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)

	data := GetTestUserData()
	factory.CreateUser(t, data.UID, data.Username, data.Email, data.PasswordHash, data.Role)

	dayStart := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)

	// Записи внутри окна [dayStart, dayEnd)
	factory.CreateFoodLog(t, data.UID, "Breakfast", 400, dayStart)
	factory.CreateFoodLog(t, data.UID, "Dinner", 600, dayEnd.Add(-time.Second))
	// Записи за пределами окна
	factory.CreateFoodLog(t, data.UID, "Late snack yesterday", 300, dayStart.Add(-time.Second))
	factory.CreateFoodLog(t, data.UID, "Next day breakfast", 500, dayEnd)

	total, err := storage.SumCaloriesForDay(context.Background(), data.UID, dayStart, dayEnd)
	require.NoError(t, err)
	assert.Equal(t, 1000, total)

	// Записи другого пользователя не учитываются
	other := GetTestUserData()
	other.Email = "other@example.com"
	factory.CreateUser(t, other.UID, "otheruser", other.Email, other.PasswordHash, other.Role)
	factory.CreateFoodLog(t, other.UID, "Pizza", 900, dayStart.Add(time.Hour))

	total, err = storage.SumCaloriesForDay(context.Background(), data.UID, dayStart, dayEnd)
	require.NoError(t, err)
	assert.Equal(t, 1000, total)
}

func TestStorage_CountUsers(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)

	total, premium, err := storage.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Equal(t, 0, premium)

	data := GetTestUserData()
	factory.CreateUser(t, data.UID, data.Username, data.Email, data.PasswordHash, data.Role)

	paid := GetTestUserData()
	factory.CreatePremiumUser(t, paid.UID, "premiumuser", "premium@example.com",
		time.Now().UTC().Add(365*24*time.Hour))

	total, premium, err = storage.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, premium)
}

func TestStorage_SetUserActive(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)

	data := GetTestUserData()
	factory.CreateUser(t, data.UID, data.Username, data.Email, data.PasswordHash, data.Role)

	isActive, err := storage.SetUserActive(context.Background(), data.UID, false)
	require.NoError(t, err)
	assert.False(t, isActive)

	got, err := storage.GetUser(context.Background(), data.UID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	isActive, err = storage.SetUserActive(context.Background(), data.UID, true)
	require.NoError(t, err)
	assert.True(t, isActive)
}

func TestStorage_FindTrialsEndingToday(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	trialDays := 7

	// Пробный период заканчивается прямо сейчас, то есть сегодня
	ending := GetTestUserData()
	factory.CreateTrialUser(t, ending.UID, "endingtoday", "ending@example.com",
		time.Now().UTC().AddDate(0, 0, -trialDays))

	// Пробный период закончился неделю назад
	expired := GetTestUserData()
	factory.CreateTrialUser(t, expired.UID, "expired", "expired@example.com",
		time.Now().UTC().AddDate(0, 0, -2*trialDays))

	// Пробный период только начался
	fresh := GetTestUserData()
	factory.CreateTrialUser(t, fresh.UID, "fresh", "fresh@example.com", time.Now().UTC())

	// Premium-пользователь не получает уведомлений независимо от trial_start
	paid := GetTestUserData()
	factory.CreatePremiumUser(t, paid.UID, "premiumuser", "premium@example.com",
		time.Now().UTC().Add(365*24*time.Hour))
	_, err := storage.DB.Exec(`UPDATE users SET trial_start = $1 WHERE uid = $2`,
		time.Now().UTC().AddDate(0, 0, -trialDays), paid.UID)
	require.NoError(t, err)

	got, err := storage.FindTrialsEndingToday(context.Background(), trialDays)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "ending@example.com", got[0].Email)
	assert.Equal(t, "endingtoday", got[0].Username)
	assert.False(t, got[0].TrialEnds.IsZero())
}

func TestStorage_SiteConfig(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	cfg, err := storage.GetSiteConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "NutriScan AI", cfg.SiteName)
	assert.Equal(t, "support@nutriscan.com", cfg.SupportEmail)
	assert.True(t, cfg.AllowRegistrations)
	assert.False(t, cfg.MaintenanceMode)
	assert.Equal(t, 7, cfg.DefaultTrialDays)

	err = storage.UpdateSiteConfig(ctx, models.DummySiteConfig{
		SiteName:           "NutriScan Staging",
		SupportEmail:       "ops@nutriscan.com",
		AllowRegistrations: false,
		MaintenanceMode:    true,
		DefaultTrialDays:   14,
	})
	require.NoError(t, err)

	cfg, err = storage.GetSiteConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "NutriScan Staging", cfg.SiteName)
	assert.Equal(t, "ops@nutriscan.com", cfg.SupportEmail)
	assert.False(t, cfg.AllowRegistrations)
	assert.True(t, cfg.MaintenanceMode)
	assert.Equal(t, 14, cfg.DefaultTrialDays)
}

func TestStorage_AdminCounters(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	factory := NewTestDataFactory(storage)
	ctx := context.Background()

	data := GetTestUserData()
	factory.CreateUser(t, data.UID, data.Username, data.Email, data.PasswordHash, data.Role)

	other := GetTestUserData()
	factory.CreateUser(t, other.UID, "otheruser", "other@example.com", other.PasswordHash, other.Role)

	now := time.Now().UTC()
	factory.CreateFoodLog(t, data.UID, "Salad", 200, now.Add(-time.Hour))
	factory.CreateFoodLog(t, data.UID, "Soup", 300, now.AddDate(0, 0, -40))
	factory.CreateFoodLog(t, other.UID, "Burger", 800, now.Add(-2*time.Hour))

	total, err := storage.CountFoodLogs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	active, err := storage.CountActiveUsersSince(ctx, now.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, 2, active)

	recent, err := storage.ListRecentFoodLogs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Salad", recent[0].FoodName)
	assert.Equal(t, "Burger", recent[1].FoodName)
}
