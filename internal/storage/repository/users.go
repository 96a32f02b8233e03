package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/magabrotheeeer/nutriscan/internal/models"
)

const userColumns = `uid, email, username, password_hash, role, is_active, created_at,
			      trial_start, is_premium, premium_expiry, age, gender, current_weight,
			      height, activity_level, goal, daily_calorie_limit, saved_diet_plan`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var premiumExpiry sql.NullTime
	var age sql.NullInt64
	var gender sql.NullString
	var currentWeight, height sql.NullFloat64
	var savedDietPlan sql.NullString

	if err := row.Scan(&u.UID, &u.Email, &u.Username, &u.PasswordHash, &u.Role,
		&u.IsActive, &u.CreatedAt, &u.TrialStart, &u.IsPremium, &premiumExpiry,
		&age, &gender, &currentWeight, &height, &u.ActivityLevel, &u.Goal,
		&u.DailyCalorieLimit, &savedDietPlan); err != nil {
		return nil, err
	}

	if premiumExpiry.Valid {
		u.PremiumExpiry = &premiumExpiry.Time
	}
	if age.Valid {
		v := int(age.Int64)
		u.Age = &v
	}
	if gender.Valid {
		u.Gender = &gender.String
	}
	if currentWeight.Valid {
		u.CurrentWeight = &currentWeight.Float64
	}
	if height.Valid {
		u.Height = &height.Float64
	}
	if savedDietPlan.Valid {
		u.SavedDietPlan = &savedDietPlan.String
	}
	return u, nil
}

// RegisterUser сохраняет нового пользователя в базу данных и возвращает его UID.
// Начало пробного периода выставляется базой в момент вставки.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.RegisterUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO users (email, username, password_hash, role)
			  VALUES ($1, $2, $3, $4)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Email, user.Username, user.PasswordHash, user.Role).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetUserByEmail возвращает пользователя по его email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по его UID.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// SetPremium включает premium-подписку пользователя и выставляет дату её окончания.
func (s *Storage) SetPremium(ctx context.Context, userUID string, expiry time.Time) error {
	const op = "storage.SetPremium"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET is_premium = TRUE, premium_expiry = $1
			  WHERE uid = $2`
	if _, err := s.DB.ExecContext(ctx, query, expiry, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateBiometrics сохраняет биометрические данные пользователя и рассчитанный дневной лимит.
func (s *Storage) UpdateBiometrics(ctx context.Context, userUID string, bio models.DummyBiometrics, dailyLimit int) error {
	const op = "storage.UpdateBiometrics"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users
			  SET age = $1, gender = $2, current_weight = $3, height = $4,
			      activity_level = $5, goal = $6, daily_calorie_limit = $7
			  WHERE uid = $8`
	if _, err := s.DB.ExecContext(ctx, query,
		bio.Age, bio.Gender, bio.Weight, bio.Height,
		bio.Activity, bio.Goal, dailyLimit, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SaveDietPlan сохраняет сгенерированный план питания пользователя.
func (s *Storage) SaveDietPlan(ctx context.Context, userUID, plan string) error {
	const op = "storage.SaveDietPlan"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET saved_diet_plan = $1 WHERE uid = $2`
	if _, err := s.DB.ExecContext(ctx, query, plan, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetUserActive выставляет административный флаг активности учётной записи
// и возвращает новое значение флага.
func (s *Storage) SetUserActive(ctx context.Context, userUID string, active bool) (bool, error) {
	const op = "storage.SetUserActive"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET is_active = $1 WHERE uid = $2 RETURNING is_active`
	var isActive bool
	if err := s.DB.QueryRowContext(ctx, query, active, userUID).Scan(&isActive); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return isActive, nil
}

// UpdateProfile обновляет имя пользователя и email.
func (s *Storage) UpdateProfile(ctx context.Context, userUID, username, email string) error {
	const op = "storage.UpdateProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET username = $1, email = $2 WHERE uid = $3`
	if _, err := s.DB.ExecContext(ctx, query, username, email, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdatePassword обновляет хэш пароля пользователя.
func (s *Storage) UpdatePassword(ctx context.Context, userUID, passwordHash string) error {
	const op = "storage.UpdatePassword"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE users SET password_hash = $1 WHERE uid = $2`
	if _, err := s.DB.ExecContext(ctx, query, passwordHash, userUID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListUsers возвращает всех пользователей в порядке убывания даты регистрации.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + userColumns + `
			  FROM users
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindTrialsEndingToday находит пользователей без premium, у которых пробный
// период заканчивается сегодня (UTC).
func (s *Storage) FindTrialsEndingToday(ctx context.Context, trialDays int) ([]*models.TrialInfo, error) {
	const op = "storage.FindTrialsEndingToday"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT email, username, trial_start + make_interval(days => $1)
			  FROM users
			  WHERE is_premium = FALSE
			    AND (trial_start + make_interval(days => $1)) AT TIME ZONE 'UTC' >= CURRENT_DATE
			    AND (trial_start + make_interval(days => $1)) AT TIME ZONE 'UTC' < CURRENT_DATE + 1;`
	rows, err := s.DB.QueryContext(ctx, query, trialDays)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.TrialInfo
	for rows.Next() {
		var info models.TrialInfo
		if err = rows.Scan(&info.Email, &info.Username, &info.TrialEnds); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &info)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountUsers возвращает общее количество пользователей и количество premium-пользователей.
func (s *Storage) CountUsers(ctx context.Context) (total int, premium int, err error) {
	const op = "storage.CountUsers"
	select {
	case <-ctx.Done():
		return 0, 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE is_premium) FROM users`
	if err = s.DB.QueryRowContext(ctx, query).Scan(&total, &premium); err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, premium, nil
}
