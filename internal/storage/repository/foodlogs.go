package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/nutriscan/internal/models"
)

// CreateFoodLog вставляет новую запись журнала питания и возвращает её ID.
// Момент создания выставляется базой данных, а не клиентом.
func (s *Storage) CreateFoodLog(ctx context.Context, entry models.FoodLog) (int, error) {
	const op = "storage.CreateFoodLog"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO food_logs (user_uid, food_name, calories, protein, carbs, fat)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		entry.UserUID, entry.FoodName, entry.Calories, entry.Protein, entry.Carbs,
		entry.Fat).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListFoodLogs возвращает все записи пользователя в порядке убывания даты.
func (s *Storage) ListFoodLogs(ctx context.Context, userUID string) ([]*models.FoodLog, error) {
	const op = "storage.ListFoodLogs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, created_at, food_name, calories, protein, carbs, fat
			  FROM food_logs
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.FoodLog
	for rows.Next() {
		var item models.FoodLog
		if err := rows.Scan(&item.ID, &item.UserUID, &item.CreatedAt, &item.FoodName,
			&item.Calories, &item.Protein, &item.Carbs, &item.Fat); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// SumCaloriesForDay пересчитывает сумму калорий пользователя за интервал
// [dayStart, dayEnd) по полной истории записей. Инкрементальный счётчик
// не ведётся: корректность определяется именно пересчётом.
func (s *Storage) SumCaloriesForDay(ctx context.Context, userUID string, dayStart, dayEnd time.Time) (int, error) {
	const op = "storage.SumCaloriesForDay"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COALESCE(SUM(calories), 0)
			  FROM food_logs
			  WHERE user_uid = $1
			    AND created_at >= $2
			    AND created_at < $3`
	var total int
	if err := s.DB.QueryRowContext(ctx, query, userUID, dayStart, dayEnd).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// CountFoodLogs возвращает общее количество записей журнала питания.
func (s *Storage) CountFoodLogs(ctx context.Context) (int, error) {
	const op = "storage.CountFoodLogs"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM food_logs`
	var total int
	if err := s.DB.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// CountActiveUsersSince возвращает количество уникальных пользователей,
// создававших записи после указанного момента.
func (s *Storage) CountActiveUsersSince(ctx context.Context, since time.Time) (int, error) {
	const op = "storage.CountActiveUsersSince"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(DISTINCT user_uid) FROM food_logs WHERE created_at >= $1`
	var total int
	if err := s.DB.QueryRowContext(ctx, query, since).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// ListRecentFoodLogs возвращает последние записи журнала по всем пользователям.
func (s *Storage) ListRecentFoodLogs(ctx context.Context, limit int) ([]*models.FoodLog, error) {
	const op = "storage.ListRecentFoodLogs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, created_at, food_name, calories, protein, carbs, fat
			  FROM food_logs
			  ORDER BY created_at DESC
			  LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.FoodLog
	for rows.Next() {
		var item models.FoodLog
		if err := rows.Scan(&item.ID, &item.UserUID, &item.CreatedAt, &item.FoodName,
			&item.Calories, &item.Protein, &item.Carbs, &item.Fat); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
