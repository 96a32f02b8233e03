// Package report содержит построение пользовательских отчётов:
// выгрузку журнала питания в CSV, данные для календаря потребления
// и расчёт индекса массы тела.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/magabrotheeeer/nutriscan/internal/models"
)

// FallbackDailyLimit используется, когда у пользователя не задан дневной лимит.
const FallbackDailyLimit = 2000

const (
	colorWithinLimit = "#10b981"
	colorOverLimit   = "#ef4444"
)

// FoodLogRepository определяет методы для чтения журнала питания.
type FoodLogRepository interface {
	ListFoodLogs(ctx context.Context, userUID string) ([]*models.FoodLog, error)
}

// UserRepository определяет методы для чтения пользователей.
type UserRepository interface {
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// CalendarEvent — агрегат потребления за одни сутки в формате,
// ожидаемом календарём на фронтенде.
type CalendarEvent struct {
	Title         string        `json:"title"`
	Start         string        `json:"start"`
	Color         string        `json:"color"`
	ExtendedProps CalendarProps `json:"extendedProps"`
}

// CalendarProps — детализация события календаря.
type CalendarProps struct {
	Foods []string `json:"foods"`
	Total int      `json:"total"`
	Limit int      `json:"limit"`
}

// BMIResult — индекс массы тела и его категория.
type BMIResult struct {
	BMI      float64 `json:"bmi"`
	Category string  `json:"category"`
}

// Service реализует построение отчётов.
type Service struct {
	logs  FoodLogRepository
	users UserRepository
	log   *slog.Logger
}

// New создает новый экземпляр Service.
func New(logs FoodLogRepository, users UserRepository, log *slog.Logger) *Service {
	return &Service{
		logs:  logs,
		users: users,
		log:   log,
	}
}

// ExportCSV выгружает полную историю питания пользователя в CSV.
//
// Значения не экранируются: формат повторяет исторический экспорт,
// который потребители уже разбирают.
func (s *Service) ExportCSV(ctx context.Context, userUID string) (string, error) {
	const op = "report.ExportCSV"

	logs, err := s.logs.ListFoodLogs(ctx, userUID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var b strings.Builder
	b.WriteString("Date,Food,Calories\n")
	for _, l := range logs {
		b.WriteString(fmt.Sprintf("%s,%s,%d\n",
			l.CreatedAt.Format("2006-01-02 15:04:05"), l.FoodName, l.Calories))
	}
	return b.String(), nil
}

// Calendar агрегирует журнал по календарным суткам UTC и размечает дни
// цветом в зависимости от превышения дневного лимита.
func (s *Service) Calendar(ctx context.Context, userUID string) ([]CalendarEvent, error) {
	const op = "report.Calendar"

	user, err := s.users.GetUser(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	logs, err := s.logs.ListFoodLogs(ctx, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	limit := user.DailyCalorieLimit
	if limit == 0 {
		limit = FallbackDailyLimit
	}

	type dayAgg struct {
		total int
		foods []string
	}
	days := make(map[string]*dayAgg)
	for _, l := range logs {
		date := l.CreatedAt.UTC().Format("2006-01-02")
		agg, ok := days[date]
		if !ok {
			agg = &dayAgg{}
			days[date] = agg
		}
		agg.total += l.Calories
		agg.foods = append(agg.foods, fmt.Sprintf("%s (%d)", l.FoodName, l.Calories))
	}

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	events := make([]CalendarEvent, 0, len(dates))
	for _, date := range dates {
		agg := days[date]
		color := colorWithinLimit
		if agg.total > limit {
			color = colorOverLimit
		}
		events = append(events, CalendarEvent{
			Title: fmt.Sprintf("%d kcal", agg.total),
			Start: date,
			Color: color,
			ExtendedProps: CalendarProps{
				Foods: agg.foods,
				Total: agg.total,
				Limit: limit,
			},
		})
	}
	return events, nil
}

// CalculateBMI вычисляет индекс массы тела с округлением до одного знака
// и относит его к категории Underweight, Normal или Overweight.
func CalculateBMI(weightKg, heightCm float64) (*BMIResult, error) {
	if weightKg <= 0 || heightCm <= 0 {
		return nil, fmt.Errorf("report.CalculateBMI: invalid input")
	}

	heightM := heightCm / 100
	bmi := math.Round(weightKg/(heightM*heightM)*10) / 10

	var category string
	switch {
	case bmi >= 18.5 && bmi <= 24.9:
		category = "Normal"
	case bmi > 24.9:
		category = "Overweight"
	default:
		category = "Underweight"
	}
	return &BMIResult{BMI: bmi, Category: category}, nil
}
