// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля, параметры пробного периода
// и профиль здоровья. Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя
	Email        string    // Электронная почта (уникальная)
	Username     string    // Имя пользователя
	PasswordHash string    // Хэш пароля пользователя
	Role         string    // Роль пользователя, admin или user
	IsActive     bool      // Административный флаг активности учётной записи
	CreatedAt    time.Time // Дата создания учётной записи

	TrialStart    time.Time  // Начало пробного периода, совпадает с датой регистрации
	IsPremium     bool       // Признак оплаченной premium-подписки
	PremiumExpiry *time.Time // Дата окончания premium; хранится, но при проверке доступа не сравнивается с текущим временем

	Age           *int     // Возраст в годах
	Gender        *string  // Пол: male или female
	CurrentWeight *float64 // Вес в килограммах
	Height        *float64 // Рост в сантиметрах
	ActivityLevel string   // Уровень активности: sedentary, light, moderate, active
	Goal          string   // Цель: lose, gain или maintain

	DailyCalorieLimit int     // Дневной лимит калорий, по умолчанию 2000
	SavedDietPlan     *string // Последний сгенерированный план питания
}

// DummyBiometrics используется для приёма биометрических данных из JSON-запроса
// перед расчётом дневного лимита калорий. Все поля проверяются валидатором
// до выполнения арифметики.
type DummyBiometrics struct {
	Weight   float64 `json:"weight" validate:"required,gt=0"`                                    // Вес в кг
	Height   float64 `json:"height" validate:"required,gt=0"`                                    // Рост в см
	Age      int     `json:"age" validate:"required,gt=0"`                                       // Возраст в годах
	Gender   string  `json:"gender" validate:"required,oneof=male female"`                       // Пол
	Goal     string  `json:"goal" validate:"required,oneof=lose gain maintain"`                  // Цель
	Activity string  `json:"activity" validate:"required,oneof=sedentary light moderate active"` // Уровень активности
}
