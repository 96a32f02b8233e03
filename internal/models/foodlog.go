// Package models содержит доменные структуры, описывающие записи журнала питания.
package models

import "time"

// FoodLog представляет одну запись о распознанном приёме пищи.
// Запись создаётся ровно один раз после успешного ответа AI-оценщика
// и после этого не изменяется и не удаляется.
type FoodLog struct {
	ID        int       // Идентификатор записи
	UserUID   string    // Владелец записи
	CreatedAt time.Time // Момент создания записи, выставляется сервером
	FoodName  string    // Краткое описание блюда из analysis_notes
	Calories  int       // Калории
	Protein   int       // Белки, г
	Carbs     int       // Углеводы, г
	Fat       int       // Жиры, г
}

// TrialInfo содержит данные для письма-напоминания об окончании
// пробного периода. Публикуется планировщиком в очередь уведомлений.
type TrialInfo struct {
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	TrialEnds time.Time `json:"trial_ends"`
}
