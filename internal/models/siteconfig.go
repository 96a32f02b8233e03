// Package models содержит модель глобальных настроек сервиса.
package models

// SiteConfig хранит административные настройки всего сервиса.
// Таблица содержит одну строку; обработчики читают её как снимок
// один раз на запрос, а не как глобальное состояние процесса.
type SiteConfig struct {
	ID                 int    // Идентификатор строки настроек
	SiteName           string // Название сервиса
	SupportEmail       string // Адрес поддержки
	AllowRegistrations bool   // Разрешена ли регистрация новых пользователей
	MaintenanceMode    bool   // Режим обслуживания: вход разрешён только администраторам
	DefaultTrialDays   int    // Длительность пробного периода в днях
}

// DummySiteConfig используется для приёма настроек из JSON-запроса
// администратора до их валидации.
type DummySiteConfig struct {
	SiteName           string `json:"site_name" validate:"required"`
	SupportEmail       string `json:"support_email" validate:"required,email"`
	AllowRegistrations bool   `json:"allow_registrations"`
	MaintenanceMode    bool   `json:"maintenance_mode"`
	DefaultTrialDays   int    `json:"default_trial_days" validate:"required,gt=0"`
}
