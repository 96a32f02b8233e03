// Package entitlement содержит правила доступа к AI-функциям сервиса.
//
// Решение о доступе — чистая функция от пользователя, текущего момента и
// длительности пробного периода из снимка настроек. Оно вычисляется заново
// на каждом запросе: никакого кэшированного решения или сохранённого
// перехода состояния нет, пересечение границы пробного периода становится
// видно на следующем запросе.
package entitlement

import (
	"fmt"
	"time"

	"github.com/magabrotheeeer/nutriscan/internal/models"
)

// DefaultTrialDays — длительность пробного периода по умолчанию.
const DefaultTrialDays = 7

// StatusPremium, StatusExpired — метки статуса подписки для отображения.
const (
	StatusPremium = "Premium"
	StatusExpired = "Expired"
)

// CanAccessAI возвращает true, если пользователю разрешено вызывать AI-функции.
//
// Premium даёт доступ безусловно: дата окончания premium хранится, но здесь
// намеренно не сравнивается с now — так ведёт себя исходная система.
func CanAccessAI(u *models.User, now time.Time, trialDays int) bool {
	if u.IsPremium {
		return true
	}
	return now.Sub(u.TrialStart) < time.Duration(trialDays)*24*time.Hour
}

// Status возвращает метку статуса подписки для отображения:
// "Premium", "Trial (N days)" или "Expired".
func Status(u *models.User, now time.Time, trialDays int) string {
	if u.IsPremium {
		return StatusPremium
	}
	daysLeft := trialDays - int(now.Sub(u.TrialStart).Hours()/24)
	if daysLeft > 0 {
		return fmt.Sprintf("Trial (%d days)", daysLeft)
	}
	return StatusExpired
}
