// Package payment содержит бизнес-логику оплаты premium-подписки:
// создание заказа в платёжном шлюзе и активацию подписки после
// проверки подписи платежа.
package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/nutriscan/internal/paymentprovider"
)

// PremiumPricePaise — стоимость годовой подписки в пайсах (99 INR).
const PremiumPricePaise = 9900

// PremiumDuration — срок действия подписки, записываемый в профиль.
const PremiumDuration = 365 * 24 * time.Hour

// ErrPaymentVerificationFailure возвращается при несовпадении подписи платежа.
// Подписка при этом не активируется.
var ErrPaymentVerificationFailure = errors.New("payment verification failed")

// UserRepository определяет методы для активации подписки.
type UserRepository interface {
	SetPremium(ctx context.Context, userUID string, expiry time.Time) error
}

// Provider описывает контракт платёжного шлюза.
type Provider interface {
	CreateOrder(reqParams paymentprovider.CreateOrderRequest) (*paymentprovider.CreateOrderResponse, error)
	VerifySignature(confirmation paymentprovider.PaymentConfirmation) bool
}

// Order — данные заказа для платёжной формы на фронтенде.
type Order struct {
	OrderID  string `json:"order_id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// Service реализует бизнес-логику оплаты подписки.
type Service struct {
	users    UserRepository
	provider Provider
	keyID    string
	log      *slog.Logger
	now      func() time.Time
}

// New создает новый экземпляр Service.
func New(users UserRepository, provider Provider, keyID string, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		provider: provider,
		keyID:    keyID,
		log:      log,
		now:      time.Now,
	}
}

// CreateOrder создаёт заказ на оплату годовой подписки в платёжном шлюзе.
func (s *Service) CreateOrder(ctx context.Context, userUID string) (*Order, error) {
	const op = "payment.CreateOrder"

	resp, err := s.provider.CreateOrder(paymentprovider.CreateOrderRequest{
		Amount:   PremiumPricePaise,
		Currency: "INR",
		Receipt:  "u_" + userUID,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("created payment order",
		slog.String("user_uid", userUID), slog.String("order_id", resp.ID))
	return &Order{
		OrderID:  resp.ID,
		Amount:   resp.Amount,
		Currency: resp.Currency,
		KeyID:    s.keyID,
	}, nil
}

// Verify проверяет подпись платежа и активирует premium-подписку.
//
// Дата окончания подписки записывается как now + 365 дней; последующие
// проверки доступа учитывают только флаг is_premium.
func (s *Service) Verify(ctx context.Context, userUID string, confirmation paymentprovider.PaymentConfirmation) error {
	const op = "payment.Verify"

	if !s.provider.VerifySignature(confirmation) {
		s.log.Warn("payment signature mismatch",
			slog.String("user_uid", userUID), slog.String("order_id", confirmation.OrderID))
		return ErrPaymentVerificationFailure
	}

	expiry := s.now().Add(PremiumDuration)
	if err := s.users.SetPremium(ctx, userUID, expiry); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("premium activated",
		slog.String("user_uid", userUID), slog.Time("expiry", expiry))
	return nil
}
