package paymentprovider

// CreateOrderRequest представляет запрос на создание заказа в Razorpay.
type CreateOrderRequest struct {
	Amount   int    `json:"amount"`   // сумма в минимальных единицах валюты (пайсы)
	Currency string `json:"currency"` // валюта, например "INR"
	Receipt  string `json:"receipt"`  // внутренний идентификатор заказа
}

// CreateOrderResponse представляет ответ Razorpay на создание заказа.
type CreateOrderResponse struct {
	ID       string `json:"id"`
	Entity   string `json:"entity"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// PaymentConfirmation содержит параметры, которые фронтенд получает от
// платёжной формы после оплаты и передаёт на проверку подписи.
type PaymentConfirmation struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}
