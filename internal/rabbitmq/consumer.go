package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"
)

// ConsumerMessage подписывается на очередь и обрабатывает сообщения переданным handler.
// Сообщение подтверждается только после успешной обработки, иначе возвращается в очередь.
func ConsumerMessage(ch *amqp.Channel, queueName string, handler func(body []byte) error) error {
	const op = "rabbitmq.ConsumerMessage"

	msgs, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	go func() {
		for msg := range msgs {
			if err := handler(msg.Body); err != nil {
				_ = msg.Nack(false, true)
				continue
			}
			_ = msg.Ack(false)
		}
	}()

	return nil
}
