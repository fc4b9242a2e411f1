package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/gym-membership/internal/lib/sl"
)

// ConsumerMessage подписывается на очередь и обрабатывает сообщения переданным
// обработчиком, не более concurrency сообщений одновременно. При ошибке
// обработчика сообщение возвращается в очередь для повторной доставки.
func ConsumerMessage(ctx context.Context, ch *amqp.Channel, queueName string,
	concurrency int, log *slog.Logger, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"

	if concurrency < 1 {
		concurrency = 1
	}

	delivery, err := ch.Consume(
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

	sem := make(chan struct{}, concurrency)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(delivery amqp.Delivery) {
					defer func() { <-sem }()
					if err := handler(delivery.Body); err != nil {
						if nackErr := delivery.Nack(false, true); nackErr != nil {
							log.Error("failed to nack message", sl.Err(nackErr))
						}
						return
					}
					if ackErr := delivery.Ack(false); ackErr != nil {
						log.Error("failed to ack message", sl.Err(ackErr))
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
