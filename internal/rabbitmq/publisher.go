package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/gym-membership/internal/models"
)

// Топология уведомлений: один direct-обменник, очередь на каждого воркера.
const (
	NotificationsExchange = "notifications"
	ExpiringQueue         = "notification.expiring"
	ExpiringRoutingKey    = "expiring"
)

// PublishExpiringMembership публикует уведомление об истекающем абонементе
// в обменник уведомлений. Сообщение сериализуется в JSON и помечается
// персистентным, чтобы пережить перезапуск брокера.
func PublishExpiringMembership(ch *amqp.Channel, item *models.ExpiringMembership) error {
	const op = "rabbitmq.PublishExpiringMembership"

	body, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		NotificationsExchange,
		ExpiringRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
