package rabbitmq

// QueueConfig описывает очередь и её ключ маршрутизации в обменнике уведомлений.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди уведомлений об истекающих абонементах.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: ExpiringQueue, RoutingKey: ExpiringRoutingKey},
	}
}
