package rabbitmq

// Exchange — общий direct-exchange для событий сервиса.
const Exchange = "notifications"

// WelcomeQueue и WelcomeRoutingKey описывают очередь приветственных писем.
const (
	WelcomeQueue      = "notifications.welcome"
	WelcomeRoutingKey = "welcome"
)

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, объявляемые при старте.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: WelcomeQueue, RoutingKey: WelcomeRoutingKey},
		// при необходимости дополнительные очереди для других воркеров
	}
}
