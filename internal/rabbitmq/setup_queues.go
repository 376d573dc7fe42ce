package rabbitmq

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

const (
	// PasswordResetQueue — очередь задач на отправку писем сброса пароля.
	PasswordResetQueue = "notification.password-reset"
	// PasswordResetRoutingKey — ключ маршрутизации для писем сброса пароля.
	PasswordResetRoutingKey = "password-reset"
)

// GetNotificationQueues возвращает конфигурацию очередей уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: PasswordResetQueue, RoutingKey: PasswordResetRoutingKey},
	}
}
