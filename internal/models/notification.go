package models

// ResetEmailTask — сообщение для очереди отправки писем сброса пароля.
// Публикуется HTTP-сервисом, потребляется воркером notification-sender.
type ResetEmailTask struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	ResetToken string `json:"reset_token"`
}
