package models

// UserRegisteredEvent публикуется в очередь после успешной регистрации.
// Воркер notification-sender использует его для отправки приветственного письма.
type UserRegisteredEvent struct {
	UID   string `json:"uid"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
