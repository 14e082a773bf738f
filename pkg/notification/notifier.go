package notification

// NotificationData carries one outbound message.
type NotificationData struct {
	To      string // Recipient address
	Subject string
	Body    string
}

// Notifier sends a notification over a single channel. Implementations are
// interchangeable; the admin console ships an SMTP notifier and a mock for
// tests.
type Notifier interface {
	Send(notification NotificationData) error
}
