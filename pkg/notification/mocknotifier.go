package notification

import "sync"

// MockNotifier records notifications instead of sending them. Safe for
// concurrent use since notifications are dispatched from goroutines.
type MockNotifier struct {
	mu   sync.Mutex
	sent []NotificationData
}

func (m *MockNotifier) Send(notification NotificationData) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, notification)
	return nil
}

// Sent returns a copy of every recorded notification.
func (m *MockNotifier) Sent() []NotificationData {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]NotificationData, len(m.sent))
	copy(out, m.sent)
	return out
}
