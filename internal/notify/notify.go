package notify

import "github.com/brandpulse/content-orchestrator/internal/domain"

// NotificationType represents the type of notification
type NotificationType int

const (
	NotifyInfo NotificationType = iota
	NotifySuccess
	NotifyWarning
	NotifyError
)

// TypeFor maps a stored notification type to the outbound enum
func TypeFor(t domain.NotificationType) NotificationType {
	switch t {
	case domain.NotifySuccess:
		return NotifySuccess
	case domain.NotifyWarning:
		return NotifyWarning
	case domain.NotifyError:
		return NotifyError
	default:
		return NotifyInfo
	}
}

// Notification represents a notification to be sent
type Notification struct {
	Title     string
	Message   string
	Type      NotificationType
	Category  string // Content area that produced it, e.g. "news", "blog"
	JobID     int64  // Optional job reference
	ActionURL string // Optional follow-up link
}

// Notifier is the interface for sending notifications
type Notifier interface {
	Send(n Notification) error
}

// MultiNotifier sends to multiple notifiers
type MultiNotifier struct {
	notifiers []Notifier
}

// NewMultiNotifier creates a notifier that sends to all provided notifiers
func NewMultiNotifier(notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{notifiers: notifiers}
}

// Send sends the notification to all notifiers
func (m *MultiNotifier) Send(n Notification) error {
	var lastErr error
	for _, notifier := range m.notifiers {
		if err := notifier.Send(n); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// NoopNotifier does nothing (for testing or disabled notifications)
type NoopNotifier struct{}

func (NoopNotifier) Send(n Notification) error { return nil }
