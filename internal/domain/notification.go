package domain

import "time"

// NotificationType represents the severity of a notification
type NotificationType string

const (
	NotifySuccess NotificationType = "success"
	NotifyError   NotificationType = "error"
	NotifyInfo    NotificationType = "info"
	NotifyWarning NotificationType = "warning"
)

// Notification is a user-facing event record. Once created it is immutable
// except for IsRead flipping false->true.
type Notification struct {
	ID           int64
	Type         NotificationType
	Category     string // free text, e.g. "news", "blog"
	Title        string
	Message      string
	ActionText   string
	ActionURL    string
	RelatedJobID *int64
	IsRead       bool
	CreatedAt    time.Time
}
