package store

import (
	"database/sql"

	"github.com/brandpulse/content-orchestrator/internal/domain"
)

// CreateNotification inserts a notification row and returns its id
func (s *Store) CreateNotification(n *domain.Notification) (int64, error) {
	var jobID any
	if n.RelatedJobID != nil {
		jobID = *n.RelatedJobID
	}

	res, err := s.db.Exec(`
		INSERT INTO notifications (type, category, title, message, action_text, action_url, related_job_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, string(n.Type), n.Category, n.Title, n.Message, n.ActionText, n.ActionURL, jobID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListNotifications returns the most recent notifications, newest first
func (s *Store) ListNotifications(limit int) ([]*domain.Notification, error) {
	rows, err := s.db.Query(`
		SELECT id, type, category, title, message, action_text, action_url, related_job_id, is_read, created_at
		FROM notifications ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		var typ string
		var jobID sql.NullInt64

		err := rows.Scan(&n.ID, &typ, &n.Category, &n.Title, &n.Message,
			&n.ActionText, &n.ActionURL, &jobID, &n.IsRead, &n.CreatedAt)
		if err != nil {
			return nil, err
		}

		n.Type = domain.NotificationType(typ)
		if jobID.Valid {
			id := jobID.Int64
			n.RelatedJobID = &id
		}
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

// UnreadNotificationCount returns the number of unread notifications
func (s *Store) UnreadNotificationCount() (int, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM notifications WHERE is_read = FALSE`).Scan(&count)
	return count, err
}

// MarkNotificationRead flips a single notification to read. The flag is
// never reversed.
func (s *Store) MarkNotificationRead(id int64) error {
	_, err := s.db.Exec(`UPDATE notifications SET is_read = TRUE WHERE id = ?`, id)
	return err
}

// MarkAllNotificationsRead flips every notification to read
func (s *Store) MarkAllNotificationsRead() error {
	_, err := s.db.Exec(`UPDATE notifications SET is_read = TRUE WHERE is_read = FALSE`)
	return err
}
