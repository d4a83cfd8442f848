package store

import (
	"testing"

	"github.com/brandpulse/content-orchestrator/internal/domain"
)

func TestStore_CreateAndListNotifications(t *testing.T) {
	store := newTestStore(t)

	jobID, _ := store.CreateJob(domain.AgentResearcher)
	_, err := store.CreateNotification(&domain.Notification{
		Type:         domain.NotifySuccess,
		Category:     "news",
		Title:        "News fetch complete",
		Message:      "2 new articles added",
		RelatedJobID: &jobID,
	})
	if err != nil {
		t.Fatal(err)
	}
	_, err = store.CreateNotification(&domain.Notification{
		Type:     domain.NotifyWarning,
		Category: "blog",
		Title:    "Not enough articles",
	})
	if err != nil {
		t.Fatal(err)
	}

	notifications, err := store.ListNotifications(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(notifications) != 2 {
		t.Fatalf("Notification count = %d, want 2", len(notifications))
	}

	// Newest first
	if notifications[0].Title != "Not enough articles" {
		t.Errorf("first Title = %q, want newest", notifications[0].Title)
	}
	if notifications[1].RelatedJobID == nil || *notifications[1].RelatedJobID != jobID {
		t.Errorf("RelatedJobID = %v, want %d", notifications[1].RelatedJobID, jobID)
	}
}

func TestStore_MarkNotificationRead(t *testing.T) {
	store := newTestStore(t)

	first, _ := store.CreateNotification(&domain.Notification{Type: domain.NotifyInfo, Title: "a"})
	store.CreateNotification(&domain.Notification{Type: domain.NotifyInfo, Title: "b"})

	if err := store.MarkNotificationRead(first); err != nil {
		t.Fatal(err)
	}

	count, err := store.UnreadNotificationCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("UnreadNotificationCount = %d, want 1", count)
	}

	notifications, _ := store.ListNotifications(10)
	for _, n := range notifications {
		if n.ID == first && !n.IsRead {
			t.Error("marked notification still unread")
		}
		if n.ID != first && n.IsRead {
			t.Errorf("notification %d read, only %d was marked", n.ID, first)
		}
	}
}

func TestStore_MarkAllNotificationsRead(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 3; i++ {
		store.CreateNotification(&domain.Notification{Type: domain.NotifyInfo, Title: "n"})
	}

	if err := store.MarkAllNotificationsRead(); err != nil {
		t.Fatal(err)
	}

	count, _ := store.UnreadNotificationCount()
	if count != 0 {
		t.Errorf("UnreadNotificationCount = %d, want 0", count)
	}

	notifications, _ := store.ListNotifications(10)
	for _, n := range notifications {
		if !n.IsRead {
			t.Errorf("notification %d still unread after MarkAllNotificationsRead", n.ID)
		}
	}
}
