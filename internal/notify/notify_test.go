package notify

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/brandpulse/content-orchestrator/internal/domain"
)

type recordingNotifier struct {
	sent []Notification
	err  error
}

func (r *recordingNotifier) Send(n Notification) error {
	r.sent = append(r.sent, n)
	return r.err
}

func TestMultiNotifier_SendsToAll(t *testing.T) {
	a := &recordingNotifier{}
	b := &recordingNotifier{}

	multi := NewMultiNotifier(a, b)
	if err := multi.Send(Notification{Title: "Done"}); err != nil {
		t.Fatal(err)
	}

	if len(a.sent) != 1 || len(b.sent) != 1 {
		t.Errorf("Sent counts = %d, %d, want 1 each", len(a.sent), len(b.sent))
	}
}

func TestTypeFor(t *testing.T) {
	cases := []struct {
		in   domain.NotificationType
		want NotificationType
	}{
		{domain.NotifySuccess, NotifySuccess},
		{domain.NotifyWarning, NotifyWarning},
		{domain.NotifyError, NotifyError},
		{domain.NotifyInfo, NotifyInfo},
	}

	for _, c := range cases {
		if got := TypeFor(c.in); got != c.want {
			t.Errorf("TypeFor(%s) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestSlackColor(t *testing.T) {
	if SlackColor(NotifySuccess) != "good" {
		t.Errorf("SlackColor(success) = %q, want good", SlackColor(NotifySuccess))
	}
	if SlackColor(NotifyError) != "danger" {
		t.Errorf("SlackColor(error) = %q, want danger", SlackColor(NotifyError))
	}
}

func TestSlackNotifier_Send(t *testing.T) {
	var received SlackMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewSlackNotifier(server.URL)
	err := notifier.Send(Notification{
		Title:   "News fetch complete",
		Message: "2 new articles added",
		Type:    NotifySuccess,
		JobID:   7,
	})
	if err != nil {
		t.Fatal(err)
	}

	if received.Text != "News fetch complete" {
		t.Errorf("Text = %q, want title", received.Text)
	}
	if len(received.Attachments) != 1 {
		t.Fatalf("Attachments = %d, want 1", len(received.Attachments))
	}
	if received.Attachments[0].Title != "Job #7" {
		t.Errorf("attachment Title = %q, want Job #7", received.Attachments[0].Title)
	}
}

func TestSlackNotifier_CategoryInFooter(t *testing.T) {
	var received SlackMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewSlackNotifier(server.URL)
	err := notifier.Send(Notification{
		Title:     "Blog draft ready",
		Message:   "Weekly digest",
		Type:      NotifySuccess,
		Category:  "blog",
		JobID:     3,
		ActionURL: "https://example.com/blogs/1",
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := received.Attachments[0].Footer; !strings.Contains(got, "blog") {
		t.Errorf("Footer = %q, want category included", got)
	}
	if got := received.Attachments[0].TitleLink; got != "https://example.com/blogs/1" {
		t.Errorf("TitleLink = %q, want action URL", got)
	}
}

func TestEscapeOSA(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{`plain text`, `plain text`},
		{`said "hello"`, `said \"hello\"`},
		{`path\to\file`, `path\\to\\file`},
		{`mix "a\b"`, `mix \"a\\b\"`},
	}

	for _, c := range cases {
		if got := escapeOSA(c.in); got != c.want {
			t.Errorf("escapeOSA(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDesktopBody(t *testing.T) {
	withJob := desktopBody(Notification{Message: "2 new articles", JobID: 9})
	if withJob != "2 new articles (job #9)" {
		t.Errorf("desktopBody = %q, want job reference appended", withJob)
	}

	withoutJob := desktopBody(Notification{Message: "2 new articles"})
	if withoutJob != "2 new articles" {
		t.Errorf("desktopBody = %q, want message unchanged", withoutJob)
	}
}

func TestSlackNotifier_DisabledWithoutURL(t *testing.T) {
	notifier := NewSlackNotifier("")
	if err := notifier.Send(Notification{Title: "ignored"}); err != nil {
		t.Errorf("Send with empty webhook = %v, want nil", err)
	}
}
