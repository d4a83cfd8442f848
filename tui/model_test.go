package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brandpulse/content-orchestrator/internal/domain"
)

type fakeSource struct {
	jobs          []*domain.Job
	notifications []*domain.Notification
	unread        int

	cancelled []int64
	markedAll bool
}

func (f *fakeSource) ListJobs(limit int) ([]*domain.Job, error) { return f.jobs, nil }
func (f *fakeSource) ListNotifications(limit int) ([]*domain.Notification, error) {
	return f.notifications, nil
}
func (f *fakeSource) UnreadNotificationCount() (int, error) { return f.unread, nil }
func (f *fakeSource) MarkAllNotificationsRead() error {
	f.markedAll = true
	return nil
}
func (f *fakeSource) CancelJob(id int64) error {
	f.cancelled = append(f.cancelled, id)
	return nil
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func refreshed(m Model, src *fakeSource) Model {
	m.applyRefresh(refreshMsg{
		jobs:          src.jobs,
		notifications: src.notifications,
		unread:        src.unread,
	})
	return m
}

func TestQuitKey(t *testing.T) {
	m := NewModel(&fakeSource{})

	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Error("q should quit")
	}
}

func TestTabCycles(t *testing.T) {
	m := NewModel(&fakeSource{})

	for i, want := range []int{1, 2, 0} {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = updated.(Model)
		if m.activeTab != want {
			t.Errorf("after %d tabs activeTab = %d, want %d", i+1, m.activeTab, want)
		}
	}
}

func TestSelectionStaysInBounds(t *testing.T) {
	src := &fakeSource{jobs: []*domain.Job{
		{ID: 1, Status: domain.JobRunning},
		{ID: 2, Status: domain.JobSuccess},
	}}
	m := refreshed(NewModel(src), src)
	m.activeTab = 1

	// Down past the end stays on the last row
	for i := 0; i < 5; i++ {
		updated, _ := m.Update(keyMsg("j"))
		m = updated.(Model)
	}
	if m.selectedRow != 1 {
		t.Errorf("selectedRow = %d after overshooting down, want 1", m.selectedRow)
	}

	// Up past the start stays on the first row
	for i := 0; i < 5; i++ {
		updated, _ := m.Update(keyMsg("k"))
		m = updated.(Model)
	}
	if m.selectedRow != 0 {
		t.Errorf("selectedRow = %d after overshooting up, want 0", m.selectedRow)
	}
}

func TestApplyRefreshCountsRunning(t *testing.T) {
	src := &fakeSource{
		jobs: []*domain.Job{
			{ID: 1, Status: domain.JobRunning},
			{ID: 2, Status: domain.JobQueued},
			{ID: 3, Status: domain.JobSuccess},
			{ID: 4, Status: domain.JobFailed},
		},
		unread: 3,
	}
	m := refreshed(NewModel(src), src)

	if m.runningCount != 2 {
		t.Errorf("runningCount = %d, want 2 (running + queued)", m.runningCount)
	}
	if m.unread != 3 {
		t.Errorf("unread = %d, want 3", m.unread)
	}
}

func TestCancelKeyOnJobsTab(t *testing.T) {
	src := &fakeSource{jobs: []*domain.Job{
		{ID: 7, Status: domain.JobRunning},
		{ID: 8, Status: domain.JobSuccess},
	}}
	m := refreshed(NewModel(src), src)
	m.activeTab = 1
	m.selectedRow = 0

	updated, _ := m.Update(keyMsg("c"))
	m = updated.(Model)

	if len(src.cancelled) != 1 || src.cancelled[0] != 7 {
		t.Errorf("cancelled = %v, want [7]", src.cancelled)
	}

	// Terminal job: cancel must be a no-op
	m.selectedRow = 1
	updated, _ = m.Update(keyMsg("c"))
	_ = updated
	if len(src.cancelled) != 1 {
		t.Errorf("cancelled = %v, terminal job should not be cancellable", src.cancelled)
	}
}

func TestMarkAllReadKey(t *testing.T) {
	src := &fakeSource{unread: 2}
	m := refreshed(NewModel(src), src)
	m.activeTab = 2

	m.Update(keyMsg("a"))
	if !src.markedAll {
		t.Error("a on notifications tab should mark everything read")
	}

	src.markedAll = false
	m.activeTab = 0
	m.Update(keyMsg("a"))
	if src.markedAll {
		t.Error("a outside the notifications tab should do nothing")
	}
}

func TestViewBeforeFirstResize(t *testing.T) {
	m := NewModel(&fakeSource{})
	if m.View() != "Loading..." {
		t.Errorf("View() = %q before size is known", m.View())
	}
}

func TestViewRendersJobs(t *testing.T) {
	started := time.Now().Add(-time.Minute)
	src := &fakeSource{jobs: []*domain.Job{
		{ID: 12, AgentType: domain.AgentResearcher, Status: domain.JobRunning,
			Progress: 40, Message: "Fetching news...", StartedAt: &started},
	}}
	m := refreshed(NewModel(src), src)
	m.width = 120
	m.height = 40
	m.activeTab = 1

	out := m.View()
	if !strings.Contains(out, "#12") {
		t.Error("view missing job id")
	}
	if !strings.Contains(out, "researcher") {
		t.Error("view missing agent type")
	}
	if !strings.Contains(out, "40%") {
		t.Error("view missing progress")
	}
}

func TestViewRendersNotifications(t *testing.T) {
	src := &fakeSource{
		notifications: []*domain.Notification{
			{ID: 1, Type: domain.NotifySuccess, Title: "Blog draft ready", CreatedAt: time.Now()},
		},
		unread: 1,
	}
	m := refreshed(NewModel(src), src)
	m.width = 120
	m.height = 40
	m.activeTab = 2

	out := m.View()
	if !strings.Contains(out, "Blog draft ready") {
		t.Error("view missing notification title")
	}
	if !strings.Contains(out, "1 unread") {
		t.Error("view missing unread count")
	}
}

func TestTruncateLine(t *testing.T) {
	if got := truncateLine("short", 10); got != "short" {
		t.Errorf("truncateLine(short) = %q", got)
	}
	got := truncateLine("a very long message indeed", 10)
	if len([]rune(got)) > 10 {
		t.Errorf("truncateLine produced %d runes, want <= 10", len([]rune(got)))
	}
}
