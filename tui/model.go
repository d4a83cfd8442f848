package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brandpulse/content-orchestrator/internal/domain"
)

// Source provides the data the monitor polls
type Source interface {
	ListJobs(limit int) ([]*domain.Job, error)
	ListNotifications(limit int) ([]*domain.Notification, error)
	UnreadNotificationCount() (int, error)
	MarkAllNotificationsRead() error
	CancelJob(id int64) error
}

// Model is the TUI application model
type Model struct {
	source Source

	// Data
	jobs          []*domain.Job
	notifications []*domain.Notification
	unread        int

	// Stats
	runningCount int

	// UI state
	width       int
	height      int
	activeTab   int
	selectedRow int
	statusMsg   string

	// Refresh
	lastRefresh time.Time
}

// NewModel creates a new TUI model
func NewModel(source Source) Model {
	return Model{
		source:    source,
		activeTab: 0,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.refreshCmd(),
		tickCmd(),
	)
}

// TickMsg triggers a refresh
type TickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// refreshMsg carries freshly loaded data
type refreshMsg struct {
	jobs          []*domain.Job
	notifications []*domain.Notification
	unread        int
	err           error
}

func (m Model) refreshCmd() tea.Cmd {
	source := m.source
	return func() tea.Msg {
		var msg refreshMsg
		if source == nil {
			return msg
		}
		if msg.jobs, msg.err = source.ListJobs(50); msg.err != nil {
			return msg
		}
		if msg.notifications, msg.err = source.ListNotifications(50); msg.err != nil {
			return msg
		}
		msg.unread, msg.err = source.UnreadNotificationCount()
		return msg
	}
}
