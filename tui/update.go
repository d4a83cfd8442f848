package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/brandpulse/content-orchestrator/internal/domain"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.refreshCmd()
		case "j", "down":
			if m.selectedRow < m.rowCount()-1 {
				m.selectedRow++
			}
		case "k", "up":
			if m.selectedRow > 0 {
				m.selectedRow--
			}
		case "tab":
			m.activeTab = (m.activeTab + 1) % 3
			m.selectedRow = 0
		case "c":
			// Cancel the selected job (jobs tab only)
			if m.activeTab == 1 && m.selectedRow < len(m.jobs) {
				job := m.jobs[m.selectedRow]
				if !job.Status.Terminal() && m.source != nil {
					if err := m.source.CancelJob(job.ID); err != nil {
						m.statusMsg = "Cancel failed: " + err.Error()
					} else {
						m.statusMsg = "Cancel requested"
					}
					return m, m.refreshCmd()
				}
			}
		case "a":
			// Mark all notifications read (notifications tab only)
			if m.activeTab == 2 && m.source != nil {
				if err := m.source.MarkAllNotificationsRead(); err != nil {
					m.statusMsg = "Mark read failed: " + err.Error()
				}
				return m, m.refreshCmd()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case TickMsg:
		return m, tea.Batch(m.refreshCmd(), tickCmd())

	case refreshMsg:
		if msg.err != nil {
			m.statusMsg = "Refresh failed: " + msg.err.Error()
			return m, nil
		}
		m.applyRefresh(msg)
		return m, nil
	}

	return m, nil
}

func (m *Model) applyRefresh(msg refreshMsg) {
	m.jobs = msg.jobs
	m.notifications = msg.notifications
	m.unread = msg.unread

	m.runningCount = 0
	for _, j := range m.jobs {
		if j.Status == domain.JobRunning || j.Status == domain.JobQueued {
			m.runningCount++
		}
	}

	if max := m.rowCount(); m.selectedRow >= max && max > 0 {
		m.selectedRow = max - 1
	}
}

// rowCount returns the number of selectable rows on the active tab
func (m Model) rowCount() int {
	switch m.activeTab {
	case 1:
		return len(m.jobs)
	case 2:
		return len(m.notifications)
	}
	return 0
}

// SetJobs updates the jobs list
func (m *Model) SetJobs(jobs []*domain.Job) {
	m.applyRefresh(refreshMsg{jobs: jobs, notifications: m.notifications, unread: m.unread})
}

// SetNotifications updates the notifications list
func (m *Model) SetNotifications(notifications []*domain.Notification, unread int) {
	m.applyRefresh(refreshMsg{jobs: m.jobs, notifications: notifications, unread: unread})
}
