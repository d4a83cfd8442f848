package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/brandpulse/content-orchestrator/internal/domain"
)

var (
	headerStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("255")).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	runningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	failedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	dimmedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("238")).
			Foreground(lipgloss.Color("255"))

	tabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			Underline(true)

	tabInactiveStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("244"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("255"))
)

var tabNames = []string{"Dashboard", "Jobs", "Notifications"}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	header := fmt.Sprintf(" Content Orchestrator │ Active: %d │ Jobs: %d │ Unread: %d ",
		m.runningCount, len(m.jobs), m.unread)
	b.WriteString(headerStyle.Width(m.width).Render(header))
	b.WriteString("\n")

	b.WriteString(m.renderTabs())
	b.WriteString("\n")

	switch m.activeTab {
	case 0:
		b.WriteString(sectionStyle.Width(m.width - 2).Render(m.renderRunning()))
		b.WriteString("\n")
		b.WriteString(sectionStyle.Width(m.width - 2).Render(m.renderRecentNotifications(5)))
		b.WriteString("\n")
	case 1:
		b.WriteString(sectionStyle.Width(m.width - 2).Render(m.renderJobs()))
		b.WriteString("\n")
	case 2:
		b.WriteString(sectionStyle.Width(m.width - 2).Render(m.renderNotifications()))
		b.WriteString("\n")
	}

	if m.statusMsg != "" {
		b.WriteString(statusBarStyle.Width(m.width).Render(" " + m.statusMsg + " "))
		b.WriteString("\n")
	}

	help := " q quit │ tab switch │ j/k move │ r refresh │ c cancel job │ a mark all read "
	b.WriteString(dimmedStyle.Render(help))

	return b.String()
}

func (m Model) renderTabs() string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		if i == m.activeTab {
			parts[i] = tabActiveStyle.Render(name)
		} else {
			parts[i] = tabInactiveStyle.Render(name)
		}
	}
	return " " + strings.Join(parts, "  ")
}

func (m Model) renderRunning() string {
	var b strings.Builder
	b.WriteString("Running Agents\n")

	count := 0
	for _, j := range m.jobs {
		if j.Status != domain.JobRunning && j.Status != domain.JobQueued {
			continue
		}
		count++
		line := fmt.Sprintf("  #%d %-12s %3d%%  %s", j.ID, j.AgentType, j.Progress, j.Message)
		b.WriteString(runningStyle.Render(line))
		b.WriteString("\n")
	}

	if count == 0 {
		b.WriteString(dimmedStyle.Render("  No agents running"))
	}
	return b.String()
}

func (m Model) renderJobs() string {
	var b strings.Builder
	b.WriteString("Jobs\n")

	if len(m.jobs) == 0 {
		b.WriteString(dimmedStyle.Render("  No jobs yet"))
		return b.String()
	}

	for i, j := range m.jobs {
		line := fmt.Sprintf("  #%-4d %-12s %-10s %3d%%  %-30s %s",
			j.ID, j.AgentType, j.Status, j.Progress,
			truncateLine(j.Message, 30), jobAge(j))

		style := styleForStatus(j.Status)
		if i == m.selectedRow {
			style = selectedStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderNotifications() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Notifications (%d unread)\n", m.unread))

	if len(m.notifications) == 0 {
		b.WriteString(dimmedStyle.Render("  Nothing here"))
		return b.String()
	}

	for i, n := range m.notifications {
		marker := " "
		if !n.IsRead {
			marker = "●"
		}
		line := fmt.Sprintf("  %s %-8s %-30s %s",
			marker, n.Type, truncateLine(n.Title, 30), humanize.Time(n.CreatedAt))

		style := styleForNotification(n)
		if i == m.selectedRow {
			style = selectedStyle
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderRecentNotifications(limit int) string {
	var b strings.Builder
	b.WriteString("Recent Notifications\n")

	shown := 0
	for _, n := range m.notifications {
		if shown >= limit {
			break
		}
		shown++
		line := fmt.Sprintf("  %-8s %-40s %s", n.Type, truncateLine(n.Title, 40), humanize.Time(n.CreatedAt))
		b.WriteString(styleForNotification(n).Render(line))
		b.WriteString("\n")
	}

	if shown == 0 {
		b.WriteString(dimmedStyle.Render("  Nothing here"))
	}
	return b.String()
}

func styleForStatus(status domain.JobStatus) lipgloss.Style {
	switch status {
	case domain.JobRunning, domain.JobSuccess:
		return runningStyle
	case domain.JobFailed:
		return failedStyle
	case domain.JobCancelled:
		return dimmedStyle
	}
	return dimmedStyle
}

func styleForNotification(n *domain.Notification) lipgloss.Style {
	switch n.Type {
	case domain.NotifyError:
		return failedStyle
	case domain.NotifyWarning:
		return warningStyle
	}
	if n.IsRead {
		return dimmedStyle
	}
	return lipgloss.NewStyle()
}

func jobAge(j *domain.Job) string {
	if j.FinishedAt != nil {
		return "done " + humanize.Time(*j.FinishedAt)
	}
	if j.StartedAt != nil {
		return "for " + time.Since(*j.StartedAt).Round(time.Second).String()
	}
	return humanize.Time(j.CreatedAt)
}

func truncateLine(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-1] + "…"
}
