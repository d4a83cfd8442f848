package notify

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// DesktopNotifier shows notifications on the operator's desktop so finished
// agent runs are visible without watching the dashboard
type DesktopNotifier struct {
	enabled bool
}

// NewDesktopNotifier creates a new desktop notifier
func NewDesktopNotifier(enabled bool) *DesktopNotifier {
	return &DesktopNotifier{enabled: enabled}
}

// Send shows a desktop notification
func (d *DesktopNotifier) Send(n Notification) error {
	if !d.enabled {
		return nil
	}

	switch runtime.GOOS {
	case "darwin":
		return d.sendMacOS(n)
	case "linux":
		return d.sendLinux(n)
	default:
		return nil // Unsupported
	}
}

// desktopBody carries the job reference so the operator knows which job to
// look up in the dashboard
func desktopBody(n Notification) string {
	if n.JobID > 0 {
		return fmt.Sprintf("%s (job #%d)", n.Message, n.JobID)
	}
	return n.Message
}

func (d *DesktopNotifier) sendMacOS(n Notification) error {
	script := fmt.Sprintf(`display notification "%s" with title "%s"`,
		escapeOSA(desktopBody(n)), escapeOSA(n.Title))
	if n.Category != "" {
		script += fmt.Sprintf(` subtitle "%s"`, escapeOSA(n.Category))
	}
	cmd := exec.Command("osascript", "-e", script)
	return cmd.Run()
}

func (d *DesktopNotifier) sendLinux(n Notification) error {
	// Try notify-send (most common)
	args := []string{"-i", IconForType(n.Type)}
	if n.Type == NotifyError {
		args = append(args, "-u", "critical")
	}
	args = append(args, n.Title, desktopBody(n))
	cmd := exec.Command("notify-send", args...)
	return cmd.Run()
}

// escapeOSA escapes text for interpolation into an AppleScript string
// literal. Error notifications carry raw LLM and API error text, which can
// contain quotes.
func escapeOSA(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}

// IconForType returns an icon name for the notification type
func IconForType(t NotificationType) string {
	switch t {
	case NotifySuccess:
		return "dialog-positive"
	case NotifyWarning:
		return "dialog-warning"
	case NotifyError:
		return "dialog-error"
	default:
		return "dialog-information"
	}
}
