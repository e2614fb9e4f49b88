package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/waveformhq/wavetray/internal/channel"
	"github.com/waveformhq/wavetray/internal/domain"
	"github.com/waveformhq/wavetray/internal/toast"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("161")).
			Padding(0, 1)

	stateConnectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
	stateConnectingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
	stateDisconnectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	selectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("236")).
				Foreground(lipgloss.Color("15"))

	unreadTitleStyle = lipgloss.NewStyle().Bold(true)
	readRowStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	timestampStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

	emptyStyle = lipgloss.NewStyle().
			Faint(true).
			Padding(1, 2)

	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	toastBaseStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	toastBorderColors = map[toast.Severity]lipgloss.Color{
		toast.SeveritySuccess: lipgloss.Color("35"),
		toast.SeverityError:   lipgloss.Color("161"),
		toast.SeverityWarning: lipgloss.Color("178"),
		toast.SeverityInfo:    lipgloss.Color("75"),
	}
)

// renderHeader renders the title bar with unread badge and connection state.
func renderHeader(unread int, state channel.State, spinnerView string) string {
	parts := []string{headerStyle.Render("Waveform")}
	if unread > 0 {
		parts = append(parts, badgeStyle.Render(fmt.Sprintf("%d unread", unread)))
	}
	parts = append(parts, renderConnState(state, spinnerView))
	return lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(parts, " "))
}

func renderConnState(state channel.State, spinnerView string) string {
	switch state {
	case channel.StateConnected:
		return stateConnectedStyle.Render("● live")
	case channel.StateConnecting:
		return stateConnectingStyle.Render(spinnerView + " connecting")
	default:
		return stateDisconnectedStyle.Render("○ offline")
	}
}

// renderRow renders one notification line.
func renderRow(n domain.Notification, selected bool, now time.Time, width int) string {
	marker := " "
	if n.Status == domain.StatusUnread {
		marker = "●"
	}
	line := fmt.Sprintf("%s %s %s  %s",
		marker, n.Category.Icon(), truncate(n.Title, titleWidth(width)),
		timestampStyle.Render(relTime(now, n.CreatedAt)))

	switch {
	case selected:
		return selectedRowStyle.Render(line)
	case n.Status == domain.StatusUnread:
		return unreadTitleStyle.Render(line)
	default:
		return readRowStyle.Render(line)
	}
}

func titleWidth(width int) int {
	w := width - 28
	if w < 16 {
		w = 16
	}
	return w
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width < 3 {
		return s[:width]
	}
	return s[:width-3] + "..."
}

// relTime renders a compact relative timestamp for list rows.
func relTime(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	default:
		return t.Format("2006-01-02")
	}
}

// renderToasts renders active toasts as stacked boxes, newest last.
func renderToasts(toasts []toast.Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}
	boxes := make([]string, 0, len(toasts))
	for _, t := range toasts {
		color, ok := toastBorderColors[t.Severity]
		if !ok {
			color = toastBorderColors[toast.SeverityInfo]
		}
		body := t.Message
		if t.Title != "" {
			body = unreadTitleStyle.Render(t.Title) + "\n" + t.Message
		}
		boxes = append(boxes, toastBaseStyle.
			BorderForeground(color).
			MaxWidth(width).
			Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Left, boxes...)
}
