package widgets

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/envdash/internal/comfort"
)

// AlertMessage is the note shown under every alert.
const AlertMessage = "The system is automatically adjusting your environment for optimal comfort."

// AlertModal is the comfort alert dialog. It never closes itself: closing
// is the caller's decision, signalled through OnDismiss.
type AlertModal struct {
	Status    comfort.Status
	OnDismiss func()
}

// closeKeys are the keys that explicitly close the modal.
var closeKeys = map[string]bool{
	"enter": true,
	"esc":   true,
	"x":     true,
}

// HandleKey calls OnDismiss for an explicit close key and reports whether
// the key was consumed.
func (m AlertModal) HandleKey(key string) bool {
	if !closeKeys[key] {
		return false
	}
	if m.OnDismiss != nil {
		m.OnDismiss()
	}
	return true
}

// Render draws the modal box. Width is the total box width.
func (m AlertModal) Render(width int) string {
	color := LevelColor(m.Status.Level)
	inner := width - 6 // border + padding(2)
	if inner < 20 {
		inner = 20
	}

	title := lipgloss.NewStyle().Foreground(ErrorColor).Bold(true).Render("⚠ Environment Alert")

	body := []string{
		lipgloss.NewStyle().Foreground(color).Bold(true).Width(inner).
			Render(m.Status.Level.Title() + " Environment Detected"),
	}
	if len(m.Status.Reasons) > 0 {
		body = append(body, lipgloss.NewStyle().Foreground(color).Width(inner).
			Render("Issues detected: "+m.Status.ReasonsText()))
	}

	note := LabelStyle.Width(inner).Render(AlertMessage)
	button := lipgloss.NewStyle().
		Foreground(TextColor).
		Background(PrimaryColor).
		Padding(0, 2).
		Render("Got it [enter]")
	hint := LabelStyle.Render("  x / esc to close")

	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		lipgloss.JoinVertical(lipgloss.Left, body...),
		"",
		note,
		"",
		lipgloss.JoinHorizontal(lipgloss.Top, button, hint),
	)

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(color).
		Padding(1, 2).
		Width(inner + 4).
		Render(content)
}
