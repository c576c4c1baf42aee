package widgets

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/envdash/internal/api"
	"github.com/muurk/envdash/internal/comfort"
)

// ValueTile shows one current reading and its prediction.
type ValueTile struct {
	Label      string
	Value      string // already formatted, e.g. "23.5°C"
	Icon       Icon
	Prediction string // already formatted; empty hides the line
}

// Render draws the tile at the given total width.
func (t ValueTile) Render(width int) string {
	inner := cardWidth(width)

	header := LabelStyle.Render(t.Icon.Glyph() + " " + t.Label)
	value := ValueStyle.Render(t.Value)

	lines := []string{header, value}
	if t.Prediction != "" {
		lines = append(lines, LabelStyle.Render("Predicted: "+t.Prediction))
	}

	return CardStyle.Width(inner + CardStyle.GetHorizontalPadding()).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// DeviceTile shows one simulated device and its state.
type DeviceTile struct {
	Name   string
	Status string // api.DeviceOn, api.DeviceOff, or whatever the backend sent
	Icon   Icon
}

// IsOn reports whether the device state is exactly api.DeviceOn.
func (d DeviceTile) IsOn() bool {
	return d.Status == api.DeviceOn
}

// Render draws the tile at the given total width, status right-aligned.
func (d DeviceTile) Render(width int) string {
	inner := cardWidth(width)

	name := ValueStyle.Render(d.Icon.Glyph() + " " + d.Name)

	statusStyle := OffStyle
	if d.IsOn() {
		statusStyle = OnStyle
	}
	status := statusStyle.Render(d.Status)

	gap := inner - lipgloss.Width(name) - lipgloss.Width(status)
	if gap < 1 {
		gap = 1
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, name, lipgloss.NewStyle().Width(gap).Render(""), status)

	return CardStyle.Width(inner + CardStyle.GetHorizontalPadding()).Render(row)
}

// LevelColor returns the colour for a comfort level: green, yellow, red.
func LevelColor(level comfort.Level) lipgloss.Color {
	switch level.Severity() {
	case comfort.SeverityOK:
		return OKColor
	case comfort.SeverityWarning:
		return WarningColor
	default:
		return ErrorColor
	}
}

// ComfortPanel renders the comfort status section.
func ComfortPanel(status comfort.Status, width int) string {
	inner := cardWidth(width)
	color := LevelColor(status.Level)

	lines := []string{
		HeadingStyle.Render("Comfort Status"),
		lipgloss.NewStyle().Foreground(color).Bold(true).Render(status.Level.Title()),
	}
	if len(status.Reasons) > 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(color).Width(inner).
			Render("Reasons: "+status.ReasonsText()))
	}

	return CardStyle.BorderForeground(color).
		Width(inner + CardStyle.GetHorizontalPadding()).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
