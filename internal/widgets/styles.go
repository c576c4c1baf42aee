package widgets

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	PrimaryColor = lipgloss.Color("#2563EB") // Blue
	OKColor      = lipgloss.Color("#43BF6D") // Green
	WarningColor = lipgloss.Color("#FFA500") // Orange
	ErrorColor   = lipgloss.Color("#FF4D4D") // Red

	TextColor   = lipgloss.Color("#FFFFFF")
	SubtleColor = lipgloss.Color("#626262")
	BorderColor = lipgloss.Color("#3B82F6")

	// Chart series colours
	TemperatureColor = lipgloss.Color("#F87171")
	HumidityColor    = lipgloss.Color("#60A5FA")
	AirQualityColor  = lipgloss.Color("#4ADE80")
)

var (
	// Card is the bordered box every tile and panel sits in
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	ValueStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Bold(true)

	HeadingStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	OnStyle = lipgloss.NewStyle().
		Foreground(OKColor).
		Bold(true)

	OffStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)
)

// cardWidth returns the inner width for a card rendered at total width.
func cardWidth(width int) int {
	// 2 border + 2 padding
	w := width - CardStyle.GetHorizontalFrameSize()
	if w < 8 {
		w = 8
	}
	return w
}
