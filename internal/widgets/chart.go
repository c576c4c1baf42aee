package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/muurk/envdash/internal/api"
)

// Chart fields, matching the backend's JSON keys.
const (
	FieldTemperature = "temperature"
	FieldHumidity    = "humidity"
	FieldAirQuality  = "air_quality"
)

// TimeLabelLayout is the local-time format of chart x-axis labels.
const TimeLabelLayout = "15:04:05"

// NoCursor means no point is selected.
const NoCursor = -1

// yAxisWidth is room reserved for asciigraph's value labels.
const yAxisWidth = 10

// LineChart plots one field of the historical series.
type LineChart struct {
	Series []api.HistoricalPoint
	Field  string // FieldTemperature, FieldHumidity or FieldAirQuality
	Label  string // e.g. "Temperature (°C)"
	Color  asciigraph.AnsiColor
	Cursor int // index into Series, or NoCursor
}

// Value extracts the chart's field from a point.
func (c LineChart) Value(p api.HistoricalPoint) float64 {
	switch c.Field {
	case FieldHumidity:
		return p.Humidity
	case FieldAirQuality:
		return p.AirQuality
	default:
		return p.Temperature
	}
}

// FormatValue formats a value of the chart's field.
func (c LineChart) FormatValue(v float64) string {
	switch c.Field {
	case FieldHumidity:
		return FormatHumidity(v)
	case FieldAirQuality:
		return FormatAirQuality(v)
	default:
		return FormatTemperature(v)
	}
}

// SeriesColor is the title colour of a field's chart.
func SeriesColor(field string) lipgloss.Color {
	switch field {
	case FieldTemperature:
		return TemperatureColor
	case FieldHumidity:
		return HumidityColor
	case FieldAirQuality:
		return AirQualityColor
	}
	return PrimaryColor
}

// TimeLabels converts the series timestamps to local "15:04:05" labels.
func TimeLabels(series []api.HistoricalPoint) []string {
	labels := make([]string, len(series))
	for i, p := range series {
		labels[i] = p.Timestamp.Local().Format(TimeLabelLayout)
	}
	return labels
}

// Tooltip describes the point under the cursor, or "" when there is none.
func (c LineChart) Tooltip() string {
	if c.Cursor < 0 || c.Cursor >= len(c.Series) {
		return ""
	}
	p := c.Series[c.Cursor]
	return "▸ " + p.Timestamp.Local().Format(TimeLabelLayout) + "  " + c.FormatValue(c.Value(p))
}

// Render draws the chart in a card of the given total width; height is the
// number of plot rows.
func (c LineChart) Render(width, height int) string {
	inner := cardWidth(width)
	if height < 2 {
		height = 2
	}

	title := HeadingStyle.Foreground(SeriesColor(c.Field)).Render(c.Label)

	if len(c.Series) == 0 {
		placeholder := lipgloss.Place(inner, height, lipgloss.Center, lipgloss.Center,
			LabelStyle.Render("No data"))
		return CardStyle.Width(inner + CardStyle.GetHorizontalPadding()).
			Render(lipgloss.JoinVertical(lipgloss.Left, title, placeholder))
	}

	values := make([]float64, len(c.Series))
	for i, p := range c.Series {
		values[i] = c.Value(p)
	}
	if len(values) == 1 {
		// a single point still draws as a flat line
		values = append(values, values[0])
	}

	plotWidth := inner - yAxisWidth
	if plotWidth < 4 {
		plotWidth = 4
	}

	plot := asciigraph.Plot(values,
		asciigraph.Height(height),
		asciigraph.Width(plotWidth),
		asciigraph.Precision(1),
		asciigraph.SeriesColors(c.Color),
		asciigraph.AxisColor(asciigraph.Gray),
		asciigraph.LabelColor(asciigraph.Gray),
	)

	labels := TimeLabels(c.Series)
	axis := c.xAxis(labels, inner)

	lines := []string{title, plot, LabelStyle.Render(axis)}
	if tip := c.Tooltip(); tip != "" {
		lines = append(lines, ValueStyle.Render(tip))
	}

	return CardStyle.Width(inner + CardStyle.GetHorizontalPadding()).
		Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// xAxis lays the first and last time labels out across width.
func (c LineChart) xAxis(labels []string, width int) string {
	first := labels[0]
	last := labels[len(labels)-1]
	if len(labels) == 1 || first == last {
		return strings.Repeat(" ", yAxisWidth) + first
	}

	gap := width - yAxisWidth - len(first) - len(last)
	if gap < 1 {
		gap = 1
	}
	return strings.Repeat(" ", yAxisWidth) + first + strings.Repeat(" ", gap) + last
}
