package ui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/muurk/envdash/internal/api"
	"github.com/muurk/envdash/internal/comfort"
	"github.com/muurk/envdash/internal/widgets"
)

// Format selects how a report is printed.
type Format string

const (
	FormatDetailed Format = "detailed"
	FormatCompact  Format = "compact"
	FormatJSON     Format = "json"
)

// TimestampLayout is used for absolute times in reports.
const TimestampLayout = "2006-01-02 15:04:05"

// reportChartHeight is the number of plot rows of history charts
const reportChartHeight = 6

// ParseFormat validates a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatDetailed, FormatCompact, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unknown format %q (expected detailed, compact or json)", s)
}

func renderJSON(v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return string(data), nil
}

// formatTime renders t in local time, or "-" when unset.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(TimestampLayout)
}

func section(title string, details ...Detail) string {
	lines := []string{SectionTitleStyle.Render(title)}
	for _, d := range details {
		lines = append(lines, renderDetail(d))
	}
	return strings.Join(lines, "\n")
}

func levelText(level string, reasons []string) string {
	status := comfort.NewStatus(level, reasons)
	text := lipgloss.NewStyle().Foreground(widgets.LevelColor(status.Level)).Bold(true).Render(status.Level.Title())
	if len(status.Reasons) > 0 {
		text += " (" + status.ReasonsText() + ")"
	}
	return text
}

func readingDetails(temp, humidity, air float64) []Detail {
	return []Detail{
		{Key: "Temperature", Value: widgets.FormatTemperature(temp)},
		{Key: "Humidity", Value: widgets.FormatHumidity(humidity)},
		{Key: "Air Quality", Value: widgets.FormatAirQuality(air)},
	}
}

func readingLine(temp, humidity, air float64) string {
	return widgets.FormatTemperature(temp) + "  " + widgets.FormatHumidity(humidity) + "  " + widgets.FormatAirQuality(air)
}

func devicesLine(ac, purifier, dehumidifier string) string {
	return "AC " + ac + "  Purifier " + purifier + "  Dehumidifier " + dehumidifier
}

func deviceDetails(ac, purifier, dehumidifier string) []Detail {
	return []Detail{
		{Key: "Air Conditioner", Value: ac},
		{Key: "Air Purifier", Value: purifier},
		{Key: "Dehumidifier", Value: dehumidifier},
	}
}

// RenderLatest formats GET /api/latest-data.
func RenderLatest(d *api.LatestData, f Format, width int) (string, error) {
	switch f {
	case FormatJSON:
		return renderJSON(d)
	case FormatCompact:
		return fmt.Sprintf("%s  %s  %s  [%s]",
			formatTime(d.Timestamp.Time),
			readingLine(d.Temperature, d.Humidity, d.AirQuality),
			comfort.NewStatus(d.ComfortLevel, d.ComfortReasons).Level,
			devicesLine(d.ACState, d.PurifierState, d.DehumidifierState),
		), nil
	}

	reading := append(readingDetails(d.Temperature, d.Humidity, d.AirQuality),
		Detail{Key: "Measured", Value: formatTime(d.Timestamp.Time)})

	return strings.Join([]string{
		section("Current Reading", reading...),
		"",
		section("Prediction", readingDetails(d.TemperaturePred, d.HumidityPred, d.AirQualityPred)...),
		"",
		section("Comfort", Detail{Key: "Status", Value: levelText(d.ComfortLevel, d.ComfortReasons)}),
		"",
		section("Devices", deviceDetails(d.ACState, d.PurifierState, d.DehumidifierState)...),
	}, "\n"), nil
}

// seriesStats holds min, mean and max of one field.
type seriesStats struct {
	Min, Avg, Max float64
}

func statsOf(points []api.HistoricalPoint, value func(api.HistoricalPoint) float64) seriesStats {
	if len(points) == 0 {
		return seriesStats{}
	}
	s := seriesStats{Min: value(points[0]), Max: value(points[0])}
	var sum float64
	for _, p := range points {
		v := value(p)
		sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Avg = sum / float64(len(points))
	return s
}

// RenderHistory formats GET /api/historical-data.
func RenderHistory(points []api.HistoricalPoint, hours int, f Format, width int) (string, error) {
	switch f {
	case FormatJSON:
		if points == nil {
			points = []api.HistoricalPoint{}
		}
		return renderJSON(points)
	case FormatCompact:
		lines := make([]string, 0, len(points))
		for _, p := range points {
			lines = append(lines, formatTime(p.Timestamp.Time)+"  "+readingLine(p.Temperature, p.Humidity, p.AirQuality))
		}
		return strings.Join(lines, "\n"), nil
	}

	window := []Detail{
		{Key: "Window", Value: fmt.Sprintf("last %d hours", hours)},
		{Key: "Points", Value: fmt.Sprintf("%d", len(points))},
	}
	if len(points) > 0 {
		window = append(window,
			Detail{Key: "From", Value: formatTime(points[0].Timestamp.Time)},
			Detail{Key: "To", Value: formatTime(points[len(points)-1].Timestamp.Time)},
		)
	}
	parts := []string{section("Historical Data", window...)}

	charts := []widgets.LineChart{
		{Field: widgets.FieldTemperature, Label: "Temperature (°C)", Color: asciigraph.Red},
		{Field: widgets.FieldHumidity, Label: "Humidity (%)", Color: asciigraph.Blue},
		{Field: widgets.FieldAirQuality, Label: "Air Quality (PPM)", Color: asciigraph.Green},
	}
	for _, c := range charts {
		c.Series = points
		c.Cursor = widgets.NoCursor
		if len(points) > 0 {
			s := statsOf(points, c.Value)
			parts = append(parts, "", LabelLine(fmt.Sprintf("%s  min %s  avg %s  max %s",
				c.Label, c.FormatValue(s.Min), c.FormatValue(s.Avg), c.FormatValue(s.Max))))
		} else {
			parts = append(parts, "")
		}
		parts = append(parts, c.Render(width, reportChartHeight))
	}

	return strings.Join(parts, "\n"), nil
}

// LabelLine renders a muted single line.
func LabelLine(s string) string {
	return lipgloss.NewStyle().Foreground(MutedColor).Render(s)
}

// RenderComfortHistory formats GET /api/comfort-history.
func RenderComfortHistory(records []api.ComfortRecord, days int, f Format, width int) (string, error) {
	switch f {
	case FormatJSON:
		if records == nil {
			records = []api.ComfortRecord{}
		}
		return renderJSON(records)
	case FormatCompact:
		lines := make([]string, 0, len(records))
		for _, r := range records {
			lines = append(lines, fmt.Sprintf("%s  %-13s  %s  [%s]",
				formatTime(r.Timestamp.Time),
				comfort.NewStatus(r.ComfortLevel, r.ComfortReasons).Level,
				readingLine(r.TemperaturePred, r.HumidityPred, r.AirQualityPred),
				devicesLine(r.ACState, r.PurifierState, r.DehumidifierState),
			))
		}
		return strings.Join(lines, "\n"), nil
	}

	counts := map[comfort.Level]int{}
	for _, r := range records {
		counts[comfort.NewStatus(r.ComfortLevel, nil).Level]++
	}
	levels := make([]string, 0, len(counts))
	for l := range counts {
		levels = append(levels, string(l))
	}
	sort.Strings(levels)

	overview := []Detail{
		{Key: "Window", Value: fmt.Sprintf("last %d days", days)},
		{Key: "Predictions", Value: fmt.Sprintf("%d", len(records))},
	}
	for _, l := range levels {
		overview = append(overview, Detail{Key: comfort.Level(l).Title(), Value: fmt.Sprintf("%d", counts[comfort.Level(l)])})
	}
	parts := []string{section("Comfort History", overview...)}

	if len(records) > 0 {
		r := records[len(records)-1]
		latest := append([]Detail{
			{Key: "Time", Value: formatTime(r.Timestamp.Time)},
			{Key: "Status", Value: levelText(r.ComfortLevel, r.ComfortReasons)},
		}, readingDetails(r.TemperaturePred, r.HumidityPred, r.AirQualityPred)...)
		latest = append(latest, Detail{Key: "Devices", Value: devicesLine(r.ACState, r.PurifierState, r.DehumidifierState)})
		parts = append(parts, "", section("Most Recent Prediction", latest...))
	}

	return strings.Join(parts, "\n"), nil
}

// RenderDeviceStatus formats GET /api/device-status.
func RenderDeviceStatus(s *api.DeviceStatus, f Format, width int) (string, error) {
	switch f {
	case FormatJSON:
		return renderJSON(s)
	case FormatCompact:
		return devicesLine(s.AC, s.Purifier, s.Dehumidifier) + "  @ " + formatTime(s.LastUpdated.Time), nil
	}

	third := width / 3
	tiles := lipgloss.JoinHorizontal(lipgloss.Top,
		widgets.DeviceTile{Name: "Air Conditioner", Status: s.AC, Icon: widgets.IconAC}.Render(third),
		widgets.DeviceTile{Name: "Air Purifier", Status: s.Purifier, Icon: widgets.IconPurifier}.Render(third),
		widgets.DeviceTile{Name: "Dehumidifier", Status: s.Dehumidifier, Icon: widgets.IconDehumidifier}.Render(third),
	)
	return strings.Join([]string{
		section("Device Status", Detail{Key: "Last Updated", Value: formatTime(s.LastUpdated.Time)}),
		tiles,
	}, "\n"), nil
}

// RenderSummary formats GET /api/dashboard-summary.
func RenderSummary(s *api.DashboardSummary, f Format, width int) (string, error) {
	switch f {
	case FormatJSON:
		return renderJSON(s)
	case FormatCompact:
		level := "no prediction"
		if s.Prediction != nil {
			level = string(comfort.NewStatus(s.Prediction.ComfortLevel, nil).Level)
		}
		return fmt.Sprintf("now %s  avg %s  %s  [%s]",
			readingLine(s.Current.Temperature, s.Current.Humidity, s.Current.AirQuality),
			readingLine(s.Averages.AvgTemperature, s.Averages.AvgHumidity, s.Averages.AvgAirQuality),
			level,
			devicesLine(s.Devices.AC, s.Devices.Purifier, s.Devices.Dehumidifier),
		), nil
	}

	current := append(readingDetails(s.Current.Temperature, s.Current.Humidity, s.Current.AirQuality),
		Detail{Key: "Measured", Value: formatTime(s.Current.Timestamp.Time)})

	prediction := section("Prediction", Detail{Key: "Status", Value: "none yet"})
	if p := s.Prediction; p != nil {
		details := append(readingDetails(p.TemperaturePred, p.HumidityPred, p.AirQualityPred),
			Detail{Key: "Comfort", Value: levelText(p.ComfortLevel, p.ComfortReasons)},
			Detail{Key: "Time", Value: formatTime(p.Timestamp.Time)},
		)
		prediction = section("Prediction", details...)
	}

	return strings.Join([]string{
		section("Current", current...),
		"",
		section("24h Averages", readingDetails(s.Averages.AvgTemperature, s.Averages.AvgHumidity, s.Averages.AvgAirQuality)...),
		"",
		prediction,
		"",
		section("Devices", deviceDetails(s.Devices.AC, s.Devices.Purifier, s.Devices.Dehumidifier)...),
	}, "\n"), nil
}
