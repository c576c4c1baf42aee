package widgets

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/muurk/envdash/internal/api"
	"github.com/muurk/envdash/internal/comfort"
)

func TestFormatters(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"temperature rounds up", FormatTemperature(23.456), "23.5°C"},
		{"temperature pads", FormatTemperature(23), "23.0°C"},
		{"temperature half away from zero", FormatTemperature(-0.25), "-0.3°C"},
		{"temperature negative zero", FormatTemperature(-0.04), "0.0°C"},
		{"humidity", FormatHumidity(45.2), "45.2%"},
		{"humidity rounds up", FormatHumidity(45.25), "45.3%"},
		{"air quality rounds up", FormatAirQuality(87.6), "88 PPM"},
		{"air quality half", FormatAirQuality(87.5), "88 PPM"},
		{"air quality rounds down", FormatAirQuality(87.4), "87 PPM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestValueTile(t *testing.T) {
	out := ValueTile{
		Label:      "Temperature",
		Value:      FormatTemperature(23.456),
		Icon:       IconTemperature,
		Prediction: FormatTemperature(24.1),
	}.Render(30)

	for _, want := range []string{"Temperature", "23.5°C", "Predicted: 24.1°C", IconTemperature.Glyph()} {
		if !strings.Contains(out, want) {
			t.Errorf("tile missing %q:\n%s", want, out)
		}
	}
	if w := lipgloss.Width(out); w != 30 {
		t.Errorf("tile width = %d, want 30", w)
	}
}

func TestDeviceTile(t *testing.T) {
	tests := []struct {
		status string
		on     bool
	}{
		{api.DeviceOn, true},
		{api.DeviceOff, false},
		{"STANDBY", false},
		{"on", false},
	}

	for _, tt := range tests {
		tile := DeviceTile{Name: "Air Purifier", Status: tt.status, Icon: IconPurifier}
		if tile.IsOn() != tt.on {
			t.Errorf("IsOn(%q) = %v, want %v", tt.status, tile.IsOn(), tt.on)
		}
		out := tile.Render(32)
		if !strings.Contains(out, tt.status) || !strings.Contains(out, "Air Purifier") {
			t.Errorf("tile should show name and status %q:\n%s", tt.status, out)
		}
	}
}

func TestComfortPanel(t *testing.T) {
	out := ComfortPanel(comfort.NewStatus("poor air", []string{"High CO2", "Dust"}), 60)
	if !strings.Contains(out, "Poor Air") {
		t.Errorf("panel should show the level:\n%s", out)
	}
	if !strings.Contains(out, "Reasons: High CO2, Dust") {
		t.Errorf("panel should list reasons:\n%s", out)
	}

	out = ComfortPanel(comfort.Initial(), 60)
	if strings.Contains(out, "Reasons:") {
		t.Errorf("no reasons line expected:\n%s", out)
	}
}

func TestLevelColor(t *testing.T) {
	if LevelColor(comfort.Comfortable) != OKColor {
		t.Error("comfortable should be green")
	}
	if LevelColor(comfort.Uncomfortable) != WarningColor {
		t.Error("uncomfortable should be yellow")
	}
	if LevelColor("stuffy") != ErrorColor {
		t.Error("other levels should be red")
	}
}

func series() []api.HistoricalPoint {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.Local)
	return []api.HistoricalPoint{
		{Temperature: 20.04, Humidity: 40, AirQuality: 50, Timestamp: api.Timestamp{Time: base}},
		{Temperature: 21.55, Humidity: 42, AirQuality: 61.5, Timestamp: api.Timestamp{Time: base.Add(30 * time.Minute)}},
		{Temperature: 22.9, Humidity: 44, AirQuality: 70, Timestamp: api.Timestamp{Time: base.Add(time.Hour)}},
	}
}

func TestLineChart_Empty(t *testing.T) {
	out := LineChart{Label: "Temperature (°C)", Field: FieldTemperature, Cursor: NoCursor}.Render(40, 6)
	if !strings.Contains(out, "No data") {
		t.Errorf("empty chart should show a placeholder:\n%s", out)
	}
}

func TestLineChart_Render(t *testing.T) {
	chart := LineChart{
		Series: series(),
		Field:  FieldTemperature,
		Label:  "Temperature (°C)",
		Color:  asciigraph.Red,
		Cursor: NoCursor,
	}
	out := chart.Render(60, 6)

	for _, want := range []string{"Temperature (°C)", "09:00:00", "10:00:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "▸") {
		t.Error("no tooltip expected without a cursor")
	}
}

func TestSeriesColor(t *testing.T) {
	tests := map[string]lipgloss.Color{
		FieldTemperature: TemperatureColor,
		FieldHumidity:    HumidityColor,
		FieldAirQuality:  AirQualityColor,
		"pressure":       PrimaryColor,
	}
	for field, want := range tests {
		if got := SeriesColor(field); got != want {
			t.Errorf("SeriesColor(%q) = %v, want %v", field, got, want)
		}
	}
}

func TestLineChart_Tooltip(t *testing.T) {
	tests := []struct {
		field  string
		cursor int
		want   string
	}{
		{FieldTemperature, 1, "▸ 09:30:00  21.6°C"},
		{FieldHumidity, 0, "▸ 09:00:00  40.0%"},
		{FieldAirQuality, 1, "▸ 09:30:00  62 PPM"},
		{FieldTemperature, 3, ""},
		{FieldTemperature, NoCursor, ""},
	}

	for _, tt := range tests {
		chart := LineChart{Series: series(), Field: tt.field, Cursor: tt.cursor}
		if got := chart.Tooltip(); got != tt.want {
			t.Errorf("Tooltip(%s, %d) = %q, want %q", tt.field, tt.cursor, got, tt.want)
		}
	}

	out := LineChart{Series: series(), Field: FieldTemperature, Label: "T", Cursor: 2}.Render(60, 5)
	if !strings.Contains(out, "22.9°C") {
		t.Errorf("rendered chart should include the tooltip:\n%s", out)
	}
}

func TestLineChart_SinglePoint(t *testing.T) {
	out := LineChart{Series: series()[:1], Field: FieldHumidity, Label: "Humidity (%)", Cursor: NoCursor}.Render(40, 4)
	if !strings.Contains(out, "09:00:00") {
		t.Errorf("single point chart should still label its time:\n%s", out)
	}
}

func TestTimeLabels(t *testing.T) {
	utc := time.Date(2024, 5, 1, 8, 15, 30, 0, time.UTC)
	labels := TimeLabels([]api.HistoricalPoint{{Timestamp: api.Timestamp{Time: utc}}})

	if want := utc.Local().Format("15:04:05"); labels[0] != want {
		t.Errorf("label = %s, want local %s", labels[0], want)
	}
}

func TestAlertModal_Render(t *testing.T) {
	out := AlertModal{Status: comfort.NewStatus("uncomfortable", []string{"High temperature", "High humidity"})}.Render(60)

	for _, want := range []string{
		"Uncomfortable Environment Detected",
		"Issues detected: High temperature, High humidity",
		"automatically adjusting",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("modal missing %q:\n%s", want, out)
		}
	}
}

func TestAlertModal_HandleKey(t *testing.T) {
	dismissed := 0
	modal := AlertModal{
		Status:    comfort.NewStatus("uncomfortable", nil),
		OnDismiss: func() { dismissed++ },
	}

	for _, key := range []string{"a", "left", "r", " ", "q"} {
		if modal.HandleKey(key) {
			t.Errorf("HandleKey(%q) should not be consumed", key)
		}
	}
	if dismissed != 0 {
		t.Fatalf("modal dismissed itself on a non-close key")
	}

	for _, key := range []string{"enter", "esc", "x"} {
		if !modal.HandleKey(key) {
			t.Errorf("HandleKey(%q) should be consumed", key)
		}
	}
	if dismissed != 3 {
		t.Errorf("OnDismiss called %d times, want 3", dismissed)
	}
}
