package ui

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/muurk/envdash/internal/api"
)

func ts(hour, min int) api.Timestamp {
	return api.Timestamp{Time: time.Date(2024, 5, 1, hour, min, 0, 0, time.Local)}
}

func sampleLatest() *api.LatestData {
	return &api.LatestData{
		Temperature:       23.5,
		Humidity:          45.2,
		AirQuality:        87.6,
		Timestamp:         ts(9, 30),
		TemperaturePred:   24.1,
		HumidityPred:      47,
		AirQualityPred:    90,
		ComfortLevel:      "uncomfortable",
		ComfortReasons:    []string{"high temperature"},
		ACState:           "ON",
		PurifierState:     "OFF",
		DehumidifierState: "OFF",
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"detailed", FormatDetailed, false},
		{"Compact", FormatCompact, false},
		{" json ", FormatJSON, false},
		{"yaml", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderLatest(t *testing.T) {
	d := sampleLatest()

	detailed, err := RenderLatest(d, FormatDetailed, 80)
	if err != nil {
		t.Fatalf("RenderLatest() error = %v", err)
	}
	for _, want := range []string{"Current Reading", "23.5°C", "45.2%", "88 PPM", "24.1°C", "Uncomfortable", "high temperature", "2024-05-01 09:30:00"} {
		if !strings.Contains(detailed, want) {
			t.Errorf("detailed output missing %q:\n%s", want, detailed)
		}
	}

	compact, err := RenderLatest(d, FormatCompact, 80)
	if err != nil {
		t.Fatalf("RenderLatest() error = %v", err)
	}
	if strings.Contains(compact, "\n") {
		t.Errorf("compact output spans lines: %q", compact)
	}
	if !strings.Contains(compact, "uncomfortable") || !strings.Contains(compact, "AC ON") {
		t.Errorf("compact output = %q", compact)
	}

	out, err := RenderLatest(d, FormatJSON, 80)
	if err != nil {
		t.Fatalf("RenderLatest() error = %v", err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("json output does not decode: %v", err)
	}
	if decoded["comfort_level"] != "uncomfortable" {
		t.Errorf("comfort_level = %v", decoded["comfort_level"])
	}
}

func TestRenderHistory(t *testing.T) {
	points := []api.HistoricalPoint{
		{Temperature: 20, Humidity: 40, AirQuality: 80, Timestamp: ts(8, 0)},
		{Temperature: 22, Humidity: 50, AirQuality: 100, Timestamp: ts(9, 0)},
	}

	detailed, err := RenderHistory(points, 24, FormatDetailed, 80)
	if err != nil {
		t.Fatalf("RenderHistory() error = %v", err)
	}
	for _, want := range []string{"last 24 hours", "min 20.0°C  avg 21.0°C  max 22.0°C", "min 80 PPM  avg 90 PPM  max 100 PPM"} {
		if !strings.Contains(detailed, want) {
			t.Errorf("detailed output missing %q", want)
		}
	}

	compact, err := RenderHistory(points, 24, FormatCompact, 80)
	if err != nil {
		t.Fatalf("RenderHistory() error = %v", err)
	}
	if lines := strings.Split(compact, "\n"); len(lines) != 2 {
		t.Errorf("compact output has %d lines, want 2", len(lines))
	}

	empty, err := RenderHistory(nil, 24, FormatJSON, 80)
	if err != nil {
		t.Fatalf("RenderHistory() error = %v", err)
	}
	if empty != "[]" {
		t.Errorf("json for no points = %q, want []", empty)
	}

	none, err := RenderHistory(nil, 24, FormatDetailed, 80)
	if err != nil {
		t.Fatalf("RenderHistory() error = %v", err)
	}
	if !strings.Contains(none, "No data") {
		t.Error("detailed output for no points should show the placeholder")
	}
}

func TestRenderComfortHistory(t *testing.T) {
	records := []api.ComfortRecord{
		{ComfortLevel: "comfortable", Timestamp: ts(7, 0)},
		{ComfortLevel: "poor air", ComfortReasons: []string{"high CO2"}, Timestamp: ts(8, 0), ACState: "OFF", PurifierState: "ON", DehumidifierState: "OFF"},
		{ComfortLevel: "comfortable", Timestamp: ts(9, 0)},
	}

	detailed, err := RenderComfortHistory(records, 7, FormatDetailed, 80)
	if err != nil {
		t.Fatalf("RenderComfortHistory() error = %v", err)
	}
	for _, want := range []string{"last 7 days", "Predictions", "Poor Air", "Most Recent Prediction"} {
		if !strings.Contains(detailed, want) {
			t.Errorf("detailed output missing %q:\n%s", want, detailed)
		}
	}

	compact, err := RenderComfortHistory(records, 7, FormatCompact, 80)
	if err != nil {
		t.Fatalf("RenderComfortHistory() error = %v", err)
	}
	lines := strings.Split(compact, "\n")
	if len(lines) != 3 {
		t.Fatalf("compact output has %d lines, want 3", len(lines))
	}
	if !strings.Contains(lines[1], "poor air") || !strings.Contains(lines[1], "Purifier ON") {
		t.Errorf("compact line = %q", lines[1])
	}
}

func TestRenderDeviceStatus(t *testing.T) {
	s := &api.DeviceStatus{AC: "ON", Purifier: "OFF", Dehumidifier: "STANDBY", LastUpdated: ts(9, 0)}

	compact, err := RenderDeviceStatus(s, FormatCompact, 90)
	if err != nil {
		t.Fatalf("RenderDeviceStatus() error = %v", err)
	}
	if compact != "AC ON  Purifier OFF  Dehumidifier STANDBY  @ 2024-05-01 09:00:00" {
		t.Errorf("compact = %q", compact)
	}

	detailed, err := RenderDeviceStatus(s, FormatDetailed, 90)
	if err != nil {
		t.Fatalf("RenderDeviceStatus() error = %v", err)
	}
	if !strings.Contains(detailed, "STANDBY") {
		t.Error("detailed output should show unknown states verbatim")
	}
}

func TestRenderSummary(t *testing.T) {
	s := &api.DashboardSummary{
		Current:  api.CurrentReading{Temperature: 22, Humidity: 40, AirQuality: 70},
		Averages: api.Averages{AvgTemperature: 21.25, AvgHumidity: 42.5, AvgAirQuality: 75.5},
		Devices:  api.DeviceSet{AC: "OFF", Purifier: "OFF", Dehumidifier: "OFF"},
	}

	detailed, err := RenderSummary(s, FormatDetailed, 80)
	if err != nil {
		t.Fatalf("RenderSummary() error = %v", err)
	}
	if !strings.Contains(detailed, "none yet") {
		t.Error("summary without a prediction should say so")
	}
	if !strings.Contains(detailed, "76 PPM") {
		t.Error("averages should be rounded half away from zero")
	}

	s.Prediction = &api.ComfortRecord{ComfortLevel: "uncomfortable", TemperaturePred: 23}
	compact, err := RenderSummary(s, FormatCompact, 80)
	if err != nil {
		t.Fatalf("RenderSummary() error = %v", err)
	}
	if !strings.Contains(compact, "uncomfortable") {
		t.Errorf("compact = %q", compact)
	}
}

func TestResultRender(t *testing.T) {
	ok := NewSuccessResult("Configuration written", Detail{Key: "Path", Value: "/tmp/x.yaml"}).SetWidth(70).Render()
	if !strings.Contains(ok, "SUCCESS") || !strings.Contains(ok, "/tmp/x.yaml") {
		t.Errorf("success box = \n%s", ok)
	}

	fail := NewFailureResult("Request failed", errors.New("connection refused"), []string{"Is the backend running?"}).SetWidth(70).Render()
	for _, want := range []string{"FAILED", "connection refused", "Troubleshooting:", "Is the backend running?"} {
		if !strings.Contains(fail, want) {
			t.Errorf("failure box missing %q", want)
		}
	}

	warn := NewWarningResult("No backends found", Detail{Key: "Manual", Value: "use --url"}).SetWidth(70).Render()
	if !strings.Contains(warn, "WARNING") || !strings.Contains(warn, "use --url") {
		t.Errorf("warning box = \n%s", warn)
	}
}

func TestRenderHeader(t *testing.T) {
	out := RenderHeader("Latest Reading", "envdash latest", []Detail{
		{Key: "Backend", Value: "http://localhost:8000"},
		{Key: "Format", Value: "detailed"},
	}, 70)

	if !strings.Contains(out, "LATEST READING") {
		t.Error("header title should be upper case")
	}
	if strings.Index(out, "Backend") > strings.Index(out, "Format") {
		t.Error("header params should keep their order")
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
	}

	for _, tt := range tests {
		var out bytes.Buffer
		got := ConfirmOverwrite(strings.NewReader(tt.input), &out, "/tmp/config.yaml")
		if got != tt.want {
			t.Errorf("ConfirmOverwrite(%q) = %v, want %v", tt.input, got, tt.want)
		}
		if !strings.Contains(out.String(), "Overwrite it?") {
			t.Error("prompt not written")
		}
	}
}
