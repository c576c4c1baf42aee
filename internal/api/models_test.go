package api

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-05-01T10:00:00Z", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)},
		{"2024-05-01T10:00:00+02:00", time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)},
		{"2024-05-01T10:00:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)},
		{"2024-05-01T10:00:00.123456", time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.Local)},
		{"2024-05-01 10:00:00", time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)},
	}

	for _, tt := range tests {
		got, err := ParseTimestamp(tt.in)
		if err != nil {
			t.Errorf("ParseTimestamp(%q) error = %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if _, err := ParseTimestamp("05/01/2024"); err == nil {
		t.Error("ParseTimestamp should reject unknown layouts")
	}
}

func TestTimestamp_Null(t *testing.T) {
	var record ComfortRecord
	if err := json.Unmarshal([]byte(`{"timestamp":null,"comfort_reasons":null}`), &record); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !record.Timestamp.IsZero() {
		t.Errorf("Timestamp = %v, want zero", record.Timestamp)
	}
	if record.ComfortReasons != nil {
		t.Errorf("ComfortReasons = %v, want nil", record.ComfortReasons)
	}
}

func TestLatestData_IgnoresUnknownFields(t *testing.T) {
	var data LatestData
	err := json.Unmarshal([]byte(`{"_id":"abc","sensor_id":"kitchen","temperature":20.5}`), &data)
	if err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if data.Temperature != 20.5 {
		t.Errorf("Temperature = %v, want 20.5", data.Temperature)
	}
}
