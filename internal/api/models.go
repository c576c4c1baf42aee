package api

import (
	"encoding/json"
	"fmt"
	"time"
)

// LatestData is the body of GET /api/latest-data: the newest sensor reading
// merged with the newest prediction record. The backend's Mongo _id fields
// are ignored.
type LatestData struct {
	// Sensor reading
	Temperature float64   `json:"temperature"` // °C
	Humidity    float64   `json:"humidity"`    // %
	AirQuality  float64   `json:"air_quality"` // PPM
	Timestamp   Timestamp `json:"timestamp"`

	// Model prediction
	TemperaturePred float64 `json:"temperature_pred"`
	HumidityPred    float64 `json:"humidity_pred"`
	AirQualityPred  float64 `json:"air_quality_pred"`

	// Comfort classification
	ComfortLevel   string   `json:"comfort_level"`   // "comfortable", "uncomfortable", "poor air", ...
	ComfortReasons []string `json:"comfort_reasons"` // may be null

	// Simulated device states (DeviceOn / DeviceOff)
	ACState           string `json:"ac_state"`
	PurifierState     string `json:"purifier_state"`
	DehumidifierState string `json:"dehumidifier_state"`
}

// Device states as sent by the backend. Any other string is shown verbatim.
const (
	DeviceOn  = "ON"
	DeviceOff = "OFF"
)

// HistoricalPoint is one element of GET /api/historical-data.
type HistoricalPoint struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	AirQuality  float64   `json:"air_quality"`
	Timestamp   Timestamp `json:"timestamp"`
}

// ComfortRecord is one element of GET /api/comfort-history, and the shape of
// the dashboard summary's prediction.
type ComfortRecord struct {
	TemperaturePred   float64   `json:"temperature_pred"`
	HumidityPred      float64   `json:"humidity_pred"`
	AirQualityPred    float64   `json:"air_quality_pred"`
	ComfortLevel      string    `json:"comfort_level"`
	ComfortReasons    []string  `json:"comfort_reasons"`
	ACState           string    `json:"ac_state"`
	PurifierState     string    `json:"purifier_state"`
	DehumidifierState string    `json:"dehumidifier_state"`
	Timestamp         Timestamp `json:"timestamp"`
}

// DeviceStatus is the body of GET /api/device-status.
type DeviceStatus struct {
	AC           string    `json:"ac"`
	Purifier     string    `json:"purifier"`
	Dehumidifier string    `json:"dehumidifier"`
	LastUpdated  Timestamp `json:"last_updated"`
}

// DashboardSummary is the body of GET /api/dashboard-summary.
type DashboardSummary struct {
	Current    CurrentReading `json:"current"`
	Prediction *ComfortRecord `json:"prediction"` // nil when the backend has no prediction yet
	Averages   Averages       `json:"averages"`
	Devices    DeviceSet      `json:"devices"`
}

// CurrentReading is the summary's latest sensor reading.
type CurrentReading struct {
	Temperature float64   `json:"temperature"`
	Humidity    float64   `json:"humidity"`
	AirQuality  float64   `json:"air_quality"`
	Timestamp   Timestamp `json:"timestamp"`
}

// Averages holds the backend's 24-hour means.
type Averages struct {
	AvgTemperature float64 `json:"avg_temperature"`
	AvgHumidity    float64 `json:"avg_humidity"`
	AvgAirQuality  float64 `json:"avg_air_quality"`
}

// DeviceSet holds the three device states of a summary.
type DeviceSet struct {
	AC           string `json:"ac"`
	Purifier     string `json:"purifier"`
	Dehumidifier string `json:"dehumidifier"`
}

// Timestamp accepts both zoned RFC 3339 strings and the naive ISO 8601
// strings the backend emits for Mongo datetimes. Naive values are read in
// local time.
type Timestamp struct {
	time.Time
}

// naiveLayouts are tried, in order, when RFC 3339 parsing fails.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// ParseTimestamp parses a backend timestamp string.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// UnmarshalJSON implements json.Unmarshaler. null leaves the zero time.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		t.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}

	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}
