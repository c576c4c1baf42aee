package config

import (
	"fmt"
	"net/url"
	"time"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the settings file format version.
const CurrentVersion = 1

// Default values used when the settings file or a field is missing.
const (
	DefaultBaseURL         = "http://localhost:8000"
	DefaultLatestInterval  = 10 * time.Second
	DefaultHistoryInterval = 60 * time.Second
	DefaultAlertDuration   = 10 * time.Second
	DefaultHistoryHours    = 24
	DefaultComfortDays     = 7
	DefaultMQTTTopic       = "home/alerts/comfort"
	DefaultMQTTClientID    = "envdash"
)

// Settings represents the entire user configuration file.
type Settings struct {
	Version int `yaml:"version"`

	// BaseURL is the backend origin; the client appends /api/<endpoint>.
	BaseURL string `yaml:"base_url"`

	LatestInterval  Duration `yaml:"latest_interval"`
	HistoryInterval Duration `yaml:"history_interval"`
	AlertDuration   Duration `yaml:"alert_duration"`
	HistoryHours    int      `yaml:"history_hours"`
	ComfortDays     int      `yaml:"comfort_days"`

	// Timeout bounds each request. Zero means no timeout.
	Timeout Duration `yaml:"timeout,omitempty"`

	MetricsAddr string `yaml:"metrics_addr,omitempty"` // e.g. "127.0.0.1:9464"; empty disables
	LogLevel    string `yaml:"log_level,omitempty"`
	LogFile     string `yaml:"log_file,omitempty"`

	Notify *NotifySettings `yaml:"notify,omitempty"`
}

// NotifySettings controls where raised alerts are forwarded.
type NotifySettings struct {
	Bell bool          `yaml:"bell"` // Ring the terminal bell when an alert is raised
	MQTT *MQTTSettings `yaml:"mqtt,omitempty"`
}

// MQTTSettings configures the MQTT alert sink. An empty Broker disables it.
type MQTTSettings struct {
	Broker   string `yaml:"broker"` // e.g. "tcp://localhost:1883"
	Topic    string `yaml:"topic"`
	ClientID string `yaml:"client_id"`
	Username string `yaml:"username,omitempty"`
	// Password is read from ENVDASH_MQTT_PASSWORD and never stored here
}

// NewSettings creates Settings with default values.
func NewSettings() *Settings {
	return &Settings{
		Version:         CurrentVersion,
		BaseURL:         DefaultBaseURL,
		LatestInterval:  Duration(DefaultLatestInterval),
		HistoryInterval: Duration(DefaultHistoryInterval),
		AlertDuration:   Duration(DefaultAlertDuration),
		HistoryHours:    DefaultHistoryHours,
		ComfortDays:     DefaultComfortDays,
		Notify: &NotifySettings{
			Bell: true,
		},
	}
}

// applyDefaults fills zero-valued fields left out of a settings file.
func (s *Settings) applyDefaults() {
	if s.BaseURL == "" {
		s.BaseURL = DefaultBaseURL
	}
	if s.LatestInterval == 0 {
		s.LatestInterval = Duration(DefaultLatestInterval)
	}
	if s.HistoryInterval == 0 {
		s.HistoryInterval = Duration(DefaultHistoryInterval)
	}
	if s.AlertDuration == 0 {
		s.AlertDuration = Duration(DefaultAlertDuration)
	}
	if s.HistoryHours == 0 {
		s.HistoryHours = DefaultHistoryHours
	}
	if s.ComfortDays == 0 {
		s.ComfortDays = DefaultComfortDays
	}
	if s.Notify == nil {
		s.Notify = &NotifySettings{Bell: true}
	}
	if m := s.Notify.MQTT; m != nil {
		if m.Topic == "" {
			m.Topic = DefaultMQTTTopic
		}
		if m.ClientID == "" {
			m.ClientID = DefaultMQTTClientID
		}
	}
}

// Validate reports the first invalid setting.
func (s *Settings) Validate() error {
	if s.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", s.Version, CurrentVersion)
	}

	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", s.BaseURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid base_url %q: must be an absolute http(s) URL", s.BaseURL)
	}

	if s.LatestInterval <= 0 {
		return fmt.Errorf("latest_interval must be positive, got %s", s.LatestInterval)
	}
	if s.HistoryInterval <= 0 {
		return fmt.Errorf("history_interval must be positive, got %s", s.HistoryInterval)
	}
	if s.AlertDuration <= 0 {
		return fmt.Errorf("alert_duration must be positive, got %s", s.AlertDuration)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", s.Timeout)
	}
	if s.HistoryHours <= 0 {
		return fmt.Errorf("history_hours must be positive, got %d", s.HistoryHours)
	}
	if s.ComfortDays <= 0 {
		return fmt.Errorf("comfort_days must be positive, got %d", s.ComfortDays)
	}

	return nil
}

// MQTTEnabled reports whether the MQTT alert sink is configured.
func (s *Settings) MQTTEnabled() bool {
	return s.Notify != nil && s.Notify.MQTT != nil && s.Notify.MQTT.Broker != ""
}

// Duration is a time.Duration that reads and writes Go duration strings
// ("10s", "1m30s") in YAML.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// String implements fmt.Stringer.
func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("duration must be a string like \"10s\": %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}
