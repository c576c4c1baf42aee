package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/muurk/envdash/internal/config"
	"github.com/muurk/envdash/internal/notify"
)

// resetFlags restores the global flag variables after a test.
func resetFlags(t *testing.T) {
	t.Cleanup(func() {
		baseURL, configPath, logLevel, logFile, metricsAddr = "", "", "", "", ""
	})
}

func TestLoadSettings_FlagsOverrideFile(t *testing.T) {
	resetFlags(t)
	dir := t.TempDir()
	configPath = filepath.Join(dir, "config.yaml")
	data := []byte("version: 1\nbase_url: http://file:8000\nmetrics_addr: 127.0.0.1:9000\n")
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		t.Fatal(err)
	}

	baseURL = "http://flag:9000"
	settings, err := loadSettings()
	if err != nil {
		t.Fatalf("loadSettings() error = %v", err)
	}
	if settings.BaseURL != "http://flag:9000" {
		t.Errorf("BaseURL = %q, want flag value", settings.BaseURL)
	}
	if settings.MetricsAddr != "127.0.0.1:9000" {
		t.Errorf("MetricsAddr = %q, want file value", settings.MetricsAddr)
	}
}

func TestLoadSettings_InvalidURLFlag(t *testing.T) {
	resetFlags(t)
	configPath = filepath.Join(t.TempDir(), "missing.yaml")
	baseURL = "not a url"
	if _, err := loadSettings(); err == nil {
		t.Error("loadSettings() should reject a malformed --url")
	}
}

func TestBuildNotifier(t *testing.T) {
	settings := config.NewSettings()

	n, cleanup, err := buildNotifier(settings)
	if err != nil {
		t.Fatalf("buildNotifier() error = %v", err)
	}
	defer cleanup()
	multi, ok := n.(notify.Multi)
	if !ok || len(multi) != 1 {
		t.Fatalf("buildNotifier() = %#v, want the bell only", n)
	}

	settings.Notify.Bell = false
	n, _, err = buildNotifier(settings)
	if err != nil {
		t.Fatalf("buildNotifier() error = %v", err)
	}
	if n != nil {
		t.Errorf("buildNotifier() = %#v, want nil with no sinks", n)
	}
}

func TestStartMetrics_Disabled(t *testing.T) {
	stop, err := startMetrics(config.NewSettings())
	if err != nil {
		t.Fatalf("startMetrics() error = %v", err)
	}
	stop()
}
