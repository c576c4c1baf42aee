package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/envdash/internal/api"
	"github.com/muurk/envdash/internal/config"
	"github.com/muurk/envdash/internal/logging"
	"github.com/muurk/envdash/internal/metrics"
	"github.com/muurk/envdash/internal/notify"
)

// MQTTPasswordEnvVar holds the MQTT password so it never lands in the
// config file.
const MQTTPasswordEnvVar = "ENVDASH_MQTT_PASSWORD"

// Global flags, persistent on root
var (
	baseURL     string
	configPath  string
	logLevel    string
	logFile     string
	metricsAddr string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "", "Backend base URL (overrides base_url)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path")
	rootCmd.PersistentFlags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
}

// loadSettings reads the config file and applies flag overrides.
func loadSettings() (*config.Settings, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if baseURL != "" {
		settings.BaseURL = baseURL
	}
	if logLevel != "" {
		settings.LogLevel = logLevel
	}
	if logFile != "" {
		settings.LogFile = logFile
	}
	if metricsAddr != "" {
		settings.MetricsAddr = metricsAddr
	}

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return settings, nil
}

// setupLogging initializes the logger. The dashboard owns the terminal, so
// its output goes to a file; one-shot commands log to stderr.
func setupLogging(settings *config.Settings, fullScreen bool) error {
	output := settings.LogFile
	if output == "" && fullScreen {
		path, err := config.DefaultLogFile()
		if err != nil {
			return fmt.Errorf("failed to resolve log file: %w", err)
		}
		output = path
	}
	if output == "" {
		output = "stderr"
	}

	if err := logging.Initialize(settings.LogLevel, output); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	return nil
}

func newClient(settings *config.Settings) *api.Client {
	client := api.NewClient(settings.BaseURL)
	if settings.Timeout > 0 {
		client.SetTimeout(settings.Timeout.Std())
	}
	return client
}

// startMetrics serves /metrics when an address is configured. The returned
// function shuts the listener down.
func startMetrics(settings *config.Settings) (func(), error) {
	if settings.MetricsAddr == "" {
		return func() {}, nil
	}

	srv, err := metrics.Listen(settings.MetricsAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to start metrics listener: %w", err)
	}
	logging.Info("Metrics listener started", zap.String("addr", srv.Addr()))

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logging.Warn("Metrics listener shutdown failed", zap.Error(err))
		}
	}, nil
}

// buildNotifier combines the configured alert sinks. It returns nil when
// none is enabled.
func buildNotifier(settings *config.Settings) (notify.Notifier, func(), error) {
	var sinks notify.Multi
	cleanup := func() {}

	if settings.Notify != nil && settings.Notify.Bell {
		sinks = append(sinks, notify.Bell{})
	}

	if settings.MQTTEnabled() {
		sink, err := notify.NewMQTT(settings.Notify.MQTT, os.Getenv(MQTTPasswordEnvVar))
		if err != nil {
			return nil, nil, err
		}
		logging.Info("MQTT alert sink connected",
			zap.String("broker", settings.Notify.MQTT.Broker),
			zap.String("topic", sink.Topic()))
		sinks = append(sinks, sink)
		cleanup = sink.Close
	}

	if len(sinks) == 0 {
		return nil, cleanup, nil
	}
	return sinks, cleanup, nil
}
