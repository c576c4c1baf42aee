package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/envdash/internal/api"
	"github.com/muurk/envdash/internal/dashboard"
	"github.com/muurk/envdash/internal/discovery"
	"github.com/muurk/envdash/internal/logging"
	"github.com/muurk/envdash/internal/tui"
	"github.com/muurk/envdash/internal/ui"
)

// Command flags
var (
	outputFormat string
	historyHours int
	comfortDays  int
	scanTimeout  int
	discover     bool
)

func init() {
	rootCmd.Flags().BoolVar(&discover, "discover", false, "Find the backend with mDNS instead of using base_url")
	dashboardCmd.Flags().BoolVar(&discover, "discover", false, "Find the backend with mDNS instead of using base_url")

	for _, c := range []*cobra.Command{latestCmd, historyCmd, comfortHistoryCmd, devicesCmd, summaryCmd} {
		c.Flags().StringVar(&outputFormat, "format", "detailed", "Output format (detailed, compact, json)")
	}
	historyCmd.Flags().IntVar(&historyHours, "hours", 0, "Hours of history to fetch (default history_hours)")
	comfortHistoryCmd.Flags().IntVar(&comfortDays, "days", 0, "Days of predictions to fetch (default comfort_days)")
	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 5, "Scan timeout in seconds")

	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(latestCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(comfortHistoryCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(scanCmd)
}

// dashboardCmd launches the full-screen dashboard
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Launch the interactive dashboard",
	Long: `Launch the full-screen dashboard.

The latest reading is refreshed every latest_interval and the history every
history_interval. Press r to refresh, ←/→ to inspect chart points, x to
dismiss an alert and q to quit.`,
	Example: `  # Dashboard against the configured backend
  envdash dashboard
  # Or simply (dashboard is default):
  envdash

  # Use a specific backend
  envdash --url http://192.168.4.16:8000

  # Find the backend on the local network
  envdash --discover`,
	RunE: runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if err := setupLogging(settings, true); err != nil {
		return err
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if discover {
		fmt.Printf("Searching for a backend (timeout: %s)...\n", discovery.DefaultScanTimeout)
		backend, err := discovery.NewScanner().FindFirst(ctx)
		if err != nil {
			return fmt.Errorf("discovery failed: %w", err)
		}
		logging.Info("Using discovered backend", zap.String("backend", backend.String()))
		settings.BaseURL = backend.BaseURL()
	}

	stopMetrics, err := startMetrics(settings)
	if err != nil {
		return err
	}
	defer stopMetrics()

	notifier, closeNotifier, err := buildNotifier(settings)
	if err != nil {
		return err
	}
	defer closeNotifier()

	logging.Info("Starting dashboard",
		zap.String("base_url", settings.BaseURL),
		zap.Duration("latest_interval", settings.LatestInterval.Std()),
		zap.Duration("history_interval", settings.HistoryInterval.Std()))

	runner := tui.NewRunner(newClient(settings), dashboard.Options{
		LatestInterval:  settings.LatestInterval.Std(),
		HistoryInterval: settings.HistoryInterval.Std(),
		AlertDuration:   settings.AlertDuration.Std(),
		HistoryHours:    settings.HistoryHours,
	}, notifier)

	if err := runner.Run(ctx); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}

// report runs a one-shot fetch and prints it in the selected format.
// JSON output carries no header so it can be piped.
func report(cmd *cobra.Command, title string, params []ui.Detail,
	render func(ctx context.Context, client *api.Client, f ui.Format, width int) (string, error)) error {
	format, err := ui.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if err := setupLogging(settings, false); err != nil {
		return err
	}
	defer logging.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer := ui.NewPrinter(cmd.OutOrStdout())
	if format != ui.FormatJSON {
		params = append([]ui.Detail{{Key: "Backend", Value: settings.BaseURL}}, params...)
		printer.PrintHeader(title, cmd.CommandPath(), params...)
		printer.Newline()
	}

	out, err := render(ctx, newClient(settings), format, printer.Width())
	if err != nil {
		var fetchErr *api.FetchError
		if errors.As(err, &fetchErr) && format != ui.FormatJSON {
			printer.PrintFetchError("Request Failed", err)
		}
		return err
	}

	printer.Println(out)
	return nil
}

// latestCmd prints the most recent reading
var latestCmd = &cobra.Command{
	Use:   "latest",
	Short: "Show the latest sensor reading",
	Long: `Fetch the latest reading from the backend: temperature, humidity and air
quality with their predictions, the comfort level and the device states.`,
	Example: `  envdash latest
  envdash latest --format compact
  envdash latest --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return report(cmd, "Latest Reading", nil,
			func(ctx context.Context, c *api.Client, f ui.Format, width int) (string, error) {
				d, err := c.FetchLatestData(ctx)
				if err != nil {
					return "", err
				}
				return ui.RenderLatest(d, f, width)
			})
	},
}

// historyCmd prints hourly history
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show historical readings",
	Long: `Fetch the hourly history for the last N hours and print min/avg/max per
metric together with a chart of each series.`,
	Example: `  # Last 24 hours (history_hours)
  envdash history

  # Last 3 days
  envdash history --hours 72`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		hours := historyHours
		if hours <= 0 {
			hours = settings.HistoryHours
		}
		return report(cmd, "History", []ui.Detail{{Key: "Hours", Value: strconv.Itoa(hours)}},
			func(ctx context.Context, c *api.Client, f ui.Format, width int) (string, error) {
				points, err := c.FetchHistoricalData(ctx, hours)
				if err != nil {
					return "", err
				}
				return ui.RenderHistory(points, hours, f, width)
			})
	},
}

// comfortHistoryCmd prints the stored prediction records
var comfortHistoryCmd = &cobra.Command{
	Use:   "comfort-history",
	Short: "Show comfort prediction history",
	Long: `Fetch the comfort prediction records for the last N days and summarize how
often each comfort level was predicted.`,
	Example: `  envdash comfort-history
  envdash comfort-history --days 30 --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings()
		if err != nil {
			return err
		}
		days := comfortDays
		if days <= 0 {
			days = settings.ComfortDays
		}
		return report(cmd, "Comfort History", []ui.Detail{{Key: "Days", Value: strconv.Itoa(days)}},
			func(ctx context.Context, c *api.Client, f ui.Format, width int) (string, error) {
				records, err := c.FetchComfortHistory(ctx, days)
				if err != nil {
					return "", err
				}
				return ui.RenderComfortHistory(records, days, f, width)
			})
	},
}

// devicesCmd prints the device states
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Show device status",
	Long:  `Fetch the current state of the air conditioner, air purifier and dehumidifier.`,
	Example: `  envdash devices
  envdash devices --format compact`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return report(cmd, "Device Status", nil,
			func(ctx context.Context, c *api.Client, f ui.Format, width int) (string, error) {
				s, err := c.FetchDeviceStatus(ctx)
				if err != nil {
					return "", err
				}
				return ui.RenderDeviceStatus(s, f, width)
			})
	},
}

// summaryCmd prints the dashboard summary
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show the dashboard summary",
	Long: `Fetch the backend's summary: current reading, latest prediction, 24-hour
averages and device states.`,
	Example: `  envdash summary
  envdash summary --format json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return report(cmd, "Summary", nil,
			func(ctx context.Context, c *api.Client, f ui.Format, width int) (string, error) {
				s, err := c.FetchDashboardSummary(ctx)
				if err != nil {
					return "", err
				}
				return ui.RenderSummary(s, f, width)
			})
	},
}

// scanCmd discovers backends on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for backends on the network",
	Long: `Scan for environment monitoring backends using mDNS/DNS-SD discovery.

Backends advertise an _http._tcp service with the TXT record api=envmon (or
an instance name starting with "envmon").`,
	Example: `  # Scan for 5 seconds (default)
  envdash scan

  # Longer scan for slow networks
  envdash scan --timeout 15`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if err := setupLogging(settings, false); err != nil {
		return err
	}
	defer logging.Sync()

	timeout := time.Duration(scanTimeout) * time.Second
	printer := ui.NewPrinter(cmd.OutOrStdout())
	printer.PrintHeader("Backend Scan", cmd.CommandPath(), ui.Detail{Key: "Timeout", Value: timeout.String()})
	printer.Newline()

	backends, err := discovery.ScanForBackends(cmd.Context(), timeout)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(backends) == 0 {
		printer.PrintResult(ui.NewWarningResult("No backends found",
			ui.Detail{Key: "Advertising", Value: "_http._tcp with api=envmon"},
			ui.Detail{Key: "Network", Value: "same segment, UDP 5353 allowed"},
			ui.Detail{Key: "Slow network", Value: "increase --timeout"},
			ui.Detail{Key: "Manual", Value: "use --url to set the backend"},
		))
		return nil
	}

	result := ui.NewSuccessResult(fmt.Sprintf("Found %d backend(s)", len(backends)))
	for _, b := range backends {
		result.AddDetail(b.Instance, b.BaseURL())
		if v := b.GetMetadata("version"); v != "" {
			result.AddDetail("  version", v)
		}
	}
	printer.PrintResult(result)
	printer.Newline()
	printer.Println("Use 'envdash --url <url>' to open the dashboard for a backend")

	return nil
}
