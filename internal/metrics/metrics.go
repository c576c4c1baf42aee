// Package metrics exposes Prometheus collectors for backend fetches and
// comfort alerts, and an optional HTTP listener serving them.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Fetch outcomes used as the "outcome" label.
const (
	OutcomeSuccess   = "success"
	OutcomeTransport = "transport_error"
	OutcomeHTTP      = "http_error"
	OutcomeParse     = "parse_error"
)

var (
	registry *prometheus.Registry

	// Backend requests by endpoint and outcome.
	FetchTotal *prometheus.CounterVec

	// Backend latency per request. Watch for: slow backend delaying the 10s cycle.
	FetchDuration *prometheus.HistogramVec

	// Alerts raised, by comfort level.
	AlertsRaisedTotal *prometheus.CounterVec

	// Alerts hidden, by how ("timer" or "manual").
	AlertsDismissedTotal *prometheus.CounterVec

	// Unix time of the last successful latest-data cycle.
	LastUpdateTimestamp prometheus.Gauge
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	FetchTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envdash_fetch_total",
			Help: "Total number of backend requests",
		},
		[]string{"endpoint", "outcome"},
	)
	FetchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "envdash_fetch_duration_seconds",
			Help:    "Backend request latency in seconds (per request)",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"endpoint"},
	)
	AlertsRaisedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envdash_alerts_raised_total",
			Help: "Total number of comfort alerts raised",
		},
		[]string{"level"},
	)
	AlertsDismissedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "envdash_alerts_dismissed_total",
			Help: "Total number of comfort alerts hidden",
		},
		[]string{"by"},
	)
	LastUpdateTimestamp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "envdash_last_update_timestamp_seconds",
			Help: "Unix time of the last successful latest-data refresh",
		},
	)

	registry.MustRegister(
		FetchTotal, FetchDuration,
		AlertsRaisedTotal, AlertsDismissedTotal,
		LastUpdateTimestamp,
	)
}

// Registry returns the registry holding every envdash collector.
func Registry() *prometheus.Registry {
	return registry
}

// RecordFetch records one completed backend request.
func RecordFetch(endpoint, outcome string, elapsed time.Duration) {
	FetchTotal.WithLabelValues(endpoint, outcome).Inc()
	FetchDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// RecordAlertRaised counts an alert raised for level.
func RecordAlertRaised(level string) {
	AlertsRaisedTotal.WithLabelValues(level).Inc()
}

// RecordAlertDismissed counts an alert hidden by the timer or by the user.
func RecordAlertDismissed(by string) {
	AlertsDismissedTotal.WithLabelValues(by).Inc()
}

// RecordUpdate stamps the last successful latest-data refresh.
func RecordUpdate(at time.Time) {
	LastUpdateTimestamp.Set(float64(at.Unix()))
}
