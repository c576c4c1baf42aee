package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/muurk/envdash/internal/logging"
	"github.com/muurk/envdash/internal/metrics"
	"github.com/muurk/envdash/internal/version"
)

const (
	// DefaultHistoryHours is the historical-data window used when hours <= 0
	DefaultHistoryHours = 24

	// DefaultComfortDays is the comfort-history window used when days <= 0
	DefaultComfortDays = 7

	// apiPrefix is prepended to every endpoint path
	apiPrefix = "/api"

	// maxErrorBody bounds how much of a non-2xx body is kept for the error
	maxErrorBody = 512
)

// Endpoint names, used as log ops and metric labels.
const (
	OpLatestData       = "latest-data"
	OpHistoricalData   = "historical-data"
	OpComfortHistory   = "comfort-history"
	OpDeviceStatus     = "device-status"
	OpDashboardSummary = "dashboard-summary"
)

// Client issues read-only requests to the monitoring backend.
// It never retries: a failed request is reported and the caller's next
// polling cycle is the retry.
type Client struct {
	// BaseURL is the backend origin (e.g., "http://localhost:8000")
	BaseURL string

	// HTTPClient is the underlying HTTP client. Its zero Timeout means
	// requests wait until the context is canceled.
	HTTPClient *http.Client

	// UserAgent is sent with every request
	UserAgent string
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
		UserAgent:  version.UserAgent(),
	}
}

// SetTimeout bounds each request. Zero disables the bound.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// FetchLatestData retrieves the newest reading merged with the newest prediction.
func (c *Client) FetchLatestData(ctx context.Context) (*LatestData, error) {
	var data LatestData
	if err := c.get(ctx, OpLatestData, nil, &data); err != nil {
		return nil, err
	}
	return &data, nil
}

// FetchHistoricalData retrieves sensor readings for the last hours hours,
// oldest first. hours <= 0 means DefaultHistoryHours.
func (c *Client) FetchHistoricalData(ctx context.Context, hours int) ([]HistoricalPoint, error) {
	if hours <= 0 {
		hours = DefaultHistoryHours
	}

	query := url.Values{}
	query.Set("hours", strconv.Itoa(hours))

	var points []HistoricalPoint
	if err := c.get(ctx, OpHistoricalData, query, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// FetchComfortHistory retrieves prediction records for the last days days,
// oldest first. days <= 0 means DefaultComfortDays.
func (c *Client) FetchComfortHistory(ctx context.Context, days int) ([]ComfortRecord, error) {
	if days <= 0 {
		days = DefaultComfortDays
	}

	query := url.Values{}
	query.Set("days", strconv.Itoa(days))

	var records []ComfortRecord
	if err := c.get(ctx, OpComfortHistory, query, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// FetchDeviceStatus retrieves the current simulated device states.
func (c *Client) FetchDeviceStatus(ctx context.Context) (*DeviceStatus, error) {
	var status DeviceStatus
	if err := c.get(ctx, OpDeviceStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// FetchDashboardSummary retrieves the combined summary document.
func (c *Client) FetchDashboardSummary(ctx context.Context) (*DashboardSummary, error) {
	var summary DashboardSummary
	if err := c.get(ctx, OpDashboardSummary, nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// URL returns the request URL for an endpoint.
func (c *Client) URL(op string, query url.Values) string {
	u := c.BaseURL + apiPrefix + "/" + op
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// get performs one GET and decodes the JSON body into out.
// Every outcome is logged and counted exactly once.
func (c *Client) get(ctx context.Context, op string, query url.Values, out interface{}) (err error) {
	reqURL := c.URL(op, query)
	start := time.Now()
	statusCode := 0

	defer func() {
		elapsed := time.Since(start)
		logging.LogFetch(op, reqURL, statusCode, elapsed, err)
		metrics.RecordFetch(op, outcome(err), elapsed)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return newTransportError(op, reqURL, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return newTransportError(op, reqURL, err)
	}
	defer func() { _ = resp.Body.Close() }()
	statusCode = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return newStatusError(op, reqURL, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return newTransportError(op, reqURL, fmt.Errorf("failed to read response body: %w", err))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return newParseError(op, reqURL, err)
	}
	return nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case IsHTTPStatus(err):
		return metrics.OutcomeHTTP
	case IsParse(err):
		return metrics.OutcomeParse
	default:
		return metrics.OutcomeTransport
	}
}
