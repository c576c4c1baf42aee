// Package api is the HTTP client for the indoor-environment monitoring
// backend.
//
// The backend exposes five read-only JSON endpoints under /api:
//
//	GET /api/latest-data                 newest reading + newest prediction
//	GET /api/historical-data?hours=N     readings for the last N hours
//	GET /api/comfort-history?days=N      prediction records for the last N days
//	GET /api/device-status               simulated device states
//	GET /api/dashboard-summary           current reading, prediction, 24h averages
//
// # Basic Usage
//
//	client := api.NewClient("http://localhost:8000")
//
//	latest, err := client.FetchLatestData(ctx)
//	if err != nil {
//	    fmt.Println(api.ShortMessage(err))
//	    fmt.Println(api.TroubleshootingHint(err))
//	    return err
//	}
//	fmt.Printf("%.1f°C, comfort: %s\n", latest.Temperature, latest.ComfortLevel)
//
// # Error Handling
//
// Every failure is a *FetchError with one of three kinds:
//
//   - KindTransport: no response (connection refused, DNS, timeout, canceled)
//   - KindHTTPStatus: non-2xx status, StatusCode is set
//   - KindParse: the body did not decode into the expected shape
//
// Use IsTransport, IsHTTPStatus and IsParse, or errors.As, to inspect them.
//
// # Retries and Timeouts
//
// The client performs exactly one request per call and never retries. No
// timeout is set by default; cancel the context (or call SetTimeout) to
// bound a request.
//
// # Observability
//
// Each request carries a fresh X-Request-ID, is logged through the logging
// package and counted in the metrics package.
package api
