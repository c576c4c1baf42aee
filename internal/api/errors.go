package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"

	"github.com/muurk/envdash/internal/urls"
)

// Kind is the category of a failed fetch.
type Kind int

const (
	// KindTransport: the request never produced a response (refused, DNS, timeout, canceled).
	KindTransport Kind = iota
	// KindHTTPStatus: the backend answered with a non-2xx status.
	KindHTTPStatus
	// KindParse: the body was not the expected JSON.
	KindParse
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "Transport Error"
	case KindHTTPStatus:
		return "HTTP Error"
	case KindParse:
		return "Parse Error"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// TransportReason narrows down a KindTransport failure.
type TransportReason int

const (
	ReasonGeneral TransportReason = iota
	ReasonTimeout
	ReasonConnectionRefused
	ReasonDNS
	ReasonHostUnreachable
	ReasonNetworkUnreachable
	ReasonCanceled
)

// String returns a short description of the reason
func (r TransportReason) String() string {
	switch r {
	case ReasonTimeout:
		return "timeout"
	case ReasonConnectionRefused:
		return "connection refused"
	case ReasonDNS:
		return "DNS resolution failed"
	case ReasonHostUnreachable:
		return "host unreachable"
	case ReasonNetworkUnreachable:
		return "network unreachable"
	case ReasonCanceled:
		return "canceled"
	default:
		return "network error"
	}
}

// FetchError describes a failed backend request.
type FetchError struct {
	Kind       Kind            // Category of error
	Op         string          // Endpoint name, e.g. "latest-data"
	URL        string          // Full request URL
	StatusCode int             // HTTP status (KindHTTPStatus only)
	Reason     TransportReason // KindTransport only
	Err        error           // Underlying error (if any)
}

// Error implements the error interface
func (e *FetchError) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("fetch %s: HTTP %d", e.Op, e.StatusCode)
	case KindTransport:
		return fmt.Sprintf("fetch %s: %s: %v", e.Op, e.Reason, e.Err)
	default:
		return fmt.Sprintf("fetch %s: %s: %v", e.Op, e.Kind, e.Err)
	}
}

// Unwrap returns the underlying error for error chain inspection
func (e *FetchError) Unwrap() error {
	return e.Err
}

// ClassifyTransport works out why a request produced no response.
func ClassifyTransport(err error) TransportReason {
	if errors.Is(err, context.Canceled) {
		return ReasonCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ReasonTimeout
	}

	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) && timeoutErr.Timeout() {
		return ReasonTimeout
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ReasonDNS
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return ReasonConnectionRefused
	case errors.Is(err, syscall.EHOSTUNREACH):
		return ReasonHostUnreachable
	case errors.Is(err, syscall.ENETUNREACH):
		return ReasonNetworkUnreachable
	}

	return ReasonGeneral
}

func newTransportError(op, rawURL string, err error) *FetchError {
	return &FetchError{
		Kind:   KindTransport,
		Op:     op,
		URL:    rawURL,
		Reason: ClassifyTransport(err),
		Err:    err,
	}
}

func newStatusError(op, rawURL string, statusCode int, body string) *FetchError {
	fe := &FetchError{
		Kind:       KindHTTPStatus,
		Op:         op,
		URL:        rawURL,
		StatusCode: statusCode,
	}
	if body = strings.TrimSpace(body); body != "" {
		fe.Err = errors.New(body)
	}
	return fe
}

func newParseError(op, rawURL string, err error) *FetchError {
	return &FetchError{
		Kind: KindParse,
		Op:   op,
		URL:  rawURL,
		Err:  err,
	}
}

func kindOf(err error) (Kind, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Kind, true
	}
	return 0, false
}

// IsTransport checks if an error is a transport failure
func IsTransport(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindTransport
}

// IsHTTPStatus checks if an error is a non-2xx response
func IsHTTPStatus(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindHTTPStatus
}

// IsParse checks if an error is a decoding failure
func IsParse(err error) bool {
	k, ok := kindOf(err)
	return ok && k == KindParse
}

// ShortMessage returns a concise, user-friendly error message
func ShortMessage(err error) string {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return err.Error()
	}

	switch fe.Kind {
	case KindTransport:
		switch fe.Reason {
		case ReasonTimeout:
			return "Backend not responding (timeout)"
		case ReasonConnectionRefused:
			return "Backend refused connection - is the API running?"
		case ReasonDNS:
			return "Cannot resolve backend hostname"
		case ReasonHostUnreachable:
			return "Backend unreachable - check network connection"
		case ReasonNetworkUnreachable:
			return "Network unreachable - check connection"
		case ReasonCanceled:
			return "Request canceled"
		default:
			return "Network error - check connection"
		}
	case KindHTTPStatus:
		return fmt.Sprintf("Backend error (HTTP %d)", fe.StatusCode)
	case KindParse:
		return "Failed to parse backend response"
	default:
		return fe.Error()
	}
}

// TroubleshootingHint returns user-friendly troubleshooting advice for an error
func TroubleshootingHint(err error) string {
	var fe *FetchError
	if !errors.As(err, &fe) {
		return "An unexpected error occurred. Please try again."
	}

	switch fe.Kind {
	case KindTransport:
		switch fe.Reason {
		case ReasonConnectionRefused:
			return strings.Join([]string{
				"The backend refused the connection.",
				"Troubleshooting:",
				"  • Check that the API service is running (default port 8000)",
				"  • Verify the --url / base_url setting",
				"  • Run 'envdash scan' to look for a backend on the local network",
			}, "\n")
		case ReasonDNS:
			return strings.Join([]string{
				"Could not resolve the backend hostname.",
				"Troubleshooting:",
				"  • Use the IP address instead of hostname",
				"  • Check your network DNS settings",
			}, "\n")
		case ReasonTimeout:
			return strings.Join([]string{
				"The backend did not respond in time.",
				"Troubleshooting:",
				"  • Check that the database behind the API is reachable",
				"  • Increase or remove the timeout setting",
			}, "\n")
		default:
			return strings.Join([]string{
				"Network communication failed.",
				"Troubleshooting:",
				"  • Check your network connection",
				"  • Verify the backend host is powered on and reachable",
				"  • See " + urls.Troubleshooting,
			}, "\n")
		}

	case KindHTTPStatus:
		if fe.StatusCode == 404 {
			return strings.Join([]string{
				"The backend has no data for this endpoint yet (HTTP 404).",
				"Troubleshooting:",
				"  • Check that the sensor ingester is writing readings",
				"  • Verify base_url points at the API root, not at /api",
			}, "\n")
		}
		if fe.StatusCode >= 500 {
			return fmt.Sprintf("The backend returned an error (HTTP %d). Check the API service logs.", fe.StatusCode)
		}
		return fmt.Sprintf("The backend returned HTTP error %d. Check the request parameters.", fe.StatusCode)

	case KindParse:
		return strings.Join([]string{
			"Failed to parse the backend's response.",
			"This may indicate an incompatible API version.",
			"  • See " + urls.APIReference,
		}, "\n")

	default:
		return "An error occurred. Please check the error message for details."
	}
}
