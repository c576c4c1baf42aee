package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/envdash/internal/logging"
)

const (
	// ServiceType is the mDNS service type backends advertise
	ServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for backend discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is used when an advertisement carries no port
	DefaultPort = 8000

	// APITag is the TXT value (api=envmon) and instance prefix that mark a backend
	APITag = "envmon"
)

// browseFunc browses for service entries until ctx is done, sending them
// on entries and closing it when finished.
type browseFunc func(ctx context.Context, entries chan *zeroconf.ServiceEntry) error

// Scanner handles mDNS backend discovery
type Scanner struct {
	// Timeout is the maximum time to wait for advertisements
	Timeout time.Duration

	browse browseFunc
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
		browse:  zeroconfBrowse,
	}
}

func zeroconfBrowse(ctx context.Context, entries chan *zeroconf.ServiceEntry) error {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}
	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}
	return nil
}

// Scan collects every backend that answers within the timeout, sorted by
// instance name. Repeated advertisements of one service are reported once.
func (s *Scanner) Scan(ctx context.Context) ([]*Backend, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	var (
		mu       sync.Mutex
		backends []*Backend
		seen     = make(map[string]bool)
	)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for entry := range entries {
			b := parseServiceEntry(entry)
			if b == nil {
				continue
			}
			key := b.Instance + "|" + b.BaseURL()
			mu.Lock()
			if !seen[key] {
				seen[key] = true
				backends = append(backends, b)
				logging.Debug("Discovered backend", zap.String("instance", b.Instance), zap.String("url", b.BaseURL()))
			}
			mu.Unlock()
		}
	}()

	if err := s.browse(ctx, entries); err != nil {
		return nil, err
	}

	// Wait for the timeout, then for the collector to drain
	<-ctx.Done()
	select {
	case <-done:
	case <-time.After(time.Second):
	}

	mu.Lock()
	defer mu.Unlock()
	result := append([]*Backend(nil), backends...)
	sort.Slice(result, func(i, j int) bool { return result[i].Instance < result[j].Instance })
	return result, nil
}

// FindFirst returns the first backend that answers, or an error if none
// does within the timeout.
func (s *Scanner) FindFirst(ctx context.Context) (*Backend, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	found := make(chan *Backend, 1)

	go func() {
		for entry := range entries {
			if b := parseServiceEntry(entry); b != nil {
				select {
				case found <- b:
					cancel()
				default:
				}
			}
		}
	}()

	if err := s.browse(ctx, entries); err != nil {
		return nil, err
	}

	select {
	case b := <-found:
		return b, nil
	case <-ctx.Done():
		// A backend may have been found just as the context was canceled
		select {
		case b := <-found:
			return b, nil
		default:
		}
		return nil, fmt.Errorf("no %s backend found within %s", APITag, s.Timeout)
	}
}

// parseServiceEntry converts a zeroconf service entry to a Backend.
// Returns nil if the entry is not an environment monitoring backend or has
// no IPv4 address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Backend {
	if entry == nil {
		return nil
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		// TXT records are in "key=value" format
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	instance := entry.Instance
	if metadata["api"] != APITag && !strings.HasPrefix(strings.ToLower(instance), APITag) {
		return nil
	}

	var ip string
	for _, addr := range entry.AddrIPv4 {
		ip = addr.String()
		break
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	return &Backend{
		Instance:     instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForBackends is a convenience function to scan with a custom timeout
func ScanForBackends(ctx context.Context, timeout time.Duration) ([]*Backend, error) {
	scanner := NewScanner()
	if timeout > 0 {
		scanner.Timeout = timeout
	}
	return scanner.Scan(ctx)
}
