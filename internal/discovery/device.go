package discovery

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// Backend represents an environment monitoring backend found on the network
type Backend struct {
	// Instance is the mDNS service instance name (e.g., "envmon-livingroom")
	Instance string

	// Hostname is the mDNS hostname (e.g., "raspberrypi.local.")
	Hostname string

	// IP is the IPv4 address (e.g., "192.168.4.16")
	IP string

	// Port is the HTTP port the API listens on
	Port int

	// Metadata contains the mDNS TXT record data
	// Common fields: "api=envmon", "version=1.2.0"
	Metadata map[string]string

	// DiscoveredAt is when the backend was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the backend
func (b *Backend) String() string {
	return fmt.Sprintf("%s (%s) at %s", b.Instance, b.Hostname, b.BaseURL())
}

// BaseURL returns the HTTP base URL the API client should use
func (b *Backend) BaseURL() string {
	return "http://" + net.JoinHostPort(b.IP, strconv.Itoa(b.Port))
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (b *Backend) GetMetadata(key string) string {
	if b.Metadata == nil {
		return ""
	}
	return b.Metadata[key]
}
