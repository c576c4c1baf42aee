// Package discovery finds environment monitoring backends on the local network
// using mDNS (Multicast DNS).
//
// Backends advertise an "_http._tcp" service. A service is treated as a
// backend when its TXT records carry "api=envmon" or its instance name starts
// with "envmon". Other HTTP services on the network are ignored.
//
// # Usage
//
//	scanner := discovery.NewScanner()
//	scanner.Timeout = 3 * time.Second
//
//	backends, err := scanner.Scan(ctx)
//	if err != nil {
//		return err
//	}
//	for _, b := range backends {
//		fmt.Println(b.String())
//	}
//
// FindFirst returns as soon as one backend answers, which is what the
// dashboard uses when started with --discover:
//
//	b, err := scanner.FindFirst(ctx)
//	client := api.NewClient(b.BaseURL())
//
// # Backend Information
//
// Each discovered backend includes:
//   - Instance: mDNS service instance name
//   - Hostname: network hostname (e.g., "raspberrypi.local.")
//   - IP: IPv4 address
//   - Port: API port (8000 when not advertised)
//   - Metadata: TXT record key/value pairs
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Backends must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
