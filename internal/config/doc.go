// Package config manages the envdash settings file.
//
// Settings live in a YAML file in the platform configuration directory
// (XDG on Linux and macOS, LOCALAPPDATA on Windows). A missing file is not an
// error: every field has a default, and fields omitted from the file are
// filled in on load. Command-line flags override file values in cmd/envdash.
//
// # File Format
//
//	version: 1
//	base_url: http://localhost:8000
//	latest_interval: 10s
//	history_interval: 1m0s
//	alert_duration: 10s
//	history_hours: 24
//	comfort_days: 7
//	metrics_addr: 127.0.0.1:9464
//	log_level: info
//	notify:
//	    bell: true
//	    mqtt:
//	        broker: tcp://localhost:1883
//	        topic: home/alerts/comfort
//	        client_id: envdash
//
// # Thread Safety
//
// Save serializes writes with a package mutex and replaces the file
// atomically (write to a temporary file, then rename).
package config
