// Package logging provides structured logging for envdash.
//
// This package wraps a package-level zap logger with convenience functions
// for the few log patterns the application needs. Logging is silent unless a
// level is given, either explicitly or via ENVDASH_LOG_LEVEL, so one-shot
// commands never print log noise next to their output.
//
// # Log Levels
//
//   - Debug: every completed backend request, state transitions
//   - Info: startup, alerts raised and dismissed, hard resets
//   - Warn: non-fatal failures (historical fetch errors, notifier errors)
//   - Error: failed backend requests
//
// # Output
//
// The dashboard owns the terminal, so when it runs the log is written to a
// file (see config.DefaultLogFile). One-shot commands log to stderr.
//
//	if err := logging.Initialize("debug", "/tmp/envdash.log"); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use.
package logging
