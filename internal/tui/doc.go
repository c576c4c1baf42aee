// Package tui implements the full-screen terminal dashboard.
//
// The TUI is built on Bubble Tea. AppModel renders controller snapshots and
// translates key presses into commands; a Runner owns the program and the
// dashboard.Controller and forwards every state change to the program as a
// message.
//
// # Screens
//
// The screen is chosen from the latest snapshot:
//   - Loading: no historical data has ever loaded and a fetch is running
//   - Error: the latest-data path failed; r performs a hard reset
//   - Dashboard: readings, comfort status, devices and the three charts
//
// When an alert is raised the comfort modal is drawn as a centred overlay
// until it is closed with enter, esc or x, or its timer runs out.
//
// # Usage Example
//
//	runner := tui.NewRunner(client, opts, notifier)
//	if err := runner.Run(ctx); err != nil {
//	    return err
//	}
//
// # Thread Safety
//
// Update never calls into the controller directly. Refresh, dismiss and
// reset run as commands on their own goroutines, because the controller
// delivers snapshots through Program.Send and would otherwise wait on the
// event loop it is blocking.
package tui
