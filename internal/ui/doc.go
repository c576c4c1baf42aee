// Package ui renders the output of envdash's one-shot commands.
//
// Unlike the full-screen dashboard in package tui, these components print
// once and exit: a header box naming the command, then a report or a
// result box. Reports come in three formats:
//
//   - detailed: sectioned key-value output, charts for historical data
//   - compact: one line per reading or record, suitable for grep
//   - json: the backend payload re-encoded as indented JSON
//
// Example:
//
//	p := ui.NewPrinter(os.Stdout)
//	p.PrintHeader("Latest Reading", "envdash latest", ui.Detail{Key: "Backend", Value: url})
//	out, err := ui.RenderLatest(data, ui.FormatDetailed, p.Width())
//	if err != nil {
//	    return err
//	}
//	p.Println(out)
//
// # Logging Integration
//
// Logging is silent unless ENVDASH_LOG_LEVEL or --log-level is set, so
// the curated output is displayed cleanly.
package ui
