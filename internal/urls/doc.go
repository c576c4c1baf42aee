// Package urls provides centralized constants for the documentation URLs
// printed in help text and troubleshooting output.
//
// Usage:
//
//	import "github.com/muurk/envdash/internal/urls"
//
//	fmt.Printf("For more information, see: %s\n", urls.Troubleshooting)
package urls
