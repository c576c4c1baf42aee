// Package notify forwards raised comfort alerts to sinks outside the
// dashboard: the terminal bell and an MQTT topic.
package notify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/muurk/envdash/internal/comfort"
)

// Notifier delivers one raised alert.
type Notifier interface {
	Notify(ctx context.Context, status comfort.Status, at time.Time) error
}

// Multi fans an alert out to every notifier and joins their errors.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, status comfort.Status, at time.Time) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, status, at); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Bell rings the terminal bell.
type Bell struct {
	W io.Writer // defaults to os.Stdout
}

// Notify implements Notifier.
func (b Bell) Notify(_ context.Context, _ comfort.Status, _ time.Time) error {
	w := b.W
	if w == nil {
		w = os.Stdout
	}
	if _, err := io.WriteString(w, "\a"); err != nil {
		return fmt.Errorf("failed to ring bell: %w", err)
	}
	return nil
}
