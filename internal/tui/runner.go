package tui

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/envdash/internal/comfort"
	"github.com/muurk/envdash/internal/dashboard"
	"github.com/muurk/envdash/internal/logging"
	"github.com/muurk/envdash/internal/notify"
)

// notifyTimeout bounds one delivery to the alert sinks.
const notifyTimeout = 10 * time.Second

// Runner owns the Bubble Tea program and the dashboard controller behind
// it. A hard reset replaces the controller with a fresh one; snapshots
// carry the generation of the controller that produced them so the model
// can ignore a replaced controller's late updates.
type Runner struct {
	source   dashboard.Source
	opts     dashboard.Options
	notifier notify.Notifier

	// send delivers messages to the program
	send func(tea.Msg)

	mu      sync.Mutex
	ctx     context.Context
	ctrl    *dashboard.Controller
	gen     uint64
	stopped bool

	alerts sync.WaitGroup
}

// NewRunner creates a Runner. notifier may be nil.
func NewRunner(source dashboard.Source, opts dashboard.Options, notifier notify.Notifier) *Runner {
	return &Runner{
		source:   source,
		opts:     opts,
		notifier: notifier,
		send:     func(tea.Msg) {},
	}
}

// Run starts the controller and blocks in the full-screen program until the
// user quits or ctx is done.
func (r *Runner) Run(ctx context.Context, programOpts ...tea.ProgramOption) error {
	latest := dashboard.New(r.source, r.opts).Options().LatestInterval
	model := NewAppModel(r, latest)

	opts := append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, programOpts...)
	program := tea.NewProgram(model, opts...)
	r.send = program.Send

	r.Start(ctx)
	_, err := program.Run()
	r.Stop()

	if err != nil && ctx.Err() != nil {
		// Canceled from outside, e.g. by a signal
		return nil
	}
	return err
}

// Start builds and starts the first controller.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	r.ctx = ctx
	r.mu.Unlock()
	r.Reset()
}

// Reset stops the running controller, discarding its state, and starts a
// fresh one. It returns the new generation.
func (r *Runner) Reset() uint64 {
	r.mu.Lock()
	if r.stopped {
		gen := r.gen
		r.mu.Unlock()
		return gen
	}
	old := r.ctrl
	r.gen++
	gen := r.gen
	ctrl := r.newController(gen)
	r.ctrl = ctrl
	ctx := r.ctx
	r.mu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}

	if old != nil {
		old.Stop()
		logging.Info("Dashboard hard reset", zap.Uint64("generation", gen))
	}
	if err := ctrl.Start(ctx); err != nil {
		logging.Warn("Failed to start dashboard controller", zap.Error(err))
	}
	return gen
}

func (r *Runner) newController(gen uint64) *dashboard.Controller {
	opts := r.opts
	opts.OnChange = func(s dashboard.State) {
		r.send(stateMsg{gen: gen, state: s})
	}
	opts.OnAlert = r.deliverAlert
	return dashboard.New(r.source, opts)
}

// deliverAlert forwards a raised alert to the notifier without holding up
// the controller.
func (r *Runner) deliverAlert(status comfort.Status) {
	if r.notifier == nil {
		return
	}
	at := time.Now()
	r.alerts.Add(1)
	go func() {
		defer r.alerts.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := r.notifier.Notify(ctx, status, at); err != nil {
			logging.Warn("Failed to deliver alert notification",
				zap.String("level", string(status.Level)),
				zap.Error(err),
			)
		}
	}()
}

func (r *Runner) current() *dashboard.Controller {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctrl
}

// Refresh polls both endpoints now.
func (r *Runner) Refresh() {
	if c := r.current(); c != nil {
		c.Refresh()
	}
}

// DismissAlert closes the alert.
func (r *Runner) DismissAlert() {
	if c := r.current(); c != nil {
		c.DismissAlert()
	}
}

// Snapshot returns the running controller's state.
func (r *Runner) Snapshot() dashboard.State {
	if c := r.current(); c != nil {
		return c.Snapshot()
	}
	return dashboard.InitialState()
}

// Stop stops the controller and waits for pending alert deliveries.
func (r *Runner) Stop() {
	r.mu.Lock()
	r.stopped = true
	ctrl := r.ctrl
	r.mu.Unlock()

	if ctrl != nil {
		ctrl.Stop()
	}
	r.alerts.Wait()
}
