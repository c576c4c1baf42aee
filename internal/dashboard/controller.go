package dashboard

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/envdash/internal/api"
	"github.com/muurk/envdash/internal/comfort"
	"github.com/muurk/envdash/internal/logging"
	"github.com/muurk/envdash/internal/metrics"
)

const (
	// DefaultLatestInterval is how often the latest reading is polled
	DefaultLatestInterval = 10 * time.Second

	// DefaultHistoryInterval is how often the historical series is polled
	DefaultHistoryInterval = 60 * time.Second

	// DefaultAlertDuration is how long a raised alert stays visible
	DefaultAlertDuration = 10 * time.Second

	// DefaultHistoryHours is the historical window requested
	DefaultHistoryHours = 24
)

var (
	// ErrAlreadyStarted is returned by a second call to Start.
	ErrAlreadyStarted = errors.New("dashboard: controller already started")

	// ErrStopped is returned by cycles attempted after Stop.
	ErrStopped = errors.New("dashboard: controller stopped")
)

// Source is the part of the API client the controller polls.
type Source interface {
	FetchLatestData(ctx context.Context) (*api.LatestData, error)
	FetchHistoricalData(ctx context.Context, hours int) ([]api.HistoricalPoint, error)
}

// Options configures a Controller. Zero values take the defaults.
type Options struct {
	LatestInterval  time.Duration
	HistoryInterval time.Duration
	AlertDuration   time.Duration
	HistoryHours    int

	// OnChange receives a snapshot after every mutation, in mutation order.
	// It runs outside the state lock but must not call back into the
	// Controller synchronously.
	OnChange func(State)

	// OnAlert is called once for each raised alert.
	OnAlert func(comfort.Status)
}

func (o *Options) applyDefaults() {
	if o.LatestInterval <= 0 {
		o.LatestInterval = DefaultLatestInterval
	}
	if o.HistoryInterval <= 0 {
		o.HistoryInterval = DefaultHistoryInterval
	}
	if o.AlertDuration <= 0 {
		o.AlertDuration = DefaultAlertDuration
	}
	if o.HistoryHours <= 0 {
		o.HistoryHours = DefaultHistoryHours
	}
}

// Controller owns the dashboard state and the two polling loops.
type Controller struct {
	source Source
	opts   Options

	mu    sync.Mutex
	state State

	// lastLevel is the previous level for edge-triggering. It follows
	// successful latest cycles in completion order and is independent of
	// what has been rendered.
	lastLevel comfort.Level

	alertTimer *time.Timer
	alertGen   uint64

	started bool
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	// notifyMu is taken before mu is released so notifications leave in
	// mutation order, and so Stop can wait for one in progress.
	notifyMu sync.Mutex
}

// New creates a Controller in the initial state. Nothing runs until Start.
func New(source Source, opts Options) *Controller {
	opts.applyDefaults()
	return &Controller{
		source:    source,
		opts:      opts,
		state:     InitialState(),
		lastLevel: comfort.Comfortable,
	}
}

// Options returns the effective options.
func (c *Controller) Options() Options {
	return c.opts
}

// Start runs one latest and one historical cycle immediately, then keeps
// polling each on its own interval until Stop is called or ctx is done.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	if c.stopped {
		c.mu.Unlock()
		return ErrStopped
	}
	c.started = true
	c.ctx, c.cancel = context.WithCancel(ctx)
	runCtx := c.ctx
	c.mu.Unlock()

	logging.Info("Dashboard controller started",
		zap.Duration("latest_interval", c.opts.LatestInterval),
		zap.Duration("history_interval", c.opts.HistoryInterval),
	)

	c.wg.Add(2)
	go c.poll(runCtx, c.opts.LatestInterval, c.RefreshLatest)
	go c.poll(runCtx, c.opts.HistoryInterval, c.RefreshHistory)
	return nil
}

// poll runs cycle now and then on every tick until ctx is done.
func (c *Controller) poll(ctx context.Context, interval time.Duration, cycle func(context.Context) error) {
	defer c.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	_ = cycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = cycle(ctx)
		}
	}
}

// Stop cancels both loops, the alert timer and in-flight requests. Once it
// returns the state no longer changes and OnChange is not called again.
// Stop is idempotent.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return
	}
	c.stopped = true
	if c.cancel != nil {
		c.cancel()
	}
	c.stopAlertTimerLocked()
	c.mu.Unlock()

	c.wg.Wait()

	// Wait out a notification already past the stopped check
	c.notifyMu.Lock()
	c.notifyMu.Unlock()

	logging.Debug("Dashboard controller stopped")
}

// Snapshot returns a deep copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Refresh runs a latest and a historical cycle concurrently and waits for
// both. Requests are canceled by Stop.
func (c *Controller) Refresh() {
	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = c.RefreshLatest(ctx)
	}()
	go func() {
		defer wg.Done()
		_ = c.RefreshHistory(ctx)
	}()
	wg.Wait()
}

// RefreshLatest runs one latest-data cycle.
func (c *Controller) RefreshLatest(ctx context.Context) error {
	if !c.mutate(func(s *State) bool {
		s.Loading = true
		return true
	}) {
		return ErrStopped
	}

	data, err := c.source.FetchLatestData(ctx)

	var raised *comfort.Status
	applied := c.mutate(func(s *State) bool {
		s.Loading = false
		if err != nil {
			s.Err = err
			return true
		}

		s.Reading = Reading{
			Temperature: data.Temperature,
			Humidity:    data.Humidity,
			AirQuality:  data.AirQuality,
			Timestamp:   data.Timestamp.Time,
		}
		s.Prediction = Prediction{
			Temperature: data.TemperaturePred,
			Humidity:    data.HumidityPred,
			AirQuality:  data.AirQualityPred,
		}
		s.Devices = Devices{
			AC:           data.ACState,
			Purifier:     data.PurifierState,
			Dehumidifier: data.DehumidifierState,
		}
		s.LastUpdated = time.Now()

		next := comfort.NewStatus(data.ComfortLevel, data.ComfortReasons)
		s.Comfort = next
		if comfort.ShouldAlert(c.lastLevel, next.Level) {
			c.raiseAlertLocked(s)
			st := next.Clone()
			raised = &st
		}
		c.lastLevel = next.Level
		return true
	})
	if !applied {
		return ErrStopped
	}

	if err != nil {
		logging.Warn("Latest data cycle failed", zap.Error(err))
		return err
	}

	metrics.RecordUpdate(time.Now())
	if raised != nil {
		metrics.RecordAlertRaised(string(raised.Level))
		logging.LogAlert("raised", string(raised.Level), raised.Reasons)
		if c.opts.OnAlert != nil {
			c.opts.OnAlert(*raised)
		}
	}
	return nil
}

// RefreshHistory runs one historical cycle. Failures are logged and leave
// the previous series in place; they never set the error state.
func (c *Controller) RefreshHistory(ctx context.Context) error {
	if c.isStopped() {
		return ErrStopped
	}

	points, err := c.source.FetchHistoricalData(ctx, c.opts.HistoryHours)
	if err != nil {
		logging.Warn("Historical data cycle failed", zap.Error(err))
		return err
	}

	if !c.mutate(func(s *State) bool {
		s.History = append([]api.HistoricalPoint(nil), points...)
		s.HistoryLoaded = true
		return true
	}) {
		return ErrStopped
	}
	return nil
}

// DismissAlert hides the alert and cancels its timer.
func (c *Controller) DismissAlert() {
	c.mutate(func(s *State) bool {
		if !s.AlertVisible {
			return false
		}
		s.AlertVisible = false
		c.stopAlertTimerLocked()
		metrics.RecordAlertDismissed("manual")
		logging.LogAlert("dismissed", string(s.Comfort.Level), nil)
		return true
	})
}

// raiseAlertLocked shows the alert and (re)arms the hide timer. A newer
// alert supersedes the timer of an older one.
func (c *Controller) raiseAlertLocked(s *State) {
	s.AlertVisible = true
	c.stopAlertTimerLocked()
	gen := c.alertGen
	c.alertTimer = time.AfterFunc(c.opts.AlertDuration, func() {
		c.expireAlert(gen)
	})
}

// stopAlertTimerLocked cancels any pending hide and invalidates its generation.
func (c *Controller) stopAlertTimerLocked() {
	if c.alertTimer != nil {
		c.alertTimer.Stop()
		c.alertTimer = nil
	}
	c.alertGen++
}

func (c *Controller) expireAlert(gen uint64) {
	c.mutate(func(s *State) bool {
		if gen != c.alertGen || !s.AlertVisible {
			return false
		}
		s.AlertVisible = false
		c.alertTimer = nil
		metrics.RecordAlertDismissed("timer")
		logging.LogAlert("expired", string(s.Comfort.Level), nil)
		return true
	})
}

func (c *Controller) isStopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

// mutate applies fn under the lock and, if fn reports a change, delivers a
// snapshot to OnChange. It returns false if the controller is stopped.
func (c *Controller) mutate(fn func(*State) bool) bool {
	c.mu.Lock()
	if c.stopped {
		c.mu.Unlock()
		return false
	}
	if !fn(&c.state) {
		c.mu.Unlock()
		return true
	}
	c.state.Seq++
	snap := c.state.Clone()

	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()

	if c.opts.OnChange != nil {
		c.opts.OnChange(snap)
	}
	return true
}
