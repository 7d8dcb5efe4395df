// Package scheduler runs the dashboard's periodic weather refresh.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
)

// DefaultInterval is the refresh period when the user has not chosen one.
const DefaultInterval = 30 * time.Minute

const jobTag = "auto-refresh"

// RefreshFunc reloads the weather for the current location.
type RefreshFunc func(ctx context.Context) error

// AutoRefresher periodically calls a RefreshFunc. At most one refresh job is
// scheduled; changing the interval replaces it.
type AutoRefresher struct {
	mu        sync.Mutex
	scheduler *gocron.Scheduler
	refresh   RefreshFunc
	timeout   time.Duration
	interval  time.Duration
}

// New creates an AutoRefresher. Each run is bounded by timeout.
func New(refresh RefreshFunc, timeout time.Duration) *AutoRefresher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &AutoRefresher{
		scheduler: gocron.NewScheduler(time.UTC),
		refresh:   refresh,
		timeout:   timeout,
	}
}

// Start starts the underlying scheduler with the given interval. An interval
// of zero starts it with auto-refresh disabled.
func (a *AutoRefresher) Start(interval time.Duration) error {
	a.scheduler.StartAsync()
	return a.Reschedule(interval)
}

// Reschedule cancels the existing job and, if interval > 0, schedules a new
// one whose first run is one interval from now.
func (a *AutoRefresher) Reschedule(interval time.Duration) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Not found is fine: nothing was scheduled yet.
	_ = a.scheduler.RemoveByTag(jobTag)
	a.interval = 0

	if interval <= 0 {
		slog.Info("scheduler: auto-refresh disabled")
		return nil
	}

	_, err := a.scheduler.Every(interval).
		Tag(jobTag).
		WaitForSchedule().
		SingletonMode().
		Do(a.run)
	if err != nil {
		return err
	}
	a.interval = interval
	slog.Info("scheduler: auto-refresh scheduled", "interval", interval.String())
	return nil
}

// RescheduleMinutes is Reschedule with the preference's unit.
func (a *AutoRefresher) RescheduleMinutes(minutes int) error {
	return a.Reschedule(time.Duration(minutes) * time.Minute)
}

// Interval returns the active interval, or zero when disabled.
func (a *AutoRefresher) Interval() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interval
}

func (a *AutoRefresher) run() {
	slog.Debug("scheduler: running weather refresh")

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()

	if err := a.refresh(ctx); err != nil {
		slog.Warn("scheduler: refresh failed", "err", err)
		return
	}
	slog.Debug("scheduler: refresh completed")
}

// Stop stops the scheduler and cancels any future jobs.
func (a *AutoRefresher) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.scheduler != nil {
		a.scheduler.Clear()
		a.scheduler.Stop()
	}
	a.interval = 0
}
