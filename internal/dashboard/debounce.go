package dashboard

import (
	"sync"
	"time"
)

// SearchDebounce is the quiet period before an interactive search runs.
const SearchDebounce = 500 * time.Millisecond

// Debouncer runs only the last of a burst of calls, once the burst has been
// quiet for the configured delay.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	timer   *time.Timer
	pending func()

	// inflight counts calls scheduled or running.
	inflight sync.WaitGroup
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, replacing any call still waiting.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
	d.inflight.Add(1)
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() {
		defer d.inflight.Done()
		fn()
	})
}

// Flush runs the waiting call immediately, if it has not fired yet, and
// returns once every call that already fired has finished.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	var fn func()
	if d.timer != nil && d.timer.Stop() {
		fn = d.pending
	}
	d.timer, d.pending = nil, nil
	d.mu.Unlock()

	if fn != nil {
		fn()
		d.inflight.Done()
	}
	d.inflight.Wait()
}

// Stop drops the pending call, if any.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cancelLocked()
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil && d.timer.Stop() {
		d.inflight.Done()
	}
	d.timer, d.pending = nil, nil
}
