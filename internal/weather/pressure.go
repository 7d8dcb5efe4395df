package weather

import "sync"

// pressureThreshold is the change in hPa between two readings that counts as
// a trend.
const pressureThreshold = 1.0

// ClassifyPressureTrend compares a reading with the one observed just before it.
func ClassifyPressureTrend(prev, next float64) PressureTrend {
	delta := next - prev
	switch {
	case delta > pressureThreshold:
		return PressureRising
	case delta < -pressureThreshold:
		return PressureFalling
	default:
		return PressureSteady
	}
}

// PressureTracker holds the previously observed pressure so consecutive
// fetches can be compared.
type PressureTracker struct {
	mu   sync.Mutex
	prev *float64
}

// NewPressureTracker returns a tracker with no previous sample.
func NewPressureTracker() *PressureTracker {
	return &PressureTracker{}
}

// Observe classifies p against the previous sample and records p as the new
// previous sample. The first observation is PressureUnknown.
func (t *PressureTracker) Observe(p float64) PressureTrend {
	t.mu.Lock()
	defer t.mu.Unlock()

	trend := PressureUnknown
	if t.prev != nil {
		trend = ClassifyPressureTrend(*t.prev, p)
	}
	t.prev = &p
	return trend
}

// Previous returns the last observed sample, if any.
func (t *PressureTracker) Previous() (float64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.prev == nil {
		return 0, false
	}
	return *t.prev, true
}

// Reset forgets the previous sample.
func (t *PressureTracker) Reset() {
	t.mu.Lock()
	t.prev = nil
	t.mu.Unlock()
}
