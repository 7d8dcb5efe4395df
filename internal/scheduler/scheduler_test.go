package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestAutoRefresherRuns(t *testing.T) {
	var calls int32
	a := New(func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, time.Second)

	if err := a.Start(30 * time.Millisecond); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer a.Stop()

	if atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("refresh must wait for the first interval")
	}

	deadline := time.Now().Add(2 * time.Second)
	for atomic.LoadInt32(&calls) < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("expected at least 2 refreshes, got %d", atomic.LoadInt32(&calls))
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestAutoRefresherDisable(t *testing.T) {
	var calls int32
	a := New(func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, time.Second)

	if err := a.Start(DefaultInterval); err != nil {
		t.Fatalf("start: %v", err)
	}
	defer a.Stop()
	if a.Interval() != DefaultInterval {
		t.Fatalf("interval = %v", a.Interval())
	}

	if err := a.RescheduleMinutes(0); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if a.Interval() != 0 {
		t.Fatalf("expected disabled, got %v", a.Interval())
	}
	if n := len(a.scheduler.Jobs()); n != 0 {
		t.Fatalf("expected no jobs, got %d", n)
	}

	if err := a.RescheduleMinutes(15); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if err := a.RescheduleMinutes(5); err != nil {
		t.Fatalf("reschedule: %v", err)
	}
	if n := len(a.scheduler.Jobs()); n != 1 {
		t.Fatalf("expected a single job, got %d", n)
	}
	if a.Interval() != 5*time.Minute {
		t.Fatalf("interval = %v", a.Interval())
	}
}

func TestAutoRefresherStop(t *testing.T) {
	var calls int32
	a := New(func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}, time.Second)

	if err := a.Start(20 * time.Millisecond); err != nil {
		t.Fatalf("start: %v", err)
	}
	a.Stop()
	before := atomic.LoadInt32(&calls)
	time.Sleep(80 * time.Millisecond)
	if atomic.LoadInt32(&calls) != before {
		t.Fatalf("refresh ran after stop")
	}
}
