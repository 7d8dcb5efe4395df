package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultWeatherMaxAge is how long a cached snapshot stays fresh.
const DefaultWeatherMaxAge = 10 * time.Minute

var errClosed = errors.New("store closed")

// Error is returned by every failed store operation, including calls made
// after the backend failed to open.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Store is the preference, favorite and weather-cache store. Preferences are
// served from a fast in-process tier backed by the durable Backend. The
// backend may open asynchronously; every durable access waits for it.
type Store struct {
	ready   chan struct{}
	backend Backend
	openErr error

	prefs   *Cache[[]byte]
	prefsMu sync.Mutex
	favMu   sync.Mutex

	weatherMaxAge time.Duration
	now           func() time.Time

	closeOnce sync.Once
	closed    chan struct{}
}

func newStore() *Store {
	return &Store{
		ready:         make(chan struct{}),
		prefs:         NewCache[[]byte](0),
		weatherMaxAge: DefaultWeatherMaxAge,
		now:           time.Now,
		closed:        make(chan struct{}),
	}
}

// New wraps an already open backend.
func New(b Backend) *Store {
	s := newStore()
	s.backend = b
	close(s.ready)
	return s
}

// Open starts opening the backend named by dsn in the background and returns
// immediately. Operations block until the backend is ready.
func Open(dsn string) *Store {
	s := newStore()
	go func() {
		defer close(s.ready)
		b, err := OpenBackend(context.Background(), dsn)
		if err != nil {
			slog.Error("store open failed", "err", err)
			s.openErr = err
			return
		}
		s.backend = b
		slog.Info("store ready", "backend", fmt.Sprintf("%T", b))
	}()
	return s
}

// WithWeatherMaxAge sets the default freshness of cached weather.
func (s *Store) WithWeatherMaxAge(d time.Duration) *Store {
	if d > 0 {
		s.weatherMaxAge = d
	}
	return s
}

// Ready is closed once the backend has opened or failed to open.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

// WaitReady blocks until the backend is usable.
func (s *Store) WaitReady(ctx context.Context) error {
	_, err := s.await(ctx, "open")
	return err
}

func (s *Store) await(ctx context.Context, op string) (Backend, error) {
	select {
	case <-s.ready:
	case <-ctx.Done():
		return nil, &Error{Op: op, Err: ctx.Err()}
	}
	if s.openErr != nil {
		return nil, &Error{Op: op, Err: s.openErr}
	}
	select {
	case <-s.closed:
		return nil, &Error{Op: op, Err: errClosed}
	default:
	}
	return s.backend, nil
}

// Close releases the backend.
func (s *Store) Close() error {
	var err error
	s.closeOnce.Do(func() {
		<-s.ready
		close(s.closed)
		if s.backend != nil {
			err = s.backend.Close()
		}
	})
	return err
}

// ClearAll erases preferences, favorites, the weather cache (including the
// last location) and the fast preference tier.
func (s *Store) ClearAll(ctx context.Context) error {
	b, err := s.await(ctx, "clear")
	if err != nil {
		return err
	}

	s.prefsMu.Lock()
	defer s.prefsMu.Unlock()
	s.favMu.Lock()
	defer s.favMu.Unlock()

	if err := b.Clear(ctx); err != nil {
		return &Error{Op: "clear", Err: err}
	}
	s.prefs.Clear()
	slog.Info("all stored data cleared")
	return nil
}
