package geo

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// State is the outcome of the most recent resolution attempt.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateSuccess
	StateDenied
	StateUnavailable
	StateTimedOut
	StateUsingCachedLocation
	StateUsingDefaultLocation
)

func (s State) String() string {
	switch s {
	case StateRequesting:
		return "requesting"
	case StateSuccess:
		return "success"
	case StateDenied:
		return "denied"
	case StateUnavailable:
		return "unavailable"
	case StateTimedOut:
		return "timed_out"
	case StateUsingCachedLocation:
		return "using_cached_location"
	case StateUsingDefaultLocation:
		return "using_default_location"
	default:
		return "idle"
	}
}

func stateFor(kind ErrorKind) State {
	switch kind {
	case PermissionDenied:
		return StateDenied
	case Timeout:
		return StateTimedOut
	default:
		return StateUnavailable
	}
}

// Tier names the fallback tier a coordinate came from.
type Tier string

const (
	TierGPS     Tier = "gps"
	TierCached  Tier = "cached"
	TierDefault Tier = "default"
)

// ResolverConfig controls timeouts and fallback behaviour.
type ResolverConfig struct {
	FreshTimeout    time.Duration // default 20s
	FallbackTimeout time.Duration // default 20s
	FallbackMaxAge  time.Duration // default 5m
	Default         *Coordinate   // default DefaultLocation
}

type fix struct {
	coord Coordinate
	at    time.Time
}

// Resolver produces coordinates for the weather pipeline. Only one provider
// request is outstanding at a time; starting a new one cancels the previous.
type Resolver struct {
	provider PositionProvider
	store    LastKnownStore
	cfg      ResolverConfig
	def      Coordinate
	now      func() time.Time

	mu      sync.Mutex
	state   State
	lastFix *fix
	cancel  context.CancelFunc
	gen     uint64
}

// NewResolver creates a Resolver. store may be nil, in which case the cached
// tier is skipped.
func NewResolver(provider PositionProvider, store LastKnownStore, cfg ResolverConfig) *Resolver {
	if cfg.FreshTimeout <= 0 {
		cfg.FreshTimeout = 20 * time.Second
	}
	if cfg.FallbackTimeout <= 0 {
		cfg.FallbackTimeout = 20 * time.Second
	}
	if cfg.FallbackMaxAge <= 0 {
		cfg.FallbackMaxAge = 5 * time.Minute
	}
	def := DefaultLocation
	if cfg.Default != nil {
		def = *cfg.Default
	}

	return &Resolver{
		provider: provider,
		store:    store,
		cfg:      cfg,
		def:      def,
		now:      time.Now,
	}
}

// State returns the state of the most recent resolution.
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// ResolveFresh demands a live fix with no cache tolerance. Failures are
// returned as *LocationError and are never replaced by a fallback.
func (r *Resolver) ResolveFresh(ctx context.Context) (Coordinate, error) {
	return r.acquire(ctx, PositionOptions{
		EnableHighAccuracy: true,
		Timeout:            r.cfg.FreshTimeout,
	})
}

// ResolveWithFallback tries a fix (accepting one up to FallbackMaxAge old),
// then the last persisted location, then the default location. It always
// returns a coordinate. A superseded call still returns a fallback but leaves
// the state to the newer request.
func (r *Resolver) ResolveWithFallback(ctx context.Context) (Coordinate, Tier) {
	c, err := r.acquire(ctx, PositionOptions{
		EnableHighAccuracy: true,
		Timeout:            r.cfg.FallbackTimeout,
		MaximumAge:         r.cfg.FallbackMaxAge,
	})
	if err == nil {
		return c, TierGPS
	}
	superseded := errors.Is(err, ErrSuperseded)

	slog.Warn("position unavailable, trying last known location", "err", err)

	// The caller's context may already be done; the lookup is local.
	lookupCtx := context.WithoutCancel(ctx)
	if r.store != nil {
		if last, ok := r.store.LastLocation(lookupCtx); ok {
			if !superseded {
				r.setState(StateUsingCachedLocation)
			}
			return last, TierCached
		}
	}

	slog.Warn("no location available, using default", "location", r.def.DisplayName())
	if !superseded {
		r.setState(StateUsingDefaultLocation)
	}
	return r.def, TierDefault
}

func (r *Resolver) acquire(ctx context.Context, opts PositionOptions) (Coordinate, error) {
	if opts.MaximumAge > 0 {
		if c, ok := r.recentFix(opts.MaximumAge); ok {
			r.setState(StateSuccess)
			return c, nil
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	r.gen++
	gen := r.gen
	r.cancel = cancel
	r.state = StateRequesting
	r.mu.Unlock()

	c, err := r.provider.CurrentPosition(reqCtx, opts)

	r.mu.Lock()
	if gen != r.gen {
		r.mu.Unlock()
		return Coordinate{}, ErrSuperseded
	}
	r.cancel = nil

	if err != nil {
		// Cancelled by the caller rather than failed.
		if ctx.Err() != nil && !errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			r.state = StateIdle
			r.mu.Unlock()
			return Coordinate{}, ctx.Err()
		}
		lerr := classify(reqCtx, err)
		r.state = stateFor(lerr.Kind)
		r.mu.Unlock()
		return Coordinate{}, lerr
	}

	r.state = StateSuccess
	r.lastFix = &fix{coord: c, at: r.now()}
	r.mu.Unlock()

	if r.store != nil {
		if err := r.store.SaveLastLocation(context.WithoutCancel(ctx), c); err != nil {
			slog.Warn("failed to save last known location", "err", err)
		}
	}
	return c, nil
}

func (r *Resolver) recentFix(maxAge time.Duration) (Coordinate, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastFix == nil {
		return Coordinate{}, false
	}
	if r.now().Sub(r.lastFix.at) > maxAge {
		return Coordinate{}, false
	}
	return r.lastFix.coord, true
}

func (r *Resolver) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}
