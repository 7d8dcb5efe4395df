package geo

import (
	"context"
	"time"
)

// PositionOptions mirrors the knobs a platform geolocation API accepts.
type PositionOptions struct {
	EnableHighAccuracy bool
	Timeout            time.Duration
	// MaximumAge is the oldest previously acquired fix the caller will accept.
	// Zero demands a fresh fix.
	MaximumAge time.Duration
}

// PositionProvider acquires the device position.
type PositionProvider interface {
	CurrentPosition(ctx context.Context, opts PositionOptions) (Coordinate, error)
}

// LastKnownStore persists the most recent successful fix.
type LastKnownStore interface {
	SaveLastLocation(ctx context.Context, c Coordinate) error
	LastLocation(ctx context.Context) (Coordinate, bool)
}

// StaticProvider reports a fixed, configured position. It models a device
// whose position is known ahead of time (e.g. a wall-mounted display).
type StaticProvider struct {
	Position *Coordinate
}

func (p StaticProvider) CurrentPosition(ctx context.Context, _ PositionOptions) (Coordinate, error) {
	if err := ctx.Err(); err != nil {
		return Coordinate{}, err
	}
	if p.Position == nil {
		return Coordinate{}, &LocationError{Kind: Unavailable}
	}
	return *p.Position, nil
}
