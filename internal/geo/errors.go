package geo

import (
	"context"
	"errors"
)

// ErrorKind classifies why a position could not be obtained.
type ErrorKind int

const (
	PermissionDenied ErrorKind = iota + 1
	Unavailable
	Timeout
)

func (k ErrorKind) String() string {
	switch k {
	case PermissionDenied:
		return "permission_denied"
	case Unavailable:
		return "unavailable"
	case Timeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// ErrSuperseded is returned by a resolution that was cancelled because a newer
// request started before it completed.
var ErrSuperseded = errors.New("location request superseded by a newer request")

// LocationError is returned when the position provider denies, cannot
// determine, or times out while acquiring a fix.
type LocationError struct {
	Kind ErrorKind
	Err  error
}

func (e *LocationError) Error() string {
	msg := "failed to get location"
	switch e.Kind {
	case PermissionDenied:
		msg = "location permission denied"
	case Unavailable:
		msg = "location information unavailable"
	case Timeout:
		msg = "location request timed out"
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *LocationError) Unwrap() error {
	return e.Err
}

// Message is a user-facing explanation of the failure.
func (e *LocationError) Message() string {
	switch e.Kind {
	case PermissionDenied:
		return "Location access was denied. Please allow location access in your device settings and try again."
	case Unavailable:
		return "Your location could not be determined. Check that location services are on and try again."
	case Timeout:
		return "Getting your location took too long. Please try again."
	default:
		return "Could not get your location."
	}
}

// IsKind reports whether err is a LocationError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var lerr *LocationError
	return errors.As(err, &lerr) && lerr.Kind == kind
}

// classify turns a provider error into a LocationError. Deadline expiry on
// the request context always maps to Timeout.
func classify(reqCtx context.Context, err error) *LocationError {
	if errors.Is(reqCtx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &LocationError{Kind: Timeout, Err: err}
	}
	var lerr *LocationError
	if errors.As(err, &lerr) {
		return lerr
	}
	return &LocationError{Kind: Unavailable, Err: err}
}
