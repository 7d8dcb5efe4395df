package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSource is returned when the orchestrator has no upstream configured.
	ErrNoSource = errors.New("no weather source configured")
	// ErrUVUnsupported is returned when no UV source is configured.
	ErrUVUnsupported = errors.New("uv index not supported")
)

// FetchError reports a failed required sub-fetch (current conditions or the
// forecast timeline). No snapshot is produced when it is returned.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func required(op string, err error) error {
	if err == nil {
		return nil
	}
	return &FetchError{Op: op, Err: err}
}
