package geo

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLocationErrorMessages(t *testing.T) {
	seen := map[string]ErrorKind{}
	for _, kind := range []ErrorKind{PermissionDenied, Unavailable, Timeout} {
		msg := (&LocationError{Kind: kind}).Message()
		if prev, ok := seen[msg]; ok {
			t.Fatalf("%v and %v share message %q", prev, kind, msg)
		}
		seen[msg] = kind
	}
}

func TestClassify(t *testing.T) {
	expired, cancel := context.WithDeadline(context.Background(), time.Unix(0, 0))
	defer cancel()

	tests := []struct {
		name string
		ctx  context.Context
		err  error
		want ErrorKind
	}{
		{"deadline", expired, errors.New("no fix"), Timeout},
		{"denied", context.Background(), &LocationError{Kind: PermissionDenied}, PermissionDenied},
		{"other", context.Background(), errors.New("no gps"), Unavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.ctx, tt.err); got.Kind != tt.want {
				t.Fatalf("got %v, want %v", got.Kind, tt.want)
			}
		})
	}
}
