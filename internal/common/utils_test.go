package common

import (
	"math"
	"testing"
)

func TestHasAny(t *testing.T) {
	if !HasAny("User denied Geolocation", "denied", "blocked") {
		t.Fatal("expected match ignoring case")
	}
	if HasAny("timeout", "denied") {
		t.Fatal("unexpected match")
	}
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		in     float64
		places int
		want   float64
	}{
		{51.50741, 4, 51.5074},
		{-0.12776, 4, -0.1278},
		{-0.00001, 4, 0},
		{1.25, 1, 1.3},
	}
	for _, tt := range tests {
		got := RoundTo(tt.in, tt.places)
		if got != tt.want {
			t.Errorf("RoundTo(%v, %d) = %v, want %v", tt.in, tt.places, got, tt.want)
		}
		if got == 0 && math.Signbit(got) {
			t.Errorf("RoundTo(%v, %d) returned negative zero", tt.in, tt.places)
		}
	}
}
