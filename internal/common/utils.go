package common

import (
	"math"
	"strings"
)

// HasAny returns true if s contains any of the substrings, ignoring case.
func HasAny(s string, subs ...string) bool {
	lower := strings.ToLower(s)
	for _, sub := range subs {
		if strings.Contains(lower, strings.ToLower(sub)) {
			return true
		}
	}
	return false
}

// RoundTo rounds v to the given number of decimal places.
// Negative zero is normalised to zero.
func RoundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	r := math.Round(v*p) / p
	if r == 0 {
		return 0
	}
	return r
}
