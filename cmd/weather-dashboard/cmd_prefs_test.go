package main

import "testing"

func TestPreferenceValue(t *testing.T) {
	tests := []struct {
		arg  string
		want string
	}{
		{"imperial", `"imperial"`},
		{`"dark"`, `"dark"`},
		{"15", "15"},
		{"false", "false"},
		{`{"lat":1,"lon":2}`, `{"lat":1,"lon":2}`},
		{"null", "null"},
		{"New York", `"New York"`},
	}
	for _, tt := range tests {
		if got := string(preferenceValue(tt.arg)); got != tt.want {
			t.Errorf("preferenceValue(%q) = %s, want %s", tt.arg, got, tt.want)
		}
	}
}
