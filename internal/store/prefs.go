package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
)

// Preference keys.
const (
	PrefUnits               = "units"
	PrefTheme               = "theme"
	PrefTimeFormat          = "timeFormat"
	PrefAutoRefreshMinutes  = "autoRefreshMinutes"
	PrefWindUnit            = "windUnit"
	PrefHapticEnabled       = "hapticEnabled"
	PrefHighContrastEnabled = "highContrastEnabled"
	PrefParticlesEnabled    = "particlesEnabled"
	PrefDefaultLocation     = "defaultLocation"
)

// DefaultAutoRefreshMinutes is the refresh period before the user picks one.
const DefaultAutoRefreshMinutes = 30

// PreferenceDefaults are returned for keys that were never written. They are
// not persisted by reads.
var PreferenceDefaults = map[string]any{
	PrefUnits:               "metric",
	PrefTheme:               "light",
	PrefTimeFormat:          "12h",
	PrefAutoRefreshMinutes:  DefaultAutoRefreshMinutes,
	PrefWindUnit:            "kmh",
	PrefHapticEnabled:       true,
	PrefHighContrastEnabled: false,
	PrefParticlesEnabled:    true,
	PrefDefaultLocation:     nil,
}

// SavePreference writes value as JSON to the durable tier, then the fast tier.
func (s *Store) SavePreference(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return &Error{Op: "save preference", Err: err}
	}

	b, err := s.await(ctx, "save preference")
	if err != nil {
		return err
	}

	s.prefsMu.Lock()
	defer s.prefsMu.Unlock()

	if err := b.PutPreference(ctx, key, raw); err != nil {
		return &Error{Op: "save preference", Err: err}
	}
	s.prefs.Set(key, raw)
	return nil
}

// rawPreference reads key from the fast tier, then the durable tier. A durable
// hit is copied into the fast tier.
func (s *Store) rawPreference(ctx context.Context, key string) ([]byte, bool) {
	if raw, ok := s.prefs.Get(key); ok {
		return raw, true
	}

	b, err := s.await(ctx, "get preference")
	if err != nil {
		slog.Warn("preference read failed", "key", key, "err", err)
		return nil, false
	}

	// The durable read and the fill hold prefsMu so a concurrent save or
	// ClearAll is never overwritten with an older value.
	s.prefsMu.Lock()
	defer s.prefsMu.Unlock()
	if raw, ok := s.prefs.Get(key); ok {
		return raw, true
	}

	raw, err := b.GetPreference(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("preference read failed", "key", key, "err", err)
		}
		return nil, false
	}
	s.prefs.Set(key, raw)
	return raw, true
}

// Preference returns the stored value of key decoded as T, or def when the key
// was never written or cannot be read.
func Preference[T any](ctx context.Context, s *Store, key string, def T) T {
	raw, ok := s.rawPreference(ctx, key)
	if !ok {
		return def
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		slog.Warn("preference decode failed", "key", key, "err", err)
		return def
	}
	return v
}

// GetPreference returns the raw JSON value of key, or def encoded as JSON.
func (s *Store) GetPreference(ctx context.Context, key string, def any) json.RawMessage {
	if raw, ok := s.rawPreference(ctx, key); ok {
		return raw
	}
	raw, err := json.Marshal(def)
	if err != nil {
		return json.RawMessage("null")
	}
	return raw
}

// AllPreferences returns every stored preference layered over the defaults.
func (s *Store) AllPreferences(ctx context.Context) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(PreferenceDefaults))
	for k, v := range PreferenceDefaults {
		raw, _ := json.Marshal(v)
		out[k] = raw
	}

	b, err := s.await(ctx, "list preferences")
	if err != nil {
		return out, err
	}
	stored, err := b.Preferences(ctx)
	if err != nil {
		return out, &Error{Op: "list preferences", Err: err}
	}
	for k, v := range stored {
		out[k] = v
	}
	return out, nil
}
