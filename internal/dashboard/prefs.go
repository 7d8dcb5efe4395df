package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/weather-dashboard/internal/format"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

var validate = validator.New()

var (
	// ErrUnknownPreference is returned for a key outside the preference set.
	ErrUnknownPreference = errors.New("unknown preference")
	// ErrInvalidPreference is returned when a value does not fit its key.
	ErrInvalidPreference = errors.New("invalid preference value")
)

// decodePreference checks raw against key and returns the decoded value.
func decodePreference(key string, raw json.RawMessage) (any, error) {
	invalid := func(err error) error {
		return fmt.Errorf("%w for %s: %v", ErrInvalidPreference, key, err)
	}

	switch key {
	case store.PrefUnits:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, invalid(err)
		}
		u, err := weather.ParseUnitSystem(s)
		if err != nil {
			return nil, invalid(err)
		}
		return u, nil

	case store.PrefWindUnit:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, invalid(err)
		}
		w, err := weather.ParseWindUnit(s)
		if err != nil {
			return nil, invalid(err)
		}
		return w, nil

	case store.PrefTimeFormat:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, invalid(err)
		}
		if err := validate.Var(s, "oneof=12h 24h"); err != nil {
			return nil, invalid(err)
		}
		return format.TimeFormat(s), nil

	case store.PrefTheme:
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, invalid(err)
		}
		if err := validate.Var(s, "oneof=light dark auto"); err != nil {
			return nil, invalid(err)
		}
		return s, nil

	case store.PrefAutoRefreshMinutes:
		var n int
		if err := json.Unmarshal(raw, &n); err != nil {
			return nil, invalid(err)
		}
		if err := validate.Var(n, "gte=0,lte=1440"); err != nil {
			return nil, invalid(err)
		}
		return n, nil

	case store.PrefHapticEnabled, store.PrefHighContrastEnabled, store.PrefParticlesEnabled:
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return nil, invalid(err)
		}
		return b, nil

	case store.PrefDefaultLocation:
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil, nil
		}
		var c geo.Coordinate
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, invalid(err)
		}
		if err := validate.Struct(c); err != nil {
			return nil, invalid(err)
		}
		return c, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreference, key)
	}
}

// SetPreference validates and stores a preference. Changing the refresh
// period reschedules the timer; changing units updates the state, and the
// next load uses them.
func (c *Controller) SetPreference(ctx context.Context, key string, raw json.RawMessage) error {
	value, err := decodePreference(key, raw)
	if err != nil {
		return err
	}
	if err := c.store.SavePreference(ctx, key, value); err != nil {
		return err
	}

	switch key {
	case store.PrefAutoRefreshMinutes:
		c.mu.RLock()
		r := c.refresher
		c.mu.RUnlock()
		if r != nil {
			if err := r.RescheduleMinutes(value.(int)); err != nil {
				return fmt.Errorf("reschedule auto-refresh: %w", err)
			}
		}
	case store.PrefUnits:
		c.mu.Lock()
		c.state.Units = value.(weather.UnitSystem)
		c.mu.Unlock()
	}

	slog.Info("preference updated", "key", key)
	return nil
}

// Preferences returns every preference, stored values over defaults.
func (c *Controller) Preferences(ctx context.Context) (map[string]json.RawMessage, error) {
	return c.store.AllPreferences(ctx)
}

// Preference returns one preference, or its default.
func (c *Controller) Preference(ctx context.Context, key string) (json.RawMessage, error) {
	def, ok := store.PreferenceDefaults[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreference, key)
	}
	return c.store.GetPreference(ctx, key, def), nil
}

// DisplayOptions reads the formatting preferences.
func (c *Controller) DisplayOptions(ctx context.Context) format.Options {
	units := c.units(ctx)
	wind, err := weather.ParseWindUnit(store.Preference(ctx, c.store, store.PrefWindUnit, string(units.DefaultWindUnit())))
	if err != nil {
		wind = units.DefaultWindUnit()
	}
	tf := store.Preference(ctx, c.store, store.PrefTimeFormat, string(format.Clock12))
	return format.Options{WindUnit: wind, TimeFormat: format.TimeFormat(tf)}
}

// AutoRefreshMinutes reads the refresh period preference.
func (c *Controller) AutoRefreshMinutes(ctx context.Context) int {
	return store.Preference(ctx, c.store, store.PrefAutoRefreshMinutes, store.DefaultAutoRefreshMinutes)
}
