package store

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// weather_cache key layout.
const (
	weatherPrefix     = "weather_"
	snapshotPrefix    = "snapshot_"
	lastLocationKey   = "last_location"
	snapshotDayLayout = "2006-01-02"
)

func weatherKey(c geo.Coordinate, units weather.UnitSystem) string {
	return weatherPrefix + string(units) + "_" + geo.FavoriteKey(c)
}

func (s *Store) putJSON(ctx context.Context, op, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &Error{Op: op, Err: err}
	}
	b, err := s.await(ctx, op)
	if err != nil {
		return err
	}
	if err := b.PutCache(ctx, CacheEntry{Key: key, Data: data, StoredAt: s.now().UTC()}); err != nil {
		return &Error{Op: op, Err: err}
	}
	return nil
}

// getJSON decodes the cache record at key into v and returns its age.
func (s *Store) getJSON(ctx context.Context, op, key string, v any) (time.Duration, bool) {
	b, err := s.await(ctx, op)
	if err != nil {
		slog.Warn("cache read failed", "key", key, "err", err)
		return 0, false
	}
	e, err := b.GetCache(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Warn("cache read failed", "key", key, "err", err)
		}
		return 0, false
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		slog.Warn("cache decode failed", "key", key, "err", err)
		return 0, false
	}
	return s.now().Sub(e.StoredAt), true
}

// SaveWeather caches snap under its location and unit system.
func (s *Store) SaveWeather(ctx context.Context, snap *weather.Snapshot) error {
	return s.putJSON(ctx, "save weather", weatherKey(snap.Location, snap.Units), snap)
}

// CachedWeather returns the cached snapshot for c if it is younger than maxAge.
// A maxAge <= 0 uses the store default.
func (s *Store) CachedWeather(ctx context.Context, c geo.Coordinate, units weather.UnitSystem, maxAge time.Duration) (*weather.Snapshot, bool) {
	if maxAge <= 0 {
		maxAge = s.weatherMaxAge
	}
	var snap weather.Snapshot
	age, ok := s.getJSON(ctx, "cached weather", weatherKey(c, units), &snap)
	if !ok || age > maxAge {
		return nil, false
	}
	return &snap, true
}

// SaveDailySnapshot records snap as today's snapshot for later comparison.
func (s *Store) SaveDailySnapshot(ctx context.Context, snap *weather.Snapshot) error {
	key := snapshotPrefix + s.now().Format(snapshotDayLayout)
	return s.putJSON(ctx, "save snapshot", key, snap)
}

// YesterdaySnapshot returns the snapshot saved on the previous calendar day.
func (s *Store) YesterdaySnapshot(ctx context.Context) (*weather.Snapshot, bool) {
	key := snapshotPrefix + s.now().AddDate(0, 0, -1).Format(snapshotDayLayout)
	var snap weather.Snapshot
	if _, ok := s.getJSON(ctx, "yesterday snapshot", key, &snap); !ok {
		return nil, false
	}
	return &snap, true
}

// SaveLastLocation persists the most recent successful fix.
func (s *Store) SaveLastLocation(ctx context.Context, c geo.Coordinate) error {
	return s.putJSON(ctx, "save last location", lastLocationKey, c)
}

// LastLocation returns the last persisted fix.
func (s *Store) LastLocation(ctx context.Context) (geo.Coordinate, bool) {
	var c geo.Coordinate
	_, ok := s.getJSON(ctx, "last location", lastLocationKey, &c)
	return c, ok
}

// ClearWeatherCache drops cached weather and daily snapshots. The last
// location is kept.
func (s *Store) ClearWeatherCache(ctx context.Context) error {
	b, err := s.await(ctx, "clear weather cache")
	if err != nil {
		return err
	}
	for _, prefix := range []string{weatherPrefix, snapshotPrefix} {
		if err := b.DeleteCachePrefix(ctx, prefix); err != nil {
			return &Error{Op: "clear weather cache", Err: err}
		}
	}
	return nil
}
