package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/i474232898/weather-dashboard/internal/geo"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrUnsupportedDSN is returned for an unknown STORE_DSN scheme.
	ErrUnsupportedDSN = errors.New("unsupported store dsn")
)

// Favorite is a saved location keyed by geo.FavoriteKey.
type Favorite struct {
	Key     string    `json:"key"`
	Lat     float64   `json:"lat"`
	Lon     float64   `json:"lon"`
	Name    string    `json:"name"`
	Country string    `json:"country"`
	AddedAt time.Time `json:"addedAt"`
}

// NewFavorite builds a favorite for c.
func NewFavorite(c geo.Coordinate, addedAt time.Time) Favorite {
	return Favorite{
		Key:     geo.FavoriteKey(c),
		Lat:     c.Lat,
		Lon:     c.Lon,
		Name:    c.Name,
		Country: c.Country,
		AddedAt: addedAt.UTC(),
	}
}

// Coordinate converts the favorite back into a coordinate.
func (f Favorite) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: f.Lat, Lon: f.Lon, Name: f.Name, Country: f.Country}
}

// CacheEntry is one record of the weather_cache collection.
type CacheEntry struct {
	Key      string
	Data     []byte
	StoredAt time.Time
}

// Backend is a durable key-value store with three collections:
// weather_cache, favorites and preferences. Preference values are JSON.
type Backend interface {
	GetPreference(ctx context.Context, key string) ([]byte, error)
	PutPreference(ctx context.Context, key string, value []byte) error
	Preferences(ctx context.Context) (map[string][]byte, error)

	GetFavorite(ctx context.Context, key string) (Favorite, error)
	PutFavorite(ctx context.Context, f Favorite) error
	DeleteFavorite(ctx context.Context, key string) error
	Favorites(ctx context.Context) ([]Favorite, error)

	GetCache(ctx context.Context, key string) (CacheEntry, error)
	PutCache(ctx context.Context, e CacheEntry) error
	DeleteCachePrefix(ctx context.Context, prefix string) error

	// Clear erases all three collections.
	Clear(ctx context.Context) error
	Close() error
}

// OpenBackend opens the backend named by dsn: memory://, sqlite://<path> or
// postgres://....
func OpenBackend(ctx context.Context, dsn string) (Backend, error) {
	switch {
	case dsn == "" || strings.HasPrefix(dsn, "memory://"):
		return NewMemoryBackend(0), nil
	case strings.HasPrefix(dsn, "sqlite://"):
		return OpenSQLite(ctx, strings.TrimPrefix(dsn, "sqlite://"))
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return OpenPostgres(ctx, dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDSN, dsn)
	}
}
