package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/geo"
)

func testPostgres(t *testing.T) *PostgresBackend {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	b, err := OpenPostgres(context.Background(), dsn)
	if err != nil {
		t.Skipf("database not available: %v", err)
	}
	t.Cleanup(func() { b.Close() })
	if err := b.Clear(context.Background()); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestPostgresRoundTrip(t *testing.T) {
	b := testPostgres(t)
	ctx := context.Background()
	s := New(b)

	if err := s.SavePreference(ctx, PrefUnits, "imperial"); err != nil {
		t.Fatal(err)
	}
	cold := New(b)
	if got := Preference(ctx, cold, PrefUnits, "metric"); got != "imperial" {
		t.Errorf("expected imperial, got %q", got)
	}

	c := geo.Coordinate{Lat: 60.1699, Lon: 24.9384, Name: "Helsinki", Country: "FI"}
	added, err := s.ToggleFavorite(ctx, c)
	if err != nil || !added {
		t.Fatalf("toggle = %v, %v", added, err)
	}
	if !s.IsFavorite(ctx, c) {
		t.Errorf("expected favorite")
	}

	if err := s.SaveLastLocation(ctx, c); err != nil {
		t.Fatal(err)
	}
	if got, ok := s.LastLocation(ctx); !ok || got.Name != "Helsinki" {
		t.Errorf("unexpected last location %v %v", got, ok)
	}

	if err := b.PutCache(ctx, CacheEntry{Key: "weather_x", Data: []byte(`{}`), StoredAt: time.Now()}); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearAll(ctx); err != nil {
		t.Fatal(err)
	}
	if favs, _ := s.Favorites(ctx); len(favs) != 0 {
		t.Errorf("expected favorites cleared")
	}
}
