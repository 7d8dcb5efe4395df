package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

type stubFetcher struct {
	mu  sync.Mutex
	err error
}

func (f *stubFetcher) FetchAll(_ context.Context, coord geo.Coordinate, units weather.UnitSystem) (*weather.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, &weather.FetchError{Op: "forecast", Err: f.err}
	}
	return &weather.Snapshot{
		ID:       uuid.New(),
		Location: coord,
		Units:    units,
		Current: weather.CurrentConditions{
			Temperature: 18,
			Description: "light rain",
			Icon:        "10d",
		},
	}, nil
}

type deniedProvider struct{}

func (deniedProvider) CurrentPosition(context.Context, geo.PositionOptions) (geo.Coordinate, error) {
	return geo.Coordinate{}, &geo.LocationError{Kind: geo.PermissionDenied}
}

func newTestApp(t *testing.T, provider geo.PositionProvider, fetcher dashboard.Fetcher) *fiber.App {
	t.Helper()

	st := store.New(store.NewMemoryBackend(0))
	t.Cleanup(func() { st.Close() })

	resolver := geo.NewResolver(provider, st, geo.ResolverConfig{})
	ctrl := dashboard.New(resolver, fetcher, nil, st)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, ctrl)
	return app
}

func do(t *testing.T, app *fiber.App, method, target, body string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, data
}

func expectStatus(t *testing.T, resp *http.Response, body []byte, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d: %s", want, resp.StatusCode, body)
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, deniedProvider{}, &stubFetcher{})
	resp, body := do(t, app, http.MethodGet, "/health", "")
	expectStatus(t, resp, body, http.StatusOK)
}

func TestWeatherForCoordinates(t *testing.T) {
	app := newTestApp(t, deniedProvider{}, &stubFetcher{})

	resp, body := do(t, app, http.MethodGet, "/api/v1/weather?lat=48.8566&lon=2.3522&name=Paris&country=FR", "")
	expectStatus(t, resp, body, http.StatusOK)

	var got struct {
		State struct {
			Location *geo.Coordinate `json:"location"`
		} `json:"state"`
		Current *struct {
			Location    string `json:"location"`
			Description string `json:"description"`
		} `json:"current"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.State.Location == nil || got.State.Location.Name != "Paris" {
		t.Fatalf("expected Paris, got %+v", got.State.Location)
	}
	if got.Current == nil || got.Current.Description != "Light Rain" {
		t.Fatalf("expected rendered panel, got %+v", got.Current)
	}
}

func TestWeatherQueryValidation(t *testing.T) {
	app := newTestApp(t, deniedProvider{}, &stubFetcher{})

	for _, target := range []string{
		"/api/v1/weather?lat=91&lon=0",
		"/api/v1/weather?lat=10",
		"/api/v1/weather?lat=abc&lon=0",
		"/api/v1/astronomy?lat=0&lon=181",
	} {
		resp, body := do(t, app, http.MethodGet, target, "")
		expectStatus(t, resp, body, http.StatusBadRequest)
	}
}

func TestWeatherWithoutLocationFallsBack(t *testing.T) {
	app := newTestApp(t, deniedProvider{}, &stubFetcher{})

	resp, body := do(t, app, http.MethodGet, "/api/v1/weather", "")
	expectStatus(t, resp, body, http.StatusOK)

	var got struct {
		State dashboard.State `json:"state"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.State.LocationTier != geo.TierDefault {
		t.Fatalf("expected default tier, got %q", got.State.LocationTier)
	}
}

func TestFetchFailureIsBadGateway(t *testing.T) {
	app := newTestApp(t, deniedProvider{}, &stubFetcher{err: errors.New("upstream down")})

	resp, body := do(t, app, http.MethodGet, "/api/v1/weather?lat=1&lon=1", "")
	expectStatus(t, resp, body, http.StatusBadGateway)
}

func TestCurrentLocationErrors(t *testing.T) {
	tests := []struct {
		name     string
		provider geo.PositionProvider
		want     int
	}{
		{"denied", deniedProvider{}, http.StatusForbidden},
		{"unavailable", geo.StaticProvider{}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, tt.provider, &stubFetcher{})
			resp, body := do(t, app, http.MethodPost, "/api/v1/location/current", "")
			expectStatus(t, resp, body, tt.want)
		})
	}
}

func TestCurrentLocation(t *testing.T) {
	pos := geo.Coordinate{Lat: 35.6762, Lon: 139.6503, Name: "Tokyo", Country: "JP"}
	app := newTestApp(t, geo.StaticProvider{Position: &pos}, &stubFetcher{})

	resp, body := do(t, app, http.MethodPost, "/api/v1/location/current", "")
	expectStatus(t, resp, body, http.StatusOK)

	resp, body = do(t, app, http.MethodGet, "/api/v1/state", "")
	expectStatus(t, resp, body, http.StatusOK)
	var st dashboard.State
	if err := json.Unmarshal(body, &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.LocationTier != geo.TierGPS || st.Location == nil || st.Location.Name != "Tokyo" {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestPreferences(t *testing.T) {
	app := newTestApp(t, deniedProvider{}, &stubFetcher{})

	resp, body := do(t, app, http.MethodPut, "/api/v1/preferences/units", `"imperial"`)
	expectStatus(t, resp, body, http.StatusOK)

	resp, body = do(t, app, http.MethodGet, "/api/v1/preferences/units", "")
	expectStatus(t, resp, body, http.StatusOK)
	var got struct {
		Value string `json:"value"`
	}
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Value != "imperial" {
		t.Fatalf("expected imperial, got %q", got.Value)
	}

	resp, body = do(t, app, http.MethodPut, "/api/v1/preferences/units", `"kelvin"`)
	expectStatus(t, resp, body, http.StatusBadRequest)

	resp, body = do(t, app, http.MethodPut, "/api/v1/preferences/colour", `"red"`)
	expectStatus(t, resp, body, http.StatusNotFound)

	resp, body = do(t, app, http.MethodGet, "/api/v1/preferences", "")
	expectStatus(t, resp, body, http.StatusOK)
	var all map[string]json.RawMessage
	if err := json.Unmarshal(body, &all); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(all["units"]) != `"imperial"` || string(all["theme"]) != `"light"` {
		t.Fatalf("unexpected preferences: %s", body)
	}
}

func TestFavorites(t *testing.T) {
	app := newTestApp(t, deniedProvider{}, &stubFetcher{})

	resp, body := do(t, app, http.MethodPost, "/api/v1/favorites/toggle", "")
	expectStatus(t, resp, body, http.StatusConflict)

	resp, body = do(t, app, http.MethodGet, "/api/v1/weather?lat=51.50741&lon=-0.12776&name=London&country=GB", "")
	expectStatus(t, resp, body, http.StatusOK)

	resp, body = do(t, app, http.MethodPost, "/api/v1/favorites/toggle", "")
	expectStatus(t, resp, body, http.StatusOK)
	if !strings.Contains(string(body), `"isFavorite":true`) {
		t.Fatalf("expected favorite added, got %s", body)
	}

	resp, body = do(t, app, http.MethodPost, "/api/v1/favorites", `{"lat":40.7128,"lon":-74.006,"name":"New York","country":"US"}`)
	expectStatus(t, resp, body, http.StatusCreated)

	resp, body = do(t, app, http.MethodPost, "/api/v1/favorites", `{"lat":140,"lon":0}`)
	expectStatus(t, resp, body, http.StatusBadRequest)

	resp, body = do(t, app, http.MethodGet, "/api/v1/favorites", "")
	expectStatus(t, resp, body, http.StatusOK)
	var favs []store.Favorite
	if err := json.Unmarshal(body, &favs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(favs) != 2 {
		t.Fatalf("expected 2 favorites, got %+v", favs)
	}
	keys := map[string]bool{}
	for _, f := range favs {
		keys[f.Key] = true
	}
	if !keys["51.5074,-0.1278"] || !keys["40.7128,-74.0060"] {
		t.Fatalf("unexpected favorite keys: %v", keys)
	}

	resp, body = do(t, app, http.MethodDelete, "/api/v1/favorites/51.50740,-0.1278", "")
	expectStatus(t, resp, body, http.StatusNoContent)

	resp, body = do(t, app, http.MethodGet, "/api/v1/state", "")
	expectStatus(t, resp, body, http.StatusOK)
	if !strings.Contains(string(body), `"isFavorite":false`) {
		t.Fatalf("expected state to drop favorite flag, got %s", body)
	}

	resp, body = do(t, app, http.MethodGet, "/api/v1/favorites", "")
	expectStatus(t, resp, body, http.StatusOK)
	favs = nil
	if err := json.Unmarshal(body, &favs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(favs) != 1 || favs[0].Key != "40.7128,-74.0060" {
		t.Fatalf("expected only New York left, got %+v", favs)
	}

	resp, body = do(t, app, http.MethodDelete, "/api/v1/favorites/new-york", "")
	expectStatus(t, resp, body, http.StatusBadRequest)
}

func TestSearchShortQuery(t *testing.T) {
	app := newTestApp(t, deniedProvider{}, &stubFetcher{})

	resp, body := do(t, app, http.MethodGet, "/api/v1/search?q=ab", "")
	expectStatus(t, resp, body, http.StatusOK)
	if strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("expected empty list, got %s", body)
	}

	resp, body = do(t, app, http.MethodGet, "/api/v1/search", "")
	expectStatus(t, resp, body, http.StatusBadRequest)
}

func TestAstronomy(t *testing.T) {
	app := newTestApp(t, deniedProvider{}, &stubFetcher{})

	resp, body := do(t, app, http.MethodGet, "/api/v1/astronomy", "")
	expectStatus(t, resp, body, http.StatusConflict)

	resp, body = do(t, app, http.MethodGet, "/api/v1/astronomy?lat=51.5&lon=-0.12&at=2024-06-21T12:00:00Z", "")
	expectStatus(t, resp, body, http.StatusOK)
	if !strings.Contains(string(body), `"isDaytime":true`) {
		t.Fatalf("expected daytime at London midsummer noon, got %s", body)
	}

	resp, body = do(t, app, http.MethodGet, "/api/v1/astronomy?lat=51.5&lon=-0.12&at=noon", "")
	expectStatus(t, resp, body, http.StatusBadRequest)
}

func TestYesterdayNotFound(t *testing.T) {
	app := newTestApp(t, deniedProvider{}, &stubFetcher{})
	resp, body := do(t, app, http.MethodGet, "/api/v1/weather/yesterday", "")
	expectStatus(t, resp, body, http.StatusNotFound)
}

func TestDeleteDataRequiresConfirmation(t *testing.T) {
	app := newTestApp(t, deniedProvider{}, &stubFetcher{})

	resp, body := do(t, app, http.MethodPost, "/api/v1/favorites", `{"lat":1,"lon":2}`)
	expectStatus(t, resp, body, http.StatusCreated)

	resp, body = do(t, app, http.MethodDelete, "/api/v1/data", "")
	expectStatus(t, resp, body, http.StatusBadRequest)

	resp, body = do(t, app, http.MethodDelete, "/api/v1/data?confirm=true", "")
	expectStatus(t, resp, body, http.StatusNoContent)

	resp, body = do(t, app, http.MethodGet, "/api/v1/favorites", "")
	expectStatus(t, resp, body, http.StatusOK)
	if strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("expected no favorites after reset, got %s", body)
	}
}
