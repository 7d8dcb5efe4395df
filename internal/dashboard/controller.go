package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	// MinSearchLength is the shortest query sent to the geocoder.
	MinSearchLength = 3
	// SearchLimit caps the number of search results.
	SearchLimit = 5
)

var (
	// ErrSuperseded is returned by a load whose result was discarded because a
	// newer load started after it.
	ErrSuperseded = errors.New("weather load superseded by a newer request")
	// ErrNoLocation is returned when an action needs a current location and
	// none has been selected yet.
	ErrNoLocation = errors.New("no location selected")
)

// Fetcher builds weather snapshots.
type Fetcher interface {
	FetchAll(ctx context.Context, coord geo.Coordinate, units weather.UnitSystem) (*weather.Snapshot, error)
}

// Rescheduler changes the auto-refresh period.
type Rescheduler interface {
	RescheduleMinutes(minutes int) error
}

// Controller owns the dashboard State.
type Controller struct {
	resolver *geo.Resolver
	fetcher  Fetcher
	searcher weather.CitySearcher
	store    *store.Store

	mu        sync.RWMutex
	state     State
	gen       uint64
	refresher Rescheduler
	now       func() time.Time
}

// New creates a Controller. searcher may be nil, disabling city search.
func New(resolver *geo.Resolver, fetcher Fetcher, searcher weather.CitySearcher, st *store.Store) *Controller {
	return &Controller{
		resolver: resolver,
		fetcher:  fetcher,
		searcher: searcher,
		store:    st,
		state: State{
			Units:         weather.Metric,
			LocationState: geo.StateIdle.String(),
		},
		now: time.Now,
	}
}

// SetRefresher attaches the auto-refresh timer.
func (c *Controller) SetRefresher(r Rescheduler) {
	c.mu.Lock()
	c.refresher = r
	c.mu.Unlock()
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.copy()
}

// Init waits for the store, loads the unit preference and shows the weather
// for the saved default location or, failing that, the resolved location.
func (c *Controller) Init(ctx context.Context) (State, error) {
	if err := c.store.WaitReady(ctx); err != nil {
		slog.Warn("store unavailable, continuing with defaults", "err", err)
	}

	units := c.units(ctx)
	c.mu.Lock()
	c.state.Units = units
	c.mu.Unlock()

	saved := store.Preference[*geo.Coordinate](ctx, c.store, store.PrefDefaultLocation, nil)
	if saved != nil && validate.Struct(saved) == nil {
		return c.load(ctx, *saved, "", true)
	}

	coord, tier := c.resolver.ResolveWithFallback(ctx)
	return c.load(ctx, coord, tier, true)
}

// LoadWeather refetches the weather for the current location. With forceGPS
// it first demands a fresh fix.
func (c *Controller) LoadWeather(ctx context.Context, forceGPS bool) (State, error) {
	if forceGPS {
		return c.UseCurrentLocation(ctx)
	}

	c.mu.RLock()
	loc, tier := c.state.Location, c.state.LocationTier
	c.mu.RUnlock()

	if loc == nil {
		coord, tier := c.resolver.ResolveWithFallback(ctx)
		return c.load(ctx, coord, tier, false)
	}
	return c.load(ctx, *loc, tier, false)
}

// Refresh is LoadWeather without a fresh fix, for the auto-refresh timer.
func (c *Controller) Refresh(ctx context.Context) error {
	_, err := c.LoadWeather(ctx, false)
	return err
}

// UseCurrentLocation demands a fresh fix and loads its weather. A location
// failure leaves the current snapshot in place and is returned verbatim.
func (c *Controller) UseCurrentLocation(ctx context.Context) (State, error) {
	coord, err := c.resolver.ResolveFresh(ctx)
	if err != nil {
		c.mu.Lock()
		c.state.LocationState = c.resolver.State().String()
		var lerr *geo.LocationError
		if errors.As(err, &lerr) {
			c.state.Error = lerr.Message()
		}
		st := c.state.copy()
		c.mu.Unlock()
		return st, err
	}
	return c.load(ctx, coord, geo.TierGPS, false)
}

// ResolveLocation returns the shown location, or resolves one through the
// fallback tiers when nothing is shown yet. It does not load weather.
func (c *Controller) ResolveLocation(ctx context.Context) (geo.Coordinate, geo.Tier) {
	c.mu.RLock()
	loc, tier := c.state.Location, c.state.LocationTier
	c.mu.RUnlock()
	if loc != nil {
		return *loc, tier
	}
	return c.resolver.ResolveWithFallback(ctx)
}

// SelectCity loads the weather for a chosen place.
func (c *Controller) SelectCity(ctx context.Context, coord geo.Coordinate) (State, error) {
	if err := validate.Struct(coord); err != nil {
		return c.State(), err
	}
	return c.load(ctx, coord, "", true)
}

// load fetches (or reuses a cached) snapshot for coord and swaps it into the
// state. Only the most recently started load may change the state.
func (c *Controller) load(ctx context.Context, coord geo.Coordinate, tier geo.Tier, useCache bool) (State, error) {
	units := c.units(ctx)

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.state.Loading = true
	c.mu.Unlock()

	var (
		snap      *weather.Snapshot
		fromCache bool
		err       error
	)
	if useCache {
		snap, fromCache = c.store.CachedWeather(ctx, coord, units, 0)
	}
	if !fromCache {
		snap, err = c.fetcher.FetchAll(ctx, coord, units)
	}

	if err != nil {
		c.mu.Lock()
		defer c.mu.Unlock()
		if gen == c.gen {
			c.state.Loading = false
			c.state.Error = "Failed to load weather data. Please try again."
		}
		return c.state.copy(), err
	}

	if !fromCache {
		c.persist(ctx, snap)
	}
	isFav := c.store.IsFavorite(ctx, snap.Location)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		slog.Debug("discarding superseded weather load", "location", snap.Location.DisplayName())
		return c.state.copy(), ErrSuperseded
	}

	loc := snap.Location
	c.state.Snapshot = snap
	c.state.Location = &loc
	c.state.LocationTier = tier
	c.state.LocationState = c.resolver.State().String()
	c.state.Units = units
	c.state.IsFavorite = isFav
	c.state.Loading = false
	c.state.FromCache = fromCache
	c.state.Error = ""
	c.state.UpdatedAt = c.now().UTC()

	slog.Info("weather loaded",
		"location", loc.DisplayName(),
		"tier", string(tier),
		"cached", fromCache,
		"air_quality", snap.AirQuality != nil,
		"uv", snap.UV != nil,
	)
	return c.state.copy(), nil
}

func (c *Controller) persist(ctx context.Context, snap *weather.Snapshot) {
	if err := c.store.SaveWeather(ctx, snap); err != nil {
		slog.Warn("failed to cache weather", "err", err)
	}
	if err := c.store.SaveDailySnapshot(ctx, snap); err != nil {
		slog.Warn("failed to save daily snapshot", "err", err)
	}
}

func (c *Controller) units(ctx context.Context) weather.UnitSystem {
	raw := store.Preference(ctx, c.store, store.PrefUnits, string(weather.Metric))
	u, err := weather.ParseUnitSystem(raw)
	if err != nil {
		return weather.Metric
	}
	return u
}

// ToggleFavorite saves or removes the current location. It reports whether
// the location is a favorite afterwards.
func (c *Controller) ToggleFavorite(ctx context.Context) (bool, error) {
	c.mu.RLock()
	loc := c.state.Location
	c.mu.RUnlock()
	if loc == nil {
		return false, ErrNoLocation
	}

	added, err := c.store.ToggleFavorite(ctx, *loc)
	if err != nil {
		return false, err
	}
	c.markFavorite(geo.FavoriteKey(*loc), added)
	return added, nil
}

// AddFavorite saves coord.
func (c *Controller) AddFavorite(ctx context.Context, coord geo.Coordinate) (store.Favorite, error) {
	if err := validate.Struct(coord); err != nil {
		return store.Favorite{}, err
	}
	f, err := c.store.SaveFavorite(ctx, coord)
	if err != nil {
		return store.Favorite{}, err
	}
	c.markFavorite(f.Key, true)
	return f, nil
}

// RemoveFavorite deletes the favorite with the given "lat,lon" key. The key is
// re-derived, so any precision of the same coordinate matches.
func (c *Controller) RemoveFavorite(ctx context.Context, key string) error {
	coord, err := geo.ParseFavoriteKey(key)
	if err != nil {
		return err
	}
	if err := c.store.RemoveFavorite(ctx, coord); err != nil {
		return err
	}
	c.markFavorite(coord.Key(), false)
	return nil
}

func (c *Controller) markFavorite(key string, fav bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state.Location != nil && geo.FavoriteKey(*c.state.Location) == key {
		c.state.IsFavorite = fav
	}
}

// Favorites lists saved locations, oldest first.
func (c *Controller) Favorites(ctx context.Context) ([]store.Favorite, error) {
	return c.store.Favorites(ctx)
}

// SearchCities returns up to SearchLimit places. Queries shorter than
// MinSearchLength return an empty list without contacting the geocoder.
func (c *Controller) SearchCities(ctx context.Context, query string) ([]weather.City, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinSearchLength || c.searcher == nil {
		return []weather.City{}, nil
	}
	return c.searcher.SearchCities(ctx, query, SearchLimit)
}

// Yesterday returns the snapshot saved on the previous day, if any.
func (c *Controller) Yesterday(ctx context.Context) (*weather.Snapshot, bool) {
	return c.store.YesterdaySnapshot(ctx)
}

// ClearWeatherCache drops cached snapshots so the next load goes upstream.
func (c *Controller) ClearWeatherCache(ctx context.Context) error {
	return c.store.ClearWeatherCache(ctx)
}

// Reset erases all stored data and returns the state to its initial values.
func (c *Controller) Reset(ctx context.Context) error {
	if err := c.store.ClearAll(ctx); err != nil {
		return err
	}
	if p, ok := c.fetcher.(interface{ Pressure() *weather.PressureTracker }); ok {
		p.Pressure().Reset()
	}

	c.mu.Lock()
	c.gen++
	c.state = State{
		Units:         weather.Metric,
		LocationState: geo.StateIdle.String(),
	}
	r := c.refresher
	c.mu.Unlock()

	if r != nil {
		if err := r.RescheduleMinutes(store.DefaultAutoRefreshMinutes); err != nil {
			slog.Warn("failed to restore auto-refresh", "err", err)
		}
	}
	slog.Info("dashboard reset")
	return nil
}
