package weather

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/i474232898/weather-dashboard/internal/astro"
	"github.com/i474232898/weather-dashboard/internal/geo"
)

// DefaultFetchTimeout bounds one FetchAll call.
const DefaultFetchTimeout = 15 * time.Second

// Orchestrator assembles weather snapshots from the upstream sources.
//
// Current conditions and the forecast timeline are required; air quality and
// UV are optional and degrade to nil. Astronomy is computed locally.
type Orchestrator struct {
	source   Source
	uv       UVSource
	pressure *PressureTracker
	timeout  time.Duration
	now      func() time.Time
}

// NewOrchestrator creates an Orchestrator. uv may be nil, in which case the
// UV field of every snapshot is nil. A nil tracker gets a fresh one.
func NewOrchestrator(source Source, uv UVSource, pressure *PressureTracker, timeout time.Duration) *Orchestrator {
	if pressure == nil {
		pressure = NewPressureTracker()
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Orchestrator{
		source:   source,
		uv:       uv,
		pressure: pressure,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Pressure exposes the tracker holding the previous pressure sample.
func (o *Orchestrator) Pressure() *PressureTracker {
	return o.pressure
}

// FetchAll fetches every signal for coord concurrently and combines them into
// one snapshot. On a required failure it returns a *FetchError and no snapshot.
func (o *Orchestrator) FetchAll(ctx context.Context, coord geo.Coordinate, units UnitSystem) (*Snapshot, error) {
	if o.source == nil {
		return nil, &FetchError{Op: "current", Err: ErrNoSource}
	}
	if units == "" {
		units = Metric
	}

	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	var (
		current  Result[CurrentConditions]
		timeline Result[Timeline]
		air      Result[AirQualitySample]
		uv       Result[UVSample]
		optional sync.WaitGroup
	)

	optional.Add(2)
	go func() {
		defer optional.Done()
		air = Capture[AirQualitySample](o.source.FetchAirQuality(ctx, coord))
	}()
	go func() {
		defer optional.Done()
		if o.uv == nil {
			uv = Result[UVSample]{Err: ErrUVUnsupported}
			return
		}
		uv = Capture[UVSample](o.uv.FetchUV(ctx, coord))
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		current = Capture[CurrentConditions](o.source.FetchCurrent(gctx, coord, units))
		return required("current", current.Err)
	})
	g.Go(func() error {
		timeline = Capture[Timeline](o.source.FetchForecast(gctx, coord, units))
		return required("forecast", timeline.Err)
	})

	if err := g.Wait(); err != nil {
		cancel()
		optional.Wait()
		slog.Warn("weather fetch failed", "source", o.source.Name(), "location", coord.Key(), "err", err)
		return nil, err
	}
	optional.Wait()

	if !air.OK() {
		slog.Debug("air quality unavailable", "location", coord.Key(), "err", air.Err)
	}
	if !uv.OK() {
		slog.Debug("uv index unavailable", "location", coord.Key(), "err", uv.Err)
	}

	now := o.now()
	cur := current.Value

	// The upstream place name is authoritative for this coordinate.
	loc := coord
	if cur.CityName != "" {
		loc = coord.WithPlace(cur.CityName, cur.Country)
	}

	if dp, ok := dewPointIn(units, cur.Temperature, cur.Humidity); ok {
		cur.DewPoint = &dp
	}

	tz := cur.Location()
	if timeline.Value.TimezoneOffset != 0 {
		tz = time.FixedZone("", timeline.Value.TimezoneOffset)
	}
	points := timeline.Value.Points

	snap := &Snapshot{
		ID:            uuid.New(),
		FetchedAt:     now.UTC(),
		Location:      loc,
		Units:         units,
		Current:       cur,
		Hourly:        NextHours(points, HourlyPoints),
		Daily:         GroupByDay(points, tz, MaxDailyEntries),
		AirQuality:    air.Optional(),
		UV:            uv.Optional(),
		Astronomy:     astro.Compute(coord.Lat, coord.Lon, now),
		PressureTrend: o.pressure.Observe(cur.Pressure),
	}

	slog.Debug("weather snapshot assembled",
		"location", loc.DisplayName(),
		"hourly", len(snap.Hourly),
		"daily", len(snap.Daily),
		"air_quality", snap.AirQuality != nil,
		"uv", snap.UV != nil,
	)
	return snap, nil
}

// dewPointIn computes the dew point in the given unit system.
func dewPointIn(units UnitSystem, temp, humidity float64) (float64, bool) {
	tempC := temp
	if units == Imperial {
		tempC = FahrenheitToCelsius(temp)
	}
	dp, ok := DewPoint(tempC, humidity)
	if !ok {
		return 0, false
	}
	if units == Imperial {
		return CelsiusToFahrenheit(dp), true
	}
	return dp, true
}
