package weather

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/i474232898/weather-dashboard/internal/geo"
)

type fakeSource struct {
	currentErr  error
	forecastErr error
	airErr      error
	pressure    float64
	block       bool
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) FetchCurrent(ctx context.Context, coord geo.Coordinate, units UnitSystem) (CurrentConditions, error) {
	if f.block {
		<-ctx.Done()
		return CurrentConditions{}, ctx.Err()
	}
	if f.currentErr != nil {
		return CurrentConditions{}, f.currentErr
	}
	pressure := f.pressure
	if pressure == 0 {
		pressure = 1013
	}
	return CurrentConditions{
		Temperature:    25,
		Humidity:       60,
		Pressure:       pressure,
		WindSpeedMS:    4,
		CityName:       "Paris",
		Country:        "FR",
		TimezoneOffset: 7200,
	}, nil
}

func (f *fakeSource) FetchForecast(ctx context.Context, coord geo.Coordinate, units UnitSystem) (Timeline, error) {
	if f.forecastErr != nil {
		return Timeline{}, f.forecastErr
	}
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	return Timeline{
		Points:         timelineFrom(start, make([]float64, 40), nil),
		TimezoneOffset: 7200,
	}, nil
}

func (f *fakeSource) FetchAirQuality(ctx context.Context, coord geo.Coordinate) (AirQualitySample, error) {
	if f.airErr != nil {
		return AirQualitySample{}, f.airErr
	}
	return AirQualitySample{AQI: 2, Description: AQIDescription(2)}, nil
}

type fakeUV struct{ err error }

func (f fakeUV) FetchUV(ctx context.Context, coord geo.Coordinate) (UVSample, error) {
	if f.err != nil {
		return UVSample{}, f.err
	}
	return UVSample{Index: 5.2, MaxToday: 7, Risk: UVRisk(5.2)}, nil
}

var paris = geo.Coordinate{Lat: 48.8566, Lon: 2.3522}

func TestFetchAllCombinesSignals(t *testing.T) {
	o := NewOrchestrator(&fakeSource{}, fakeUV{}, nil, time.Second)

	snap, err := o.FetchAll(context.Background(), paris, Metric)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Location.Name != "Paris" || snap.Location.Country != "FR" {
		t.Fatalf("expected upstream place name, got %+v", snap.Location)
	}
	if snap.Location.Lat != paris.Lat {
		t.Fatalf("expected requested coordinate to be kept, got %v", snap.Location.Lat)
	}
	if len(snap.Hourly) != HourlyPoints {
		t.Fatalf("expected %d hourly entries, got %d", HourlyPoints, len(snap.Hourly))
	}
	if len(snap.Daily) == 0 || len(snap.Daily) > MaxDailyEntries {
		t.Fatalf("unexpected daily entries: %d", len(snap.Daily))
	}
	if snap.AirQuality == nil || snap.UV == nil {
		t.Fatalf("expected optional signals to be present")
	}
	if snap.Current.DewPoint == nil {
		t.Fatalf("expected dew point")
	}
	if snap.PressureTrend != PressureUnknown {
		t.Fatalf("first fetch trend = %s, want unknown", snap.PressureTrend)
	}
	if snap.Astronomy.Sun.DayLength <= 0 {
		t.Fatalf("expected astronomy data")
	}
}

func TestFetchAllOptionalFailure(t *testing.T) {
	o := NewOrchestrator(&fakeSource{airErr: errors.New("503")}, fakeUV{err: errors.New("boom")}, nil, time.Second)

	snap, err := o.FetchAll(context.Background(), paris, Metric)
	if err != nil {
		t.Fatalf("optional failure must not fail the fetch: %v", err)
	}
	if snap.AirQuality != nil {
		t.Fatalf("expected nil air quality")
	}
	if snap.UV != nil {
		t.Fatalf("expected nil uv")
	}
}

func TestFetchAllWithoutUVSource(t *testing.T) {
	o := NewOrchestrator(&fakeSource{}, nil, nil, time.Second)
	snap, err := o.FetchAll(context.Background(), paris, Metric)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.UV != nil {
		t.Fatalf("expected nil uv")
	}
}

func TestFetchAllRequiredFailure(t *testing.T) {
	upstream := errors.New("401 unauthorized")
	o := NewOrchestrator(&fakeSource{currentErr: upstream}, fakeUV{}, nil, time.Second)

	snap, err := o.FetchAll(context.Background(), paris, Metric)
	if snap != nil {
		t.Fatalf("expected no snapshot on required failure")
	}
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Op != "current" {
		t.Fatalf("expected current FetchError, got %v", err)
	}
	if !errors.Is(err, upstream) {
		t.Fatalf("expected wrapped upstream error")
	}

	o = NewOrchestrator(&fakeSource{forecastErr: upstream}, fakeUV{}, nil, time.Second)
	if _, err := o.FetchAll(context.Background(), paris, Metric); !errors.As(err, &fe) || fe.Op != "forecast" {
		t.Fatalf("expected forecast FetchError, got %v", err)
	}
}

func TestFetchAllTimeout(t *testing.T) {
	o := NewOrchestrator(&fakeSource{block: true}, nil, nil, 50*time.Millisecond)

	_, err := o.FetchAll(context.Background(), paris, Metric)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestFetchAllPressureTrend(t *testing.T) {
	src := &fakeSource{pressure: 1010}
	o := NewOrchestrator(src, nil, nil, time.Second)

	if _, err := o.FetchAll(context.Background(), paris, Metric); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	src.pressure = 1013
	snap, err := o.FetchAll(context.Background(), paris, Metric)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.PressureTrend != PressureRising {
		t.Fatalf("trend = %s, want rising", snap.PressureTrend)
	}
}
