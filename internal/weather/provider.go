package weather

import (
	"context"

	"github.com/i474232898/weather-dashboard/internal/geo"
)

// Source abstracts the upstream weather API used for the required calls and
// the air-quality signal (e.g. OpenWeatherMap).
type Source interface {
	Name() string
	FetchCurrent(ctx context.Context, coord geo.Coordinate, units UnitSystem) (CurrentConditions, error)
	FetchForecast(ctx context.Context, coord geo.Coordinate, units UnitSystem) (Timeline, error)
	FetchAirQuality(ctx context.Context, coord geo.Coordinate) (AirQualitySample, error)
}

// UVSource provides the UV index (e.g. Open-Meteo).
type UVSource interface {
	FetchUV(ctx context.Context, coord geo.Coordinate) (UVSample, error)
}

// CitySearcher resolves free-text queries to ranked places.
type CitySearcher interface {
	SearchCities(ctx context.Context, query string, limit int) ([]City, error)
}

// Geocoder adds reverse lookup to city search.
type Geocoder interface {
	CitySearcher
	ReverseGeocode(ctx context.Context, coord geo.Coordinate) (City, error)
}
