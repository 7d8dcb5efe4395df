package weather

import (
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-dashboard/internal/astro"
	"github.com/i474232898/weather-dashboard/internal/geo"
)

// Condition represents a normalized high-level weather condition.
type Condition string

const (
	ConditionUnknown Condition = "unknown"
	ConditionClear   Condition = "clear"
	ConditionCloudy  Condition = "cloudy"
	ConditionRain    Condition = "rain"
	ConditionSnow    Condition = "snow"
	ConditionStorm   Condition = "storm"
	ConditionMist    Condition = "mist"
)

// CurrentConditions is the current-weather part of a snapshot. Temperatures
// are in the snapshot's unit system; wind speed is always metres per second.
type CurrentConditions struct {
	Temperature   float64   `json:"temperature"`
	FeelsLike     float64   `json:"feelsLike"`
	TempMin       float64   `json:"tempMin"`
	TempMax       float64   `json:"tempMax"`
	Condition     Condition `json:"condition"`
	ConditionCode int       `json:"conditionCode"`
	Description   string    `json:"description"`
	Icon          string    `json:"icon"`
	Humidity      float64   `json:"humidityPercent"`
	Pressure      float64   `json:"pressureHpa"`
	WindSpeedMS   float64   `json:"windSpeedMs"`
	WindDeg       float64   `json:"windDeg"`
	Clouds        float64   `json:"cloudsPercent"`
	Visibility    float64   `json:"visibilityM"`
	Sunrise       time.Time `json:"sunrise"`
	Sunset        time.Time `json:"sunset"`
	// TimezoneOffset is the location's offset from UTC in seconds.
	TimezoneOffset int            `json:"timezoneOffset"`
	CityName       string         `json:"cityName"`
	Country        string         `json:"country"`
	Coord          geo.Coordinate `json:"coord"`
	// DewPoint is derived locally; nil when humidity is unknown.
	DewPoint *float64 `json:"dewPoint,omitempty"`
}

// Location returns the fixed-offset time zone of the observed place.
func (c CurrentConditions) Location() *time.Location {
	return time.FixedZone("", c.TimezoneOffset)
}

// ForecastPoint is one entry of the upstream 3-hour forecast timeline.
type ForecastPoint struct {
	Time        time.Time
	Temp        float64
	FeelsLike   float64
	Condition   Condition
	Description string
	Icon        string
	Humidity    float64
	WindSpeedMS float64
	// Pop is the probability of precipitation, 0..1.
	Pop float64
}

// Timeline is the upstream forecast: 3-hour points for about five days.
type Timeline struct {
	Points         []ForecastPoint
	TimezoneOffset int
}

// HourlyEntry is one point of the next-24-hours forecast.
type HourlyEntry struct {
	Time        time.Time `json:"time"`
	Temp        float64   `json:"temp"`
	FeelsLike   float64   `json:"feelsLike"`
	Condition   Condition `json:"condition"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Humidity    float64   `json:"humidityPercent"`
	WindSpeedMS float64   `json:"windSpeedMs"`
	Pop         int       `json:"pop"` // percent
}

// DailyEntry summarizes one calendar day of the timeline.
type DailyEntry struct {
	Date        time.Time `json:"date"`
	TempMin     float64   `json:"tempMin"`
	TempMax     float64   `json:"tempMax"`
	Condition   Condition `json:"condition"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Pop         int       `json:"pop"` // percent, peak of the day
}

// AirQualityComponents are pollutant concentrations in μg/m³.
type AirQualityComponents struct {
	CO   float64 `json:"co"`
	NO2  float64 `json:"no2"`
	O3   float64 `json:"o3"`
	PM25 float64 `json:"pm2_5"`
	PM10 float64 `json:"pm10"`
}

// AirQualitySample is the optional air-quality signal.
type AirQualitySample struct {
	AQI                  int                  `json:"aqi"`
	Description          string               `json:"description"`
	Components           AirQualityComponents `json:"components"`
	HealthRecommendation string               `json:"healthRecommendation"`
}

// UVSample is the optional UV signal.
type UVSample struct {
	Index    float64 `json:"index"`
	MaxToday float64 `json:"maxToday"`
	Risk     string  `json:"risk"`
}

// PressureTrend classifies the change between consecutive pressure readings.
type PressureTrend string

const (
	PressureUnknown PressureTrend = "unknown"
	PressureRising  PressureTrend = "rising"
	PressureFalling PressureTrend = "falling"
	PressureSteady  PressureTrend = "steady"
)

// Snapshot is one internally consistent bundle of weather data for a single
// coordinate and fetch instant. Snapshots are never modified after FetchAll
// returns them.
type Snapshot struct {
	ID            uuid.UUID         `json:"id"`
	FetchedAt     time.Time         `json:"fetchedAt"`
	Location      geo.Coordinate    `json:"location"`
	Units         UnitSystem        `json:"units"`
	Current       CurrentConditions `json:"current"`
	Hourly        []HourlyEntry     `json:"hourly"`
	Daily         []DailyEntry      `json:"daily"`
	AirQuality    *AirQualitySample `json:"airQuality"`
	UV            *UVSample         `json:"uv"`
	Astronomy     astro.Data        `json:"astronomy"`
	PressureTrend PressureTrend     `json:"pressureTrend"`
}

// City is a geocoding search result.
type City struct {
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	State       string  `json:"state,omitempty"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"displayName"`
}

// Coordinate converts a search result into a coordinate.
func (c City) Coordinate() geo.Coordinate {
	return geo.Coordinate{Lat: c.Lat, Lon: c.Lon, Name: c.Name, Country: c.Country}
}
