package providers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

const (
	openWeatherDataURL = "https://api.openweathermap.org/data/2.5"
	openWeatherGeoURL  = "https://api.openweathermap.org/geo/1.0"
)

// OpenWeatherProvider talks to OpenWeatherMap. It serves current conditions,
// the 3-hour forecast timeline, air pollution and the geocoding API.
type OpenWeatherProvider struct {
	name        string
	apiKey      string
	dataURL     string
	geoURL      string
	httpCfg     HTTPClientConfig
	optionalCfg HTTPClientConfig

	current  *gobreaker.CircuitBreaker
	forecast *gobreaker.CircuitBreaker
	air      *gobreaker.CircuitBreaker
	geocode  *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	return &OpenWeatherProvider{
		name:        "openweathermap",
		apiKey:      apiKey,
		dataURL:     openWeatherDataURL,
		geoURL:      openWeatherGeoURL,
		httpCfg:     HTTPClientConfig{Client: client, Backoff: DefaultBackoff},
		optionalCfg: HTTPClientConfig{Client: client, Backoff: NoRetry},
		current:     newBreaker("openweather-current"),
		forecast:    newBreaker("openweather-forecast"),
		air:         newBreaker("openweather-air"),
		geocode:     newBreaker("openweather-geo"),
	}
}

// WithEndpoints overrides the data and geocoding base URLs.
func (p *OpenWeatherProvider) WithEndpoints(dataURL, geoURL string) *OpenWeatherProvider {
	p.dataURL = strings.TrimRight(dataURL, "/")
	p.geoURL = strings.TrimRight(geoURL, "/")
	return p
}

// WithBackoff overrides the retry policy for required calls.
func (p *OpenWeatherProvider) WithBackoff(b BackoffConfig) *OpenWeatherProvider {
	p.httpCfg.Backoff = b
	return p
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) coordURL(base, path string, coord geo.Coordinate, extra url.Values) string {
	values := url.Values{}
	for k, v := range extra {
		values[k] = v
	}
	values.Set("lat", fmt.Sprintf("%f", coord.Lat))
	values.Set("lon", fmt.Sprintf("%f", coord.Lon))
	values.Set("appid", p.apiKey)
	return fmt.Sprintf("%s%s?%s", base, path, values.Encode())
}

func unitValues(units weather.UnitSystem) url.Values {
	if units == "" {
		units = weather.Metric
	}
	return url.Values{"units": {string(units)}}
}

// windToMS normalises an upstream wind speed to metres per second.
func windToMS(speed float64, units weather.UnitSystem) float64 {
	if units == weather.Imperial {
		return weather.ConvertWind(speed, weather.MPH, weather.MS)
	}
	return speed
}

type owmCondition struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

func firstCondition(items []owmCondition) owmCondition {
	if len(items) == 0 {
		return owmCondition{}
	}
	return items[0]
}

func (p *OpenWeatherProvider) FetchCurrent(ctx context.Context, coord geo.Coordinate, units weather.UnitSystem) (weather.CurrentConditions, error) {
	if p.apiKey == "" {
		return weather.CurrentConditions{}, fmt.Errorf("openweather: %w", errMissingAPIKey)
	}

	var payload struct {
		Coord struct {
			Lat float64 `json:"lat"`
			Lon float64 `json:"lon"`
		} `json:"coord"`
		Weather []owmCondition `json:"weather"`
		Main    struct {
			Temp      float64 `json:"temp"`
			FeelsLike float64 `json:"feels_like"`
			TempMin   float64 `json:"temp_min"`
			TempMax   float64 `json:"temp_max"`
			Pressure  float64 `json:"pressure"`
			Humidity  float64 `json:"humidity"`
		} `json:"main"`
		Visibility float64 `json:"visibility"`
		Wind       struct {
			Speed float64 `json:"speed"`
			Deg   float64 `json:"deg"`
		} `json:"wind"`
		Clouds struct {
			All float64 `json:"all"`
		} `json:"clouds"`
		Sys struct {
			Country string `json:"country"`
			Sunrise int64  `json:"sunrise"`
			Sunset  int64  `json:"sunset"`
		} `json:"sys"`
		Timezone int    `json:"timezone"`
		Name     string `json:"name"`
	}

	u := p.coordURL(p.dataURL, "/weather", coord, unitValues(units))
	if err := getJSON(ctx, p.httpCfg, p.current, u, &payload); err != nil {
		return weather.CurrentConditions{}, err
	}

	cond := firstCondition(payload.Weather)
	return weather.CurrentConditions{
		Temperature:    payload.Main.Temp,
		FeelsLike:      payload.Main.FeelsLike,
		TempMin:        payload.Main.TempMin,
		TempMax:        payload.Main.TempMax,
		Condition:      mapOpenWeatherCondition(cond.Main),
		ConditionCode:  cond.ID,
		Description:    cond.Description,
		Icon:           cond.Icon,
		Humidity:       payload.Main.Humidity,
		Pressure:       payload.Main.Pressure,
		WindSpeedMS:    windToMS(payload.Wind.Speed, units),
		WindDeg:        payload.Wind.Deg,
		Clouds:         payload.Clouds.All,
		Visibility:     payload.Visibility,
		Sunrise:        time.Unix(payload.Sys.Sunrise, 0).UTC(),
		Sunset:         time.Unix(payload.Sys.Sunset, 0).UTC(),
		TimezoneOffset: payload.Timezone,
		CityName:       payload.Name,
		Country:        payload.Sys.Country,
		Coord:          geo.Coordinate{Lat: payload.Coord.Lat, Lon: payload.Coord.Lon},
	}, nil
}

func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, coord geo.Coordinate, units weather.UnitSystem) (weather.Timeline, error) {
	if p.apiKey == "" {
		return weather.Timeline{}, fmt.Errorf("openweather: %w", errMissingAPIKey)
	}

	var payload struct {
		List []struct {
			Dt   int64 `json:"dt"`
			Main struct {
				Temp      float64 `json:"temp"`
				FeelsLike float64 `json:"feels_like"`
				Humidity  float64 `json:"humidity"`
			} `json:"main"`
			Weather []owmCondition `json:"weather"`
			Wind    struct {
				Speed float64 `json:"speed"`
			} `json:"wind"`
			Pop float64 `json:"pop"`
		} `json:"list"`
		City struct {
			Timezone int `json:"timezone"`
		} `json:"city"`
	}

	u := p.coordURL(p.dataURL, "/forecast", coord, unitValues(units))
	if err := getJSON(ctx, p.httpCfg, p.forecast, u, &payload); err != nil {
		return weather.Timeline{}, err
	}

	points := make([]weather.ForecastPoint, 0, len(payload.List))
	for _, item := range payload.List {
		cond := firstCondition(item.Weather)
		points = append(points, weather.ForecastPoint{
			Time:        time.Unix(item.Dt, 0).UTC(),
			Temp:        item.Main.Temp,
			FeelsLike:   item.Main.FeelsLike,
			Condition:   mapOpenWeatherCondition(cond.Main),
			Description: cond.Description,
			Icon:        cond.Icon,
			Humidity:    item.Main.Humidity,
			WindSpeedMS: windToMS(item.Wind.Speed, units),
			Pop:         item.Pop,
		})
	}

	return weather.Timeline{Points: points, TimezoneOffset: payload.City.Timezone}, nil
}

// FetchAirQuality fails fast: the signal is optional.
func (p *OpenWeatherProvider) FetchAirQuality(ctx context.Context, coord geo.Coordinate) (weather.AirQualitySample, error) {
	if p.apiKey == "" {
		return weather.AirQualitySample{}, fmt.Errorf("openweather: %w", errMissingAPIKey)
	}

	var payload struct {
		List []struct {
			Main struct {
				AQI int `json:"aqi"`
			} `json:"main"`
			Components weather.AirQualityComponents `json:"components"`
		} `json:"list"`
	}

	u := p.coordURL(p.dataURL, "/air_pollution", coord, nil)
	if err := getJSON(ctx, p.optionalCfg, p.air, u, &payload); err != nil {
		return weather.AirQualitySample{}, err
	}
	if len(payload.List) == 0 {
		return weather.AirQualitySample{}, fmt.Errorf("air pollution: %w", errEmptyResponse)
	}

	sample := payload.List[0]
	return weather.AirQualitySample{
		AQI:                  sample.Main.AQI,
		Description:          weather.AQIDescription(sample.Main.AQI),
		Components:           sample.Components,
		HealthRecommendation: weather.AQIHealthRecommendation(sample.Main.AQI),
	}, nil
}

type owmPlace struct {
	Name    string  `json:"name"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	Country string  `json:"country"`
	State   string  `json:"state"`
}

func (pl owmPlace) city() weather.City {
	display := pl.Name
	if pl.State != "" {
		display += ", " + pl.State
	}
	if pl.Country != "" {
		display += ", " + pl.Country
	}
	return weather.City{
		Name:        pl.Name,
		Country:     pl.Country,
		State:       pl.State,
		Lat:         pl.Lat,
		Lon:         pl.Lon,
		DisplayName: display,
	}
}

// SearchCities queries the direct geocoding API. Upstream failures are logged
// and yield an empty list.
func (p *OpenWeatherProvider) SearchCities(ctx context.Context, query string, limit int) ([]weather.City, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []weather.City{}, nil
	}
	if p.apiKey == "" {
		return nil, fmt.Errorf("openweather: %w", errMissingAPIKey)
	}
	if limit <= 0 {
		limit = 5
	}

	values := url.Values{}
	values.Set("q", query)
	values.Set("limit", fmt.Sprintf("%d", limit))
	values.Set("appid", p.apiKey)
	u := fmt.Sprintf("%s/direct?%s", p.geoURL, values.Encode())

	var places []owmPlace
	if err := getJSON(ctx, p.optionalCfg, p.geocode, u, &places); err != nil {
		slog.Warn("city search failed", "query", query, "err", err)
		return []weather.City{}, nil
	}

	out := make([]weather.City, 0, len(places))
	for _, pl := range places {
		out = append(out, pl.city())
	}
	return out, nil
}

// ReverseGeocode names the place nearest to coord.
func (p *OpenWeatherProvider) ReverseGeocode(ctx context.Context, coord geo.Coordinate) (weather.City, error) {
	if p.apiKey == "" {
		return weather.City{}, fmt.Errorf("openweather: %w", errMissingAPIKey)
	}

	var places []owmPlace
	u := p.coordURL(p.geoURL, "/reverse", coord, url.Values{"limit": {"1"}})
	if err := getJSON(ctx, p.optionalCfg, p.geocode, u, &places); err != nil {
		return weather.City{}, err
	}
	if len(places) == 0 {
		return weather.City{}, fmt.Errorf("reverse geocode: %w", errEmptyResponse)
	}
	return places[0].city(), nil
}

func mapOpenWeatherCondition(main string) weather.Condition {
	switch main {
	case "Clear":
		return weather.ConditionClear
	case "Clouds":
		return weather.ConditionCloudy
	case "Rain", "Drizzle":
		return weather.ConditionRain
	case "Snow":
		return weather.ConditionSnow
	case "Thunderstorm":
		return weather.ConditionStorm
	case "Mist", "Fog", "Haze", "Smoke", "Dust", "Sand", "Ash", "Squall", "Tornado":
		return weather.ConditionMist
	default:
		return weather.ConditionUnknown
	}
}
