package providers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// OpenMeteoProvider serves the UV index from Open-Meteo. No API key is needed.
type OpenMeteoProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenMeteoProvider(client *http.Client) *OpenMeteoProvider {
	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: "https://api.open-meteo.com/v1",
		httpCfg: HTTPClientConfig{Client: client, Backoff: NoRetry},
		circuit: newBreaker("openmeteo-uv"),
	}
}

// WithBaseURL overrides the API base URL.
func (p *OpenMeteoProvider) WithBaseURL(baseURL string) *OpenMeteoProvider {
	p.baseURL = strings.TrimRight(baseURL, "/")
	return p
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// FetchUV returns the current UV index and today's maximum.
func (p *OpenMeteoProvider) FetchUV(ctx context.Context, coord geo.Coordinate) (weather.UVSample, error) {
	values := url.Values{}
	values.Set("latitude", fmt.Sprintf("%f", coord.Lat))
	values.Set("longitude", fmt.Sprintf("%f", coord.Lon))
	values.Set("current", "uv_index")
	values.Set("daily", "uv_index_max")
	values.Set("timezone", "auto")
	values.Set("forecast_days", "1")

	var payload struct {
		Current struct {
			UVIndex *float64 `json:"uv_index"`
		} `json:"current"`
		Daily struct {
			UVIndexMax []float64 `json:"uv_index_max"`
		} `json:"daily"`
	}

	u := fmt.Sprintf("%s/forecast?%s", p.baseURL, values.Encode())
	if err := getJSON(ctx, p.httpCfg, p.circuit, u, &payload); err != nil {
		return weather.UVSample{}, err
	}
	if payload.Current.UVIndex == nil {
		return weather.UVSample{}, fmt.Errorf("uv index: %w", errEmptyResponse)
	}

	index := *payload.Current.UVIndex
	maxToday := index
	if len(payload.Daily.UVIndexMax) > 0 {
		maxToday = payload.Daily.UVIndexMax[0]
	}

	return weather.UVSample{
		Index:    index,
		MaxToday: maxToday,
		Risk:     weather.UVRisk(index),
	}, nil
}
