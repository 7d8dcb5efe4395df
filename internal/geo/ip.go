package geo

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/i474232898/weather-dashboard/internal/common"
)

const (
	defaultIPLookupURL = "http://ip-api.com"
	userAgent          = "weather-dashboard/1.0"

	// IP lookups resolve to roughly city level.
	ipAccuracyMeters = 5000
)

// IPProvider locates the device through an IP geolocation service
// (ip-api.com compatible).
type IPProvider struct {
	client *resty.Client
}

// NewIPProvider creates an IPProvider. An empty baseURL selects ip-api.com.
func NewIPProvider(baseURL string) *IPProvider {
	if baseURL == "" {
		baseURL = defaultIPLookupURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json").
		SetTimeout(30 * time.Second)

	return &IPProvider{client: client}
}

type ipLookupResponse struct {
	Status      string  `json:"status"`
	Message     string  `json:"message"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	City        string  `json:"city"`
	CountryCode string  `json:"countryCode"`
}

func (p *IPProvider) CurrentPosition(ctx context.Context, _ PositionOptions) (Coordinate, error) {
	var out ipLookupResponse
	resp, err := p.client.R().
		SetContext(ctx).
		SetQueryParam("fields", "status,message,lat,lon,city,countryCode").
		SetResult(&out).
		Get("/json/")
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Coordinate{}, &LocationError{Kind: Timeout, Err: err}
		}
		if ctx.Err() != nil {
			return Coordinate{}, ctx.Err()
		}
		return Coordinate{}, &LocationError{Kind: Unavailable, Err: err}
	}

	switch code := resp.StatusCode(); {
	case code == http.StatusForbidden || code == http.StatusUnauthorized:
		return Coordinate{}, &LocationError{Kind: PermissionDenied, Err: fmt.Errorf("ip lookup status %d", code)}
	case !resp.IsSuccess():
		return Coordinate{}, &LocationError{Kind: Unavailable, Err: fmt.Errorf("ip lookup status %d", code)}
	}

	if out.Status != "success" {
		kind := Unavailable
		if common.HasAny(out.Message, "denied", "forbidden", "blocked") {
			kind = PermissionDenied
		}
		return Coordinate{}, &LocationError{Kind: kind, Err: fmt.Errorf("ip lookup failed: %s", out.Message)}
	}

	return Coordinate{
		Lat:      out.Lat,
		Lon:      out.Lon,
		Name:     out.City,
		Country:  out.CountryCode,
		Accuracy: ipAccuracyMeters,
	}, nil
}
