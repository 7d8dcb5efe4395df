package main

import (
	"net/http"

	"github.com/i474232898/weather-dashboard/internal/config"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/scheduler"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
	"github.com/i474232898/weather-dashboard/internal/weather/providers"
)

// app holds the wired components shared by every command.
type app struct {
	cfg       *config.AppConfig
	store     *store.Store
	geocoder  weather.Geocoder
	ctrl      *dashboard.Controller
	refresher *scheduler.AutoRefresher
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	st := store.Open(cfg.StoreDSN).WithWeatherMaxAge(cfg.WeatherCacheMaxAge)

	var position geo.PositionProvider
	switch cfg.LocationProvider {
	case "static":
		position = geo.StaticProvider{Position: cfg.DevicePosition}
	default:
		position = geo.NewIPProvider(cfg.IPLookupURL)
	}
	resolver := geo.NewResolver(position, st, cfg.ResolverConfig())

	// Providers with resilience (backoff + circuit breaker).
	owm := providers.NewOpenWeatherProvider(httpClient, cfg.OpenWeatherAPIKey)
	uv := providers.NewOpenMeteoProvider(httpClient)

	orchestrator := weather.NewOrchestrator(owm, uv, nil, cfg.HTTPTimeout)
	ctrl := dashboard.New(resolver, orchestrator, owm, st)

	refresher := scheduler.New(ctrl.Refresh, cfg.HTTPTimeout+cfg.GPSTimeout)
	ctrl.SetRefresher(refresher)

	return &app{
		cfg:       cfg,
		store:     st,
		geocoder:  owm,
		ctrl:      ctrl,
		refresher: refresher,
	}, nil
}

// Close stops the auto-refresh timer and releases the store.
func (a *app) Close() error {
	a.refresher.Stop()
	return a.store.Close()
}
