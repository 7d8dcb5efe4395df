package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/i474232898/weather-dashboard/internal/geo"
)

type AppConfig struct {
	OpenWeatherAPIKey string

	// HTTPTimeout bounds one full weather fetch.
	HTTPTimeout time.Duration `validate:"gt=0"`

	// Location resolution.
	GPSTimeout       time.Duration   `validate:"gt=0"`
	GPSMaxAge        time.Duration   `validate:"gte=0"`
	LocationProvider string          `validate:"oneof=ip static"`
	DevicePosition   *geo.Coordinate `validate:"omitempty"`
	IPLookupURL      string          `validate:"required,url"`

	// Durable store.
	StoreDSN           string        `validate:"required"`
	WeatherCacheMaxAge time.Duration `validate:"gt=0"`

	Port string `validate:"required,numeric"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}
	return FromEnv()
}

// FromEnv builds the configuration from the process environment only.
func FromEnv() (*AppConfig, error) {
	cfg := &AppConfig{
		OpenWeatherAPIKey: os.Getenv("OPENWEATHER_API_KEY"),
		LocationProvider:  getenvDefault("LOCATION_PROVIDER", "ip"),
		IPLookupURL:       getenvDefault("IP_LOOKUP_URL", "http://ip-api.com"),
		StoreDSN:          getenvDefault("STORE_DSN", "sqlite://weather-dashboard.db"),
		Port:              getenvDefault("PORT", "8080"),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.GPSTimeout, err = getenvDuration("GPS_TIMEOUT", 20*time.Second); err != nil {
		return nil, err
	}
	if cfg.GPSMaxAge, err = getenvDuration("GPS_MAX_AGE", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.WeatherCacheMaxAge, err = getenvDuration("WEATHER_CACHE_MAX_AGE", 10*time.Minute); err != nil {
		return nil, err
	}

	if cfg.DevicePosition, err = loadDevicePosition(); err != nil {
		return nil, err
	}
	if cfg.LocationProvider == "static" && cfg.DevicePosition == nil {
		return nil, fmt.Errorf("LOCATION_PROVIDER=static requires DEVICE_LAT and DEVICE_LON")
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadDevicePosition() (*geo.Coordinate, error) {
	latStr, lonStr := os.Getenv("DEVICE_LAT"), os.Getenv("DEVICE_LON")
	if latStr == "" && lonStr == "" {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DEVICE_LAT: %w", err)
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid DEVICE_LON: %w", err)
	}

	c := &geo.Coordinate{Lat: lat, Lon: lon, Name: os.Getenv("DEVICE_NAME")}
	if err := validate.Struct(c); err != nil {
		return nil, fmt.Errorf("invalid device position: %w", err)
	}
	return c, nil
}

// ResolverConfig maps the location settings onto the resolver's.
func (c *AppConfig) ResolverConfig() geo.ResolverConfig {
	return geo.ResolverConfig{
		FreshTimeout:    c.GPSTimeout,
		FallbackTimeout: c.GPSTimeout,
		FallbackMaxAge:  c.GPSMaxAge,
	}
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
