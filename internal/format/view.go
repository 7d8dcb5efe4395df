package format

import (
	"time"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// Options carries the display preferences.
type Options struct {
	WindUnit   weather.WindUnit
	TimeFormat TimeFormat
}

// CurrentView is the rendered current-conditions panel.
type CurrentView struct {
	Location    string `json:"location"`
	Temperature string `json:"temperature"`
	FeelsLike   string `json:"feelsLike"`
	HighLow     string `json:"highLow"`
	Description string `json:"description"`
	IconURL     string `json:"iconUrl"`
	Humidity    string `json:"humidity"`
	DewPoint    string `json:"dewPoint,omitempty"`
	Pressure    string `json:"pressure"`
	Trend       string `json:"pressureTrend"`
	Wind        string `json:"wind"`
	Visibility  string `json:"visibility"`
	Clouds      string `json:"clouds"`
	Sunrise     string `json:"sunrise"`
	Sunset      string `json:"sunset"`
	AirQuality  string `json:"airQuality,omitempty"`
	UV          string `json:"uv,omitempty"`

	// MetricIcons maps each metric field name to its icon URL.
	MetricIcons map[string]string `json:"metricIcons"`
}

// metricIcons names the icon shown beside each metric.
var metricIcons = map[string]string{
	"humidity":   "humidity",
	"dewPoint":   "thermometer-raindrop",
	"pressure":   "barometer",
	"wind":       "wind",
	"visibility": "mist",
	"clouds":     "cloudy",
	"sunrise":    "sunrise",
	"sunset":     "sunset",
	"uv":         "uv-index",
}

// DayView is one rendered daily forecast row.
type DayView struct {
	Label       string `json:"label"`
	High        string `json:"high"`
	Low         string `json:"low"`
	Description string `json:"description"`
	Pop         string `json:"pop"`
	IconURL     string `json:"iconUrl"`
}

// Current renders the current-conditions panel of a snapshot. Times are shown
// in the observed place's zone.
func Current(s *weather.Snapshot, opts Options) CurrentView {
	if opts.WindUnit == "" {
		opts.WindUnit = s.Units.DefaultWindUnit()
	}
	c := s.Current
	loc := c.Location()

	v := CurrentView{
		Location:    s.Location.DisplayName(),
		Temperature: Temperature(c.Temperature, s.Units),
		FeelsLike:   Temperature(c.FeelsLike, s.Units),
		HighLow:     Temperature(c.TempMax, s.Units) + " / " + Temperature(c.TempMin, s.Units),
		Description: Capitalize(c.Description),
		IconURL:     IconURL(c.Icon),
		Humidity:    Percentage(c.Humidity),
		Pressure:    Pressure(c.Pressure, s.Units),
		Trend:       string(s.PressureTrend),
		Wind:        WindSpeed(c.WindSpeedMS, opts.WindUnit) + " " + WindDirection(c.WindDeg),
		Visibility:  Visibility(c.Visibility, s.Units),
		Clouds:      Percentage(c.Clouds),
		Sunrise:     Clock(c.Sunrise.In(loc), opts.TimeFormat),
		Sunset:      Clock(c.Sunset.In(loc), opts.TimeFormat),
		MetricIcons: make(map[string]string, len(metricIcons)),
	}
	for field, name := range metricIcons {
		v.MetricIcons[field] = MetricIconURL(name)
	}
	if c.DewPoint != nil {
		v.DewPoint = Temperature(*c.DewPoint, s.Units)
	}
	if s.AirQuality != nil {
		v.AirQuality = s.AirQuality.Description
	}
	if s.UV != nil {
		v.UV = UVIndex(s.UV.Index) + " " + s.UV.Risk
	}
	return v
}

// Daily renders the daily forecast rows relative to now.
func Daily(s *weather.Snapshot, now time.Time) []DayView {
	out := make([]DayView, 0, len(s.Daily))
	for _, d := range s.Daily {
		out = append(out, DayView{
			Label:       DayLabel(d.Date, now),
			High:        Temperature(d.TempMax, s.Units),
			Low:         Temperature(d.TempMin, s.Units),
			Description: Capitalize(d.Description),
			Pop:         Percentage(float64(d.Pop)),
			IconURL:     IconURL(d.Icon),
		})
	}
	return out
}
