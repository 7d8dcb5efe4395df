// Package format renders weather values as display strings. Values are
// rounded here and nowhere earlier.
package format

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// TimeFormat is the clock preference.
type TimeFormat string

const (
	Clock12 TimeFormat = "12h"
	Clock24 TimeFormat = "24h"
)

const metresPerMile = 1609.34

var compass = [16]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// Temperature renders a temperature already expressed in units, e.g. "18°C".
func Temperature(v float64, units weather.UnitSystem) string {
	return fmt.Sprintf("%d°%s", round(v), units.TemperatureSymbol())
}

// WindSpeed renders a speed given in m/s in the preferred wind unit.
func WindSpeed(ms float64, unit weather.WindUnit) string {
	return fmt.Sprintf("%d %s", round(weather.ConvertWind(ms, weather.MS, unit)), unit.Label())
}

// WindDirection maps degrees to a 16-point compass label.
func WindDirection(deg float64) string {
	idx := int(math.Round(deg/22.5)) % 16
	if idx < 0 {
		idx += 16
	}
	return compass[idx]
}

// Visibility renders metres as km or miles.
func Visibility(metres float64, units weather.UnitSystem) string {
	if units == weather.Imperial {
		return fmt.Sprintf("%.1f mi", metres/metresPerMile)
	}
	return fmt.Sprintf("%.1f km", metres/1000)
}

// Pressure renders hPa, or inHg for imperial.
func Pressure(hpa float64, units weather.UnitSystem) string {
	if units == weather.Imperial {
		return fmt.Sprintf("%.2f inHg", weather.HPaToInHg(hpa))
	}
	return fmt.Sprintf("%d hPa", round(hpa))
}

// Percentage renders a 0..100 value.
func Percentage(v float64) string {
	return fmt.Sprintf("%d%%", round(v))
}

// Clock renders a time of day, e.g. "2:30 PM" or "14:30".
func Clock(t time.Time, f TimeFormat) string {
	if t.IsZero() {
		return "--:--"
	}
	if f == Clock24 {
		return t.Format("15:04")
	}
	return t.Format("3:04 PM")
}

// Weekday renders "Monday".
func Weekday(t time.Time) string {
	return t.Format("Monday")
}

// ShortDay renders "Mon".
func ShortDay(t time.Time) string {
	return t.Format("Mon")
}

// FullDate renders "Jan 1, 2024".
func FullDate(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// DayLabel names day relative to now: "Today", "Tomorrow" or the short weekday.
// Both times are compared in day's location.
func DayLabel(day, now time.Time) string {
	now = now.In(day.Location())
	y1, m1, d1 := day.Date()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, day.Location())
	switch time.Date(y1, m1, d1, 0, 0, 0, 0, day.Location()).Sub(today) {
	case 0:
		return "Today"
	case 24 * time.Hour:
		return "Tomorrow"
	default:
		return ShortDay(day)
	}
}

// Duration renders a day length as "16h 38m".
func Duration(d time.Duration) string {
	if d <= 0 {
		return "0h 0m"
	}
	d = d.Round(time.Minute)
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}

// Capitalize title-cases an upstream description. A Caser holds state, so
// each call gets its own.
func Capitalize(s string) string {
	return cases.Title(language.English).String(s)
}

func round(v float64) int {
	return int(math.Round(v))
}

// UVIndex renders a UV index with one decimal.
func UVIndex(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
