package weather

import (
	"fmt"
	"math"
)

// UnitSystem selects the units requested from upstream and used for display.
type UnitSystem string

const (
	Metric   UnitSystem = "metric"
	Imperial UnitSystem = "imperial"
)

// ParseUnitSystem validates a unit system name.
func ParseUnitSystem(s string) (UnitSystem, error) {
	switch UnitSystem(s) {
	case Metric, Imperial:
		return UnitSystem(s), nil
	default:
		return "", fmt.Errorf("unknown unit system %q", s)
	}
}

// TemperatureSymbol returns "C" or "F".
func (u UnitSystem) TemperatureSymbol() string {
	if u == Imperial {
		return "F"
	}
	return "C"
}

// DefaultWindUnit is the wind unit shown when the user has not chosen one.
func (u UnitSystem) DefaultWindUnit() WindUnit {
	if u == Imperial {
		return MPH
	}
	return KMH
}

// WindUnit is a wind-speed display unit.
type WindUnit string

const (
	MS    WindUnit = "ms"
	KMH   WindUnit = "kmh"
	MPH   WindUnit = "mph"
	Knots WindUnit = "knots"
)

// Conversion factors from one metre per second.
const (
	msToKMH   = 3.6
	msToMPH   = 2.23694
	msToKnots = 1.94384
)

// ParseWindUnit validates a wind unit name.
func ParseWindUnit(s string) (WindUnit, error) {
	switch WindUnit(s) {
	case MS, KMH, MPH, Knots:
		return WindUnit(s), nil
	default:
		return "", fmt.Errorf("unknown wind unit %q", s)
	}
}

func (w WindUnit) perMS() float64 {
	switch w {
	case KMH:
		return msToKMH
	case MPH:
		return msToMPH
	case Knots:
		return msToKnots
	default:
		return 1
	}
}

// Label is the display suffix for the unit.
func (w WindUnit) Label() string {
	switch w {
	case KMH:
		return "km/h"
	case MPH:
		return "mph"
	case Knots:
		return "kn"
	default:
		return "m/s"
	}
}

// ConvertWind converts a speed between units without rounding.
func ConvertWind(v float64, from, to WindUnit) float64 {
	if from == to {
		return v
	}
	return v / from.perMS() * to.perMS()
}

// CelsiusToFahrenheit converts °C to °F.
func CelsiusToFahrenheit(c float64) float64 {
	return c*9/5 + 32
}

// FahrenheitToCelsius converts °F to °C.
func FahrenheitToCelsius(f float64) float64 {
	return (f - 32) * 5 / 9
}

// HPaToInHg converts hectopascals to inches of mercury.
func HPaToInHg(hpa float64) float64 {
	return hpa * 0.02953
}

// Magnus coefficients.
const (
	magnusA = 17.27
	magnusB = 237.7
)

// DewPoint derives the dew point in °C from a temperature in °C and relative
// humidity in percent using the Magnus approximation. It reports false when
// humidity is outside (0, 100].
func DewPoint(tempC, humidity float64) (float64, bool) {
	if humidity <= 0 || humidity > 100 {
		return 0, false
	}
	alpha := (magnusA*tempC)/(magnusB+tempC) + math.Log(humidity/100)
	return (magnusB * alpha) / (magnusA - alpha), true
}

// RoundPercent converts a 0..1 probability into a rounded percentage.
func RoundPercent(p float64) int {
	return int(math.Round(p * 100))
}

var aqiDescriptions = map[int]string{
	1: "Good",
	2: "Fair",
	3: "Moderate",
	4: "Poor",
	5: "Very Poor",
}

var aqiRecommendations = map[int]string{
	1: "Air quality is satisfactory, and air pollution poses little or no risk.",
	2: "Air quality is acceptable. However, there may be a risk for some people, particularly those who are unusually sensitive to air pollution.",
	3: "Members of sensitive groups may experience health effects. The general public is less likely to be affected.",
	4: "Some members of the general public may experience health effects; members of sensitive groups may experience more serious health effects.",
	5: "Health alert: The risk of health effects is increased for everyone.",
}

// AQIDescription names an OpenWeather AQI level (1..5).
func AQIDescription(aqi int) string {
	if d, ok := aqiDescriptions[aqi]; ok {
		return d
	}
	return "Unknown"
}

// AQIHealthRecommendation returns advice for an AQI level (1..5).
func AQIHealthRecommendation(aqi int) string {
	if r, ok := aqiRecommendations[aqi]; ok {
		return r
	}
	return "No data available"
}

// UVRisk names the WHO exposure category for a UV index.
func UVRisk(index float64) string {
	switch {
	case index < 3:
		return "Low"
	case index < 6:
		return "Moderate"
	case index < 8:
		return "High"
	case index < 11:
		return "Very High"
	default:
		return "Extreme"
	}
}
