package astro

import (
	"math"
	"time"
)

// Sun is the sun summary shown on the dashboard.
type Sun struct {
	SunTimes
	Position
	// DayLength is zero during polar day or night.
	DayLength time.Duration `json:"dayLength"`
}

// Moon is the moon summary shown on the dashboard.
type Moon struct {
	Phase        float64   `json:"phase"`
	PhaseName    string    `json:"phaseName"`
	Illumination int       `json:"illumination"` // percent, rounded
	Angle        float64   `json:"angle"`
	Moonrise     time.Time `json:"moonrise"`
	Moonset      time.Time `json:"moonset"`
	AlwaysUp     bool      `json:"alwaysUp,omitempty"`
	AlwaysDown   bool      `json:"alwaysDown,omitempty"`
}

// Data bundles sun and moon information for a position and instant.
type Data struct {
	Sun  Sun  `json:"sun"`
	Moon Moon `json:"moon"`
}

// Compute is a pure function of position and time; it never fails.
func Compute(lat, lon float64, t time.Time) Data {
	times := SunEvents(t, lat, lon)
	illum := MoonIllumination(t)
	moon := MoonEvents(t, lat, lon)

	return Data{
		Sun: Sun{
			SunTimes:  times,
			Position:  SunPosition(t, lat, lon),
			DayLength: DayLength(times.Sunrise, times.Sunset),
		},
		Moon: Moon{
			Phase:        illum.Phase,
			PhaseName:    PhaseName(illum.Phase),
			Illumination: int(math.Round(illum.Fraction * 100)),
			Angle:        illum.Angle,
			Moonrise:     moon.Rise,
			Moonset:      moon.Set,
			AlwaysUp:     moon.AlwaysUp,
			AlwaysDown:   moon.AlwaysDown,
		},
	}
}

// DayLength returns the time between sunrise and sunset.
func DayLength(sunrise, sunset time.Time) time.Duration {
	if sunrise.IsZero() || sunset.IsZero() {
		return 0
	}
	return sunset.Sub(sunrise)
}

// PhaseName names a moon phase fraction (0..1).
func PhaseName(phase float64) string {
	switch {
	case phase < 0.033:
		return "New Moon"
	case phase < 0.216:
		return "Waxing Crescent"
	case phase < 0.283:
		return "First Quarter"
	case phase < 0.466:
		return "Waxing Gibbous"
	case phase < 0.533:
		return "Full Moon"
	case phase < 0.716:
		return "Waning Gibbous"
	case phase < 0.783:
		return "Last Quarter"
	case phase < 0.966:
		return "Waning Crescent"
	default:
		return "New Moon"
	}
}

// IsDaytime reports whether t falls between sunrise and sunset.
func IsDaytime(lat, lon float64, t time.Time) bool {
	st := SunEvents(t, lat, lon)
	if st.Sunrise.IsZero() || st.Sunset.IsZero() {
		// Polar day or night: decide by the sun's altitude.
		return SunPosition(t, lat, lon).Altitude > 0
	}
	return !t.Before(st.Sunrise) && !t.After(st.Sunset)
}

// IsGoldenHour reports whether t is within the morning or evening golden hour.
func IsGoldenHour(lat, lon float64, t time.Time) bool {
	st := SunEvents(t, lat, lon)
	within := func(from, to time.Time) bool {
		return !from.IsZero() && !to.IsZero() && !t.Before(from) && !t.After(to)
	}
	return within(st.Sunrise, st.GoldenHourEnd) || within(st.GoldenHour, st.Sunset)
}
