package astro

import (
	"math"
	"testing"
	"time"
)

func within(t *testing.T, name string, got, want time.Time, tol time.Duration) {
	t.Helper()
	if got.IsZero() {
		t.Fatalf("%s: got zero time", name)
	}
	if d := got.Sub(want); d > tol || d < -tol {
		t.Fatalf("%s: got %s, want %s ±%s", name, got.Format(time.RFC3339), want.Format(time.RFC3339), tol)
	}
}

func TestSunEventsLondonSolstice(t *testing.T) {
	day := time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC)
	st := SunEvents(day, 51.5074, -0.1278)

	within(t, "sunrise", st.Sunrise, time.Date(2024, 6, 21, 3, 43, 0, 0, time.UTC), 5*time.Minute)
	within(t, "sunset", st.Sunset, time.Date(2024, 6, 21, 20, 21, 0, 0, time.UTC), 5*time.Minute)
	within(t, "solar noon", st.SolarNoon, time.Date(2024, 6, 21, 12, 2, 0, 0, time.UTC), 5*time.Minute)

	if !st.Dawn.Before(st.Sunrise) || !st.Sunset.Before(st.Dusk) {
		t.Fatalf("civil twilight out of order: dawn=%s sunrise=%s sunset=%s dusk=%s", st.Dawn, st.Sunrise, st.Sunset, st.Dusk)
	}
	if !st.Sunrise.Before(st.GoldenHourEnd) || !st.GoldenHour.Before(st.Sunset) {
		t.Fatalf("golden hour out of order")
	}
}

func TestSunEventsPolarDay(t *testing.T) {
	st := SunEvents(time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC), 69.6492, 18.9553)
	if !st.Sunrise.IsZero() || !st.Sunset.IsZero() {
		t.Fatalf("expected no sunrise/sunset during midnight sun, got %s / %s", st.Sunrise, st.Sunset)
	}
	if st.SolarNoon.IsZero() {
		t.Fatalf("solar noon always exists")
	}
	if !IsDaytime(69.6492, 18.9553, time.Date(2024, 6, 21, 23, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected daylight at midnight in Tromsø in June")
	}
}

func TestMoonIllumination(t *testing.T) {
	full := MoonIllumination(time.Date(2024, 1, 25, 17, 54, 0, 0, time.UTC))
	if full.Fraction < 0.98 {
		t.Fatalf("full moon fraction = %.3f", full.Fraction)
	}
	if PhaseName(full.Phase) != "Full Moon" {
		t.Fatalf("full moon phase %.3f named %q", full.Phase, PhaseName(full.Phase))
	}

	newMoon := MoonIllumination(time.Date(2024, 1, 11, 11, 57, 0, 0, time.UTC))
	if newMoon.Fraction > 0.02 {
		t.Fatalf("new moon fraction = %.3f", newMoon.Fraction)
	}
}

func TestMoonEventsWithinDay(t *testing.T) {
	day := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	mt := MoonEvents(day, 51.5074, -0.1278)
	end := day.Add(24 * time.Hour)
	for name, v := range map[string]time.Time{"rise": mt.Rise, "set": mt.Set} {
		if v.IsZero() {
			continue
		}
		if v.Before(day) || v.After(end) {
			t.Fatalf("moon%s %s outside the requested day", name, v)
		}
	}
	if mt.Rise.IsZero() && mt.Set.IsZero() && !mt.AlwaysUp && !mt.AlwaysDown {
		t.Fatalf("expected at least one moon event or an always-up/down flag")
	}
}

func TestPhaseName(t *testing.T) {
	tests := map[float64]string{
		0:    "New Moon",
		0.1:  "Waxing Crescent",
		0.25: "First Quarter",
		0.4:  "Waxing Gibbous",
		0.5:  "Full Moon",
		0.6:  "Waning Gibbous",
		0.75: "Last Quarter",
		0.9:  "Waning Crescent",
		0.99: "New Moon",
	}
	for phase, want := range tests {
		if got := PhaseName(phase); got != want {
			t.Errorf("PhaseName(%v) = %q, want %q", phase, got, want)
		}
	}
}

func TestComputeIsTotal(t *testing.T) {
	d := Compute(51.5074, -0.1278, time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC))
	if d.Sun.DayLength < 16*time.Hour || d.Sun.DayLength > 17*time.Hour {
		t.Fatalf("unexpected day length %s", d.Sun.DayLength)
	}
	if d.Moon.Illumination < 0 || d.Moon.Illumination > 100 {
		t.Fatalf("illumination out of range: %d", d.Moon.Illumination)
	}
	if d.Sun.Altitude <= 0 || math.IsNaN(d.Sun.Altitude) {
		t.Fatalf("expected the sun above the horizon at noon, got %v", d.Sun.Altitude)
	}

	polar := Compute(78.2232, 15.6267, time.Date(2024, 12, 21, 12, 0, 0, 0, time.UTC))
	if polar.Sun.DayLength != 0 {
		t.Fatalf("expected zero day length during polar night, got %s", polar.Sun.DayLength)
	}
}

func TestIsGoldenHour(t *testing.T) {
	lat, lon := 51.5074, -0.1278
	st := SunEvents(time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC), lat, lon)
	if !IsGoldenHour(lat, lon, st.Sunset.Add(-10*time.Minute)) {
		t.Fatalf("expected golden hour shortly before sunset")
	}
	if IsGoldenHour(lat, lon, st.SolarNoon) {
		t.Fatalf("solar noon is not golden hour")
	}
}
