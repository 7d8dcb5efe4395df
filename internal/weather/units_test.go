package weather

import (
	"math"
	"testing"
)

func TestDewPoint(t *testing.T) {
	dp, ok := DewPoint(25, 60)
	if !ok {
		t.Fatalf("expected dew point")
	}
	if math.Abs(dp-16) > 1 {
		t.Fatalf("dew point for 25C/60%% = %.2f, want 16±1", dp)
	}

	if _, ok := DewPoint(20, 0); ok {
		t.Fatalf("expected no dew point for zero humidity")
	}

	// Saturated air: dew point equals temperature.
	dp, _ = DewPoint(12, 100)
	if math.Abs(dp-12) > 0.01 {
		t.Fatalf("dew point at 100%% = %.2f, want 12", dp)
	}
}

func TestDewPointImperial(t *testing.T) {
	// 77F / 60% is the same air as 25C / 60%.
	dp, ok := dewPointIn(Imperial, 77, 60)
	if !ok {
		t.Fatalf("expected dew point")
	}
	if math.Abs(dp-CelsiusToFahrenheit(16.68)) > 0.5 {
		t.Fatalf("imperial dew point = %.2f", dp)
	}
}

func TestConvertWindRoundTrip(t *testing.T) {
	kmh := ConvertWind(10, MS, KMH)
	if math.Abs(kmh-36) > 1e-9 {
		t.Fatalf("10 m/s = %v km/h, want 36", kmh)
	}
	back := ConvertWind(kmh, KMH, MS)
	if math.Abs(back-10) > 1e-9 {
		t.Fatalf("round trip = %v, want 10", back)
	}

	for _, unit := range []WindUnit{MS, KMH, MPH, Knots} {
		v := ConvertWind(ConvertWind(7.5, MS, unit), unit, MS)
		if math.Abs(v-7.5) > 1e-9 {
			t.Fatalf("%s round trip = %v", unit, v)
		}
	}

	if mph := ConvertWind(10, MS, MPH); math.Round(mph*10)/10 != 22.4 {
		t.Fatalf("10 m/s = %v mph", mph)
	}
}

func TestParseUnits(t *testing.T) {
	if _, err := ParseUnitSystem("kelvin"); err == nil {
		t.Fatalf("expected error for unknown unit system")
	}
	if u, err := ParseUnitSystem("imperial"); err != nil || u != Imperial {
		t.Fatalf("ParseUnitSystem(imperial) = %v, %v", u, err)
	}
	if _, err := ParseWindUnit("furlongs"); err == nil {
		t.Fatalf("expected error for unknown wind unit")
	}
	if Imperial.DefaultWindUnit() != MPH || Metric.DefaultWindUnit() != KMH {
		t.Fatalf("unexpected default wind units")
	}
}

func TestClassifications(t *testing.T) {
	if AQIDescription(3) != "Moderate" || AQIDescription(9) != "Unknown" {
		t.Fatalf("unexpected AQI description")
	}
	cases := map[float64]string{0: "Low", 2.9: "Low", 3: "Moderate", 6.5: "High", 10: "Very High", 11: "Extreme"}
	for idx, want := range cases {
		if got := UVRisk(idx); got != want {
			t.Fatalf("UVRisk(%v) = %s, want %s", idx, got, want)
		}
	}
}
