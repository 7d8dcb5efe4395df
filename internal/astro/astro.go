// Package astro computes sun and moon data for a position and instant.
//
// The formulas follow the low-precision solar and lunar models published by
// the Astronomical Almanac and popularised by the SunCalc library; results are
// accurate to about a minute, which is plenty for a dashboard.
package astro

import (
	"math"
	"time"
)

const (
	rad     = math.Pi / 180
	dayDur  = 24 * time.Hour
	j1970   = 2440588.0
	j2000   = 2451545.0
	e       = rad * 23.4397 // obliquity of the Earth
	j0      = 0.0009
	sunDist = 149598000.0 // km
)

func toJulian(t time.Time) float64 {
	return float64(t.UnixMilli())/float64(dayDur.Milliseconds()) - 0.5 + j1970
}

func fromJulian(j float64) time.Time {
	if math.IsNaN(j) || math.IsInf(j, 0) {
		return time.Time{}
	}
	ms := (j + 0.5 - j1970) * float64(dayDur.Milliseconds())
	return time.UnixMilli(int64(math.Round(ms))).UTC()
}

func toDays(t time.Time) float64 {
	return toJulian(t) - j2000
}

func rightAscension(l, b float64) float64 {
	return math.Atan2(math.Sin(l)*math.Cos(e)-math.Tan(b)*math.Sin(e), math.Cos(l))
}

func declination(l, b float64) float64 {
	return math.Asin(math.Sin(b)*math.Cos(e) + math.Cos(b)*math.Sin(e)*math.Sin(l))
}

func azimuth(h, phi, dec float64) float64 {
	return math.Atan2(math.Sin(h), math.Cos(h)*math.Sin(phi)-math.Tan(dec)*math.Cos(phi))
}

func altitude(h, phi, dec float64) float64 {
	return math.Asin(math.Sin(phi)*math.Sin(dec) + math.Cos(phi)*math.Cos(dec)*math.Cos(h))
}

func siderealTime(d, lw float64) float64 {
	return rad*(280.16+360.9856235*d) - lw
}

func astroRefraction(h float64) float64 {
	if h < 0 {
		h = 0
	}
	return 0.0002967 / math.Tan(h+0.00312536/(h+0.08901179))
}

func solarMeanAnomaly(d float64) float64 {
	return rad * (357.5291 + 0.98560028*d)
}

func eclipticLongitude(m float64) float64 {
	c := rad * (1.9148*math.Sin(m) + 0.02*math.Sin(2*m) + 0.0003*math.Sin(3*m))
	p := rad * 102.9372 // perihelion of the Earth
	return m + c + p + math.Pi
}

type equatorial struct {
	dec, ra float64
}

func sunCoords(d float64) equatorial {
	l := eclipticLongitude(solarMeanAnomaly(d))
	return equatorial{dec: declination(l, 0), ra: rightAscension(l, 0)}
}

// Position is the apparent position of a body; angles are in radians.
// Azimuth is measured from south, westward positive.
type Position struct {
	Altitude float64 `json:"altitude"`
	Azimuth  float64 `json:"azimuth"`
}

// SunPosition returns the sun's position at t for the given coordinates.
func SunPosition(t time.Time, lat, lon float64) Position {
	lw := rad * -lon
	phi := rad * lat
	d := toDays(t)
	c := sunCoords(d)
	h := siderealTime(d, lw) - c.ra

	return Position{
		Altitude: altitude(h, phi, c.dec),
		Azimuth:  azimuth(h, phi, c.dec),
	}
}

func julianCycle(d, lw float64) float64 {
	return math.Round(d - j0 - lw/(2*math.Pi))
}

func approxTransit(ht, lw, n float64) float64 {
	return j0 + (ht+lw)/(2*math.Pi) + n
}

func solarTransitJ(ds, m, l float64) float64 {
	return j2000 + ds + 0.0053*math.Sin(m) - 0.0069*math.Sin(2*l)
}

func hourAngle(h, phi, d float64) float64 {
	return math.Acos((math.Sin(h) - math.Sin(phi)*math.Sin(d)) / (math.Cos(phi) * math.Cos(d)))
}

func setJ(h, lw, phi, dec, n, m, l float64) float64 {
	w := hourAngle(h, phi, dec)
	a := approxTransit(w, lw, n)
	return solarTransitJ(a, m, l)
}

// SunTimes holds the sun events for one solar day. Events that do not occur
// (polar day or night) are the zero time.
type SunTimes struct {
	SolarNoon     time.Time `json:"solarNoon"`
	Nadir         time.Time `json:"nadir"`
	Sunrise       time.Time `json:"sunrise"`
	Sunset        time.Time `json:"sunset"`
	SunriseEnd    time.Time `json:"sunriseEnd"`
	SunsetStart   time.Time `json:"sunsetStart"`
	Dawn          time.Time `json:"dawn"`
	Dusk          time.Time `json:"dusk"`
	NauticalDawn  time.Time `json:"nauticalDawn"`
	NauticalDusk  time.Time `json:"nauticalDusk"`
	NightEnd      time.Time `json:"nightEnd"`
	Night         time.Time `json:"night"`
	GoldenHourEnd time.Time `json:"goldenHourEnd"`
	GoldenHour    time.Time `json:"goldenHour"`
}

// SunEvents calculates sun times for the solar day nearest t.
func SunEvents(t time.Time, lat, lon float64) SunTimes {
	lw := rad * -lon
	phi := rad * lat
	d := toDays(t)
	n := julianCycle(d, lw)
	ds := approxTransit(0, lw, n)
	m := solarMeanAnomaly(ds)
	l := eclipticLongitude(m)
	dec := declination(l, 0)
	jNoon := solarTransitJ(ds, m, l)

	pair := func(angle float64) (rise, set time.Time) {
		jSet := setJ(angle*rad, lw, phi, dec, n, m, l)
		jRise := jNoon - (jSet - jNoon)
		return fromJulian(jRise), fromJulian(jSet)
	}

	st := SunTimes{
		SolarNoon: fromJulian(jNoon),
		Nadir:     fromJulian(jNoon - 0.5),
	}
	st.Sunrise, st.Sunset = pair(-0.833)
	st.SunriseEnd, st.SunsetStart = pair(-0.3)
	st.Dawn, st.Dusk = pair(-6)
	st.NauticalDawn, st.NauticalDusk = pair(-12)
	st.NightEnd, st.Night = pair(-18)
	st.GoldenHourEnd, st.GoldenHour = pair(6)
	return st
}

type moonEquatorial struct {
	ra, dec, dist float64
}

func moonCoords(d float64) moonEquatorial {
	l := rad * (218.316 + 13.176396*d) // ecliptic longitude
	m := rad * (134.963 + 13.064993*d) // mean anomaly
	f := rad * (93.272 + 13.229350*d)  // mean distance

	lng := l + rad*6.289*math.Sin(m)
	lat := rad * 5.128 * math.Sin(f)
	dist := 385001 - 20905*math.Cos(m)

	return moonEquatorial{
		ra:   rightAscension(lng, lat),
		dec:  declination(lng, lat),
		dist: dist,
	}
}

// MoonPosition returns the moon's apparent position at t, corrected for
// atmospheric refraction.
func MoonPosition(t time.Time, lat, lon float64) Position {
	lw := rad * -lon
	phi := rad * lat
	d := toDays(t)
	c := moonCoords(d)
	h := siderealTime(d, lw) - c.ra
	alt := altitude(h, phi, c.dec)
	alt += astroRefraction(alt)

	return Position{
		Altitude: alt,
		Azimuth:  azimuth(h, phi, c.dec),
	}
}

// Illumination describes the lit part of the moon.
type Illumination struct {
	// Fraction is the illuminated fraction, 0..1.
	Fraction float64 `json:"fraction"`
	// Phase runs 0 (new) → 0.25 (first quarter) → 0.5 (full) → 0.75 (last quarter) → 1.
	Phase float64 `json:"phase"`
	Angle float64 `json:"angle"`
}

// MoonIllumination calculates the moon illumination at t.
func MoonIllumination(t time.Time) Illumination {
	d := toDays(t)
	s := sunCoords(d)
	m := moonCoords(d)

	phi := math.Acos(math.Sin(s.dec)*math.Sin(m.dec) + math.Cos(s.dec)*math.Cos(m.dec)*math.Cos(s.ra-m.ra))
	inc := math.Atan2(sunDist*math.Sin(phi), m.dist-sunDist*math.Cos(phi))
	angle := math.Atan2(
		math.Cos(s.dec)*math.Sin(s.ra-m.ra),
		math.Sin(s.dec)*math.Cos(m.dec)-math.Cos(s.dec)*math.Sin(m.dec)*math.Cos(s.ra-m.ra),
	)

	sign := 1.0
	if angle < 0 {
		sign = -1
	}

	return Illumination{
		Fraction: (1 + math.Cos(inc)) / 2,
		Phase:    0.5 + 0.5*inc*sign/math.Pi,
		Angle:    angle,
	}
}

// MoonTimes holds moonrise and moonset for a calendar day.
type MoonTimes struct {
	Rise       time.Time `json:"rise"`
	Set        time.Time `json:"set"`
	AlwaysUp   bool      `json:"alwaysUp,omitempty"`
	AlwaysDown bool      `json:"alwaysDown,omitempty"`
}

// MoonEvents finds moonrise and moonset on the calendar day of t, in t's
// location. Missing events are the zero time.
func MoonEvents(t time.Time, lat, lon float64) MoonTimes {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	hc := 0.133 * rad
	altAt := func(hours float64) float64 {
		at := start.Add(time.Duration(hours * float64(time.Hour)))
		return MoonPosition(at, lat, lon).Altitude - hc
	}

	var (
		rise, set       float64
		hasRise, hasSet bool
		ye              float64
	)

	h0 := altAt(0)
	for i := 1.0; i <= 24; i += 2 {
		h1 := altAt(i)
		h2 := altAt(i + 1)

		// Fit a parabola through the three samples and find its roots.
		a := (h0+h2)/2 - h1
		b := (h2 - h0) / 2
		xe := -b / (2 * a)
		ye = (a*xe+b)*xe + h1
		disc := b*b - 4*a*h1
		roots := 0
		var x1, x2 float64

		if disc >= 0 {
			dx := math.Sqrt(disc) / (math.Abs(a) * 2)
			x1 = xe - dx
			x2 = xe + dx
			if math.Abs(x1) <= 1 {
				roots++
			}
			if math.Abs(x2) <= 1 {
				roots++
			}
			if x1 < -1 {
				x1 = x2
			}
		}

		switch roots {
		case 1:
			if h0 < 0 {
				rise, hasRise = i+x1, true
			} else {
				set, hasSet = i+x1, true
			}
		case 2:
			if ye < 0 {
				rise, set = i+x2, i+x1
			} else {
				rise, set = i+x1, i+x2
			}
			hasRise, hasSet = true, true
		}

		if hasRise && hasSet {
			break
		}
		h0 = h2
	}

	var mt MoonTimes
	if hasRise {
		mt.Rise = start.Add(time.Duration(rise * float64(time.Hour)))
	}
	if hasSet {
		mt.Set = start.Add(time.Duration(set * float64(time.Hour)))
	}
	if !hasRise && !hasSet {
		if ye > 0 {
			mt.AlwaysUp = true
		} else {
			mt.AlwaysDown = true
		}
	}
	return mt
}
