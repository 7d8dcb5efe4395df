package weather

import (
	"math"
	"sort"
	"time"
)

const (
	// HourlyPoints is 24 hours of the 3-hour timeline.
	HourlyPoints = 8
	// MaxDailyEntries caps the derived daily forecast.
	MaxDailyEntries = 7
)

// NextHours returns the first n timeline points as hourly entries.
func NextHours(points []ForecastPoint, n int) []HourlyEntry {
	if n > len(points) {
		n = len(points)
	}
	out := make([]HourlyEntry, 0, n)
	for _, p := range points[:n] {
		out = append(out, HourlyEntry{
			Time:        p.Time,
			Temp:        p.Temp,
			FeelsLike:   p.FeelsLike,
			Condition:   p.Condition,
			Description: p.Description,
			Icon:        p.Icon,
			Humidity:    p.Humidity,
			WindSpeedMS: p.WindSpeedMS,
			Pop:         RoundPercent(p.Pop),
		})
	}
	return out
}

// GroupByDay buckets timeline points by calendar day in loc. Each bucket takes
// the min and max temperature and the peak precipitation probability of its
// own points; condition fields come from the first point of the day. At most
// maxDays buckets are returned, in chronological order.
func GroupByDay(points []ForecastPoint, loc *time.Location, maxDays int) []DailyEntry {
	if loc == nil {
		loc = time.UTC
	}

	type bucket struct {
		entry DailyEntry
		pop   float64
	}

	buckets := make(map[string]*bucket)
	for _, p := range points {
		local := p.Time.In(loc)
		key := local.Format("2006-01-02")

		b, ok := buckets[key]
		if !ok {
			b = &bucket{
				entry: DailyEntry{
					Date:        time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc),
					TempMin:     math.Inf(1),
					TempMax:     math.Inf(-1),
					Condition:   p.Condition,
					Description: p.Description,
					Icon:        p.Icon,
				},
			}
			buckets[key] = b
		}

		b.entry.TempMin = math.Min(b.entry.TempMin, p.Temp)
		b.entry.TempMax = math.Max(b.entry.TempMax, p.Temp)
		b.pop = math.Max(b.pop, p.Pop)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if maxDays > 0 && len(keys) > maxDays {
		keys = keys[:maxDays]
	}

	out := make([]DailyEntry, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		b.entry.Pop = RoundPercent(b.pop)
		out = append(out, b.entry)
	}
	return out
}
