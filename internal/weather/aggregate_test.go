package weather

import (
	"testing"
	"time"
)

func timelineFrom(start time.Time, temps []float64, pops []float64) []ForecastPoint {
	points := make([]ForecastPoint, len(temps))
	for i, temp := range temps {
		points[i] = ForecastPoint{
			Time:      start.Add(time.Duration(i) * 3 * time.Hour),
			Temp:      temp,
			Condition: ConditionClear,
		}
		if i < len(pops) {
			points[i].Pop = pops[i]
		}
	}
	return points
}

func TestGroupByDayAcrossMidnight(t *testing.T) {
	// 12:00 UTC start: 4 points on day one, 4 on day two.
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	points := timelineFrom(start,
		[]float64{18, 21, 16, 12, 10, 13, 19, 22},
		[]float64{0.1, 0.45, 0, 0, 0.2, 0.8, 0.3, 0},
	)

	days := GroupByDay(points, time.UTC, MaxDailyEntries)
	if len(days) != 2 {
		t.Fatalf("expected 2 days, got %d", len(days))
	}

	if days[0].TempMin != 12 || days[0].TempMax != 21 {
		t.Fatalf("day one min/max = %v/%v, want 12/21", days[0].TempMin, days[0].TempMax)
	}
	if days[1].TempMin != 10 || days[1].TempMax != 22 {
		t.Fatalf("day two min/max = %v/%v, want 10/22", days[1].TempMin, days[1].TempMax)
	}
	if days[0].Pop != 45 || days[1].Pop != 80 {
		t.Fatalf("pop = %d/%d, want 45/80", days[0].Pop, days[1].Pop)
	}
	if !days[0].Date.Before(days[1].Date) {
		t.Fatalf("days out of order: %v, %v", days[0].Date, days[1].Date)
	}
}

func TestGroupByDayUsesLocalZone(t *testing.T) {
	// 22:00 UTC is already the next day at UTC+3.
	start := time.Date(2024, 6, 1, 22, 0, 0, 0, time.UTC)
	points := timelineFrom(start, []float64{10, 11}, nil)

	utc := GroupByDay(points, time.UTC, MaxDailyEntries)
	if len(utc) != 2 {
		t.Fatalf("expected 2 UTC days, got %d", len(utc))
	}

	local := GroupByDay(points, time.FixedZone("", 3*3600), MaxDailyEntries)
	if len(local) != 1 {
		t.Fatalf("expected 1 local day, got %d", len(local))
	}
	if local[0].Date.Day() != 2 {
		t.Fatalf("expected local date June 2, got %v", local[0].Date)
	}
}

func TestGroupByDayCapsDays(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	temps := make([]float64, 8*10)
	points := timelineFrom(start, temps, nil)

	days := GroupByDay(points, time.UTC, MaxDailyEntries)
	if len(days) != MaxDailyEntries {
		t.Fatalf("expected %d days, got %d", MaxDailyEntries, len(days))
	}
	if GroupByDay(nil, nil, MaxDailyEntries) == nil {
		t.Fatalf("expected empty slice, got nil")
	}
}

func TestNextHours(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	points := timelineFrom(start, make([]float64, 40), []float64{0.333})

	hours := NextHours(points, HourlyPoints)
	if len(hours) != HourlyPoints {
		t.Fatalf("expected %d entries, got %d", HourlyPoints, len(hours))
	}
	if hours[0].Pop != 33 {
		t.Fatalf("expected pop 33, got %d", hours[0].Pop)
	}
	if got := NextHours(points[:3], HourlyPoints); len(got) != 3 {
		t.Fatalf("expected 3 entries from short timeline, got %d", len(got))
	}
}
