package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-dashboard/internal/astro"
	"github.com/i474232898/weather-dashboard/internal/format"
	"github.com/i474232898/weather-dashboard/internal/geo"
)

var (
	astroLat, astroLon float64
	astroDate          string
)

var astroCmd = &cobra.Command{
	Use:   "astro",
	Short: "Show sun and moon times",
	RunE:  runAstro,
}

func init() {
	rootCmd.AddCommand(astroCmd)
	astroCmd.Flags().Float64Var(&astroLat, "lat", 0, "latitude")
	astroCmd.Flags().Float64Var(&astroLon, "lon", 0, "longitude")
	astroCmd.Flags().StringVar(&astroDate, "date", "", "date as YYYY-MM-DD (default today)")
	astroCmd.MarkFlagsRequiredTogether("lat", "lon")
}

func runAstro(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var coord geo.Coordinate
	if cmd.Flags().Changed("lat") {
		coord = geo.Coordinate{Lat: astroLat, Lon: astroLon}
	} else {
		var tier geo.Tier
		coord, tier = deps.ctrl.ResolveLocation(ctx)
		if tier == geo.TierCached || tier == geo.TierDefault {
			fmt.Fprintf(os.Stderr, "Using %s location %s\n", tier, coord.DisplayName())
		}
	}

	at := time.Now()
	if astroDate != "" {
		d, err := time.ParseInLocation("2006-01-02", astroDate, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		at = d.Add(12 * time.Hour)
	}

	tf := deps.ctrl.DisplayOptions(ctx).TimeFormat
	clock := func(t time.Time) string {
		if t.IsZero() {
			return "--"
		}
		return format.Clock(t.Local(), tf)
	}

	data := astro.Compute(coord.Lat, coord.Lon, at)
	sun, moon := data.Sun, data.Moon

	fmt.Printf("%s, %s\n", coord.DisplayName(), format.FullDate(at))
	fmt.Printf("  Dawn:        %s\n", clock(sun.Dawn))
	fmt.Printf("  Sunrise:     %s\n", clock(sun.Sunrise))
	fmt.Printf("  Solar noon:  %s\n", clock(sun.SolarNoon))
	fmt.Printf("  Sunset:      %s\n", clock(sun.Sunset))
	fmt.Printf("  Dusk:        %s\n", clock(sun.Dusk))
	fmt.Printf("  Golden hour: %s\n", clock(sun.GoldenHour))
	fmt.Printf("  Day length:  %s\n", format.Duration(sun.DayLength))
	fmt.Printf("  Moon:        %s, %d%% lit\n", moon.PhaseName, moon.Illumination)
	fmt.Printf("  Moonrise:    %s\n", clock(moon.Moonrise))
	fmt.Printf("  Moonset:     %s\n", clock(moon.Moonset))
	return nil
}
