package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/format"
	"github.com/i474232898/weather-dashboard/internal/geo"
)

var (
	nowLat, nowLon float64
	nowName        string
	nowCountry     string
	nowJSON        bool
	nowLocate      bool
)

var nowCmd = &cobra.Command{
	Use:   "now",
	Short: "Show the current weather",
	Long: `Show current conditions and the daily forecast. Without --lat/--lon the
saved default location or the resolved device location is used.`,
	RunE: runNow,
}

func init() {
	rootCmd.AddCommand(nowCmd)
	nowCmd.Flags().Float64Var(&nowLat, "lat", 0, "latitude")
	nowCmd.Flags().Float64Var(&nowLon, "lon", 0, "longitude")
	nowCmd.Flags().StringVar(&nowName, "name", "", "place name to display")
	nowCmd.Flags().StringVar(&nowCountry, "country", "", "country code to display")
	nowCmd.Flags().BoolVar(&nowJSON, "json", false, "print the raw dashboard state as JSON")
	nowCmd.Flags().BoolVar(&nowLocate, "locate", false, "demand a fresh device location fix")
	nowCmd.MarkFlagsRequiredTogether("lat", "lon")
}

func runNow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	ctrl := deps.ctrl

	var (
		st  dashboard.State
		err error
	)
	switch {
	case cmd.Flags().Changed("lat"):
		coord := geo.Coordinate{Lat: nowLat, Lon: nowLon, Name: nowName, Country: nowCountry}
		if coord.Name == "" {
			if city, err := deps.geocoder.ReverseGeocode(ctx, coord); err == nil {
				coord = coord.WithPlace(city.Name, city.Country)
			} else {
				slog.Debug("reverse geocoding failed", "err", err)
			}
		}
		st, err = ctrl.SelectCity(ctx, coord)
	case nowLocate:
		st, err = ctrl.UseCurrentLocation(ctx)
	default:
		st, err = ctrl.Init(ctx)
	}
	if err != nil {
		var lerr *geo.LocationError
		if errors.As(err, &lerr) {
			return errors.New(lerr.Message())
		}
		return err
	}

	if nowJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}
	printState(os.Stdout, st, ctrl.DisplayOptions(ctx))
	return nil
}

func printState(w io.Writer, st dashboard.State, opts format.Options) {
	if st.Snapshot == nil {
		fmt.Fprintln(w, "No weather data.")
		return
	}

	v := format.Current(st.Snapshot, opts)
	fav := ""
	if st.IsFavorite {
		fav = " ★"
	}
	fmt.Fprintf(w, "%s%s\n", v.Location, fav)
	fmt.Fprintf(w, "  %s, %s (feels like %s)\n", v.Temperature, v.Description, v.FeelsLike)
	fmt.Fprintf(w, "  High/Low:   %s\n", v.HighLow)
	fmt.Fprintf(w, "  Humidity:   %s\n", v.Humidity)
	if v.DewPoint != "" {
		fmt.Fprintf(w, "  Dew point:  %s\n", v.DewPoint)
	}
	fmt.Fprintf(w, "  Pressure:   %s (%s)\n", v.Pressure, v.Trend)
	fmt.Fprintf(w, "  Wind:       %s\n", v.Wind)
	fmt.Fprintf(w, "  Visibility: %s\n", v.Visibility)
	fmt.Fprintf(w, "  Clouds:     %s\n", v.Clouds)
	fmt.Fprintf(w, "  Sun:        %s - %s\n", v.Sunrise, v.Sunset)
	if v.AirQuality != "" {
		fmt.Fprintf(w, "  Air:        %s\n", v.AirQuality)
	}
	if v.UV != "" {
		fmt.Fprintf(w, "  UV:         %s\n", v.UV)
	}
	if st.FromCache {
		fmt.Fprintf(w, "  (cached, fetched %s)\n", format.Clock(st.Snapshot.FetchedAt.Local(), opts.TimeFormat))
	}

	days := format.Daily(st.Snapshot, time.Now())
	if len(days) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, d := range days {
		fmt.Fprintf(w, "  %-10s %6s / %-6s %4s  %s\n", d.Label, d.High, d.Low, d.Pop, d.Description)
	}
}
