package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	debug   bool
	deps    *app
	rootCmd = &cobra.Command{
		Use:   "weather-dashboard",
		Short: "Weather dashboard for the current or a chosen location",
		Long: `weather-dashboard shows current conditions, forecast, air quality, UV and
astronomy for your location or any city, and serves the same data over HTTP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupLogging()
			a, err := newApp()
			if err != nil {
				return err
			}
			deps = a
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

func setupLogging() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// execute runs cmd and then releases deps. Cobra skips post-run hooks when a
// command fails, so this is done here instead.
func execute(ctx context.Context, cmd *cobra.Command) error {
	err := cmd.ExecuteContext(ctx)
	if deps != nil {
		if cerr := deps.Close(); cerr != nil {
			slog.Warn("failed to close store", "err", cerr)
		}
		deps = nil
	}
	return err
}

func main() {
	if err := execute(context.Background(), rootCmd); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
