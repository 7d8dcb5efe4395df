package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/weather-dashboard/internal/api/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over HTTP",
	Long: `Start the HTTP API. The weather for the resolved location is loaded at
startup and refreshed on the configured auto-refresh interval.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctrl := deps.ctrl

	// Initial load; failures leave an empty dashboard that the next refresh fills.
	initCtx, cancel := context.WithTimeout(ctx, deps.cfg.HTTPTimeout+deps.cfg.GPSTimeout)
	if _, err := ctrl.Init(initCtx); err != nil {
		slog.Warn("initial weather load failed", "err", err)
	}
	cancel()

	if err := deps.refresher.Start(time.Duration(ctrl.AutoRefreshMinutes(ctx)) * time.Minute); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	app := fiber.New(fiber.Config{
		AppName:               "weather-dashboard",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          deps.cfg.HTTPTimeout + deps.cfg.GPSTimeout + 5*time.Second,
		ErrorHandler:          httpapi.ErrorHandler,
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	httpapi.RegisterRoutes(app, ctrl)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("listening", "port", deps.cfg.Port)
		errCh <- app.Listen(":" + deps.cfg.Port)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("fiber server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("error during shutdown", "err", err)
	}
	return nil
}
