package httpapi

import (
	"errors"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/store"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// ErrorHandler is the centralized error response for the Fiber app.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code, msg := statusFor(err)
	if code >= fiber.StatusInternalServerError {
		slog.Error("request failed", "method", c.Method(), "path", c.Path(), "status", code, "err", err)
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": msg,
	})
}

func statusFor(err error) (int, string) {
	var (
		fe   *fiber.Error
		lerr *geo.LocationError
		ferr *weather.FetchError
		serr *store.Error
		verr validator.ValidationErrors
	)
	switch {
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	case errors.As(err, &lerr):
		switch lerr.Kind {
		case geo.PermissionDenied:
			return fiber.StatusForbidden, lerr.Message()
		case geo.Timeout:
			return fiber.StatusGatewayTimeout, lerr.Message()
		default:
			return fiber.StatusServiceUnavailable, lerr.Message()
		}
	case errors.As(err, &ferr):
		return fiber.StatusBadGateway, "Failed to load weather data. Please try again."
	case errors.Is(err, dashboard.ErrSuperseded):
		return fiber.StatusConflict, "superseded by a newer request"
	case errors.Is(err, dashboard.ErrNoLocation):
		return fiber.StatusConflict, err.Error()
	case errors.Is(err, dashboard.ErrUnknownPreference):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, dashboard.ErrInvalidPreference), errors.Is(err, geo.ErrInvalidKey), errors.As(err, &verr):
		return fiber.StatusBadRequest, err.Error()
	case errors.As(err, &serr):
		return fiber.StatusInternalServerError, "storage unavailable"
	default:
		return fiber.StatusInternalServerError, "internal error"
	}
}
