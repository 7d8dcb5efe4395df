package httpapi

import (
	"encoding/json"
	"errors"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-dashboard/internal/astro"
	"github.com/i474232898/weather-dashboard/internal/dashboard"
	"github.com/i474232898/weather-dashboard/internal/format"
	"github.com/i474232898/weather-dashboard/internal/geo"
)

var validate = validator.New()

// weatherResponse is the dashboard state plus its rendered panels.
type weatherResponse struct {
	State   dashboard.State     `json:"state"`
	Current *format.CurrentView `json:"current,omitempty"`
	Days    []format.DayView    `json:"days,omitempty"`
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, ctrl *dashboard.Controller) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-dashboard",
		})
	})

	v1 := app.Group("/api/v1")

	render := func(c *fiber.Ctx, st dashboard.State) error {
		resp := weatherResponse{State: st}
		if st.Snapshot != nil {
			view := format.Current(st.Snapshot, ctrl.DisplayOptions(c.UserContext()))
			resp.Current = &view
			resp.Days = format.Daily(st.Snapshot, time.Now())
		}
		return c.JSON(resp)
	}

	v1.Get("/weather", func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		coord, ok, err := parseCoordinateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var st dashboard.State
		switch {
		case ok:
			st, err = ctrl.SelectCity(ctx, coord)
		case ctrl.State().Snapshot != nil:
			st = ctrl.State()
		default:
			st, err = ctrl.Init(ctx)
		}
		if err != nil {
			return err
		}
		return render(c, st)
	})

	v1.Post("/weather/refresh", func(c *fiber.Ctx) error {
		st, err := ctrl.LoadWeather(c.UserContext(), false)
		if err != nil {
			return err
		}
		return render(c, st)
	})

	v1.Delete("/weather/cache", func(c *fiber.Ctx) error {
		if err := ctrl.ClearWeatherCache(c.UserContext()); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Get("/weather/yesterday", func(c *fiber.Ctx) error {
		snap, ok := ctrl.Yesterday(c.UserContext())
		if !ok {
			return fiber.NewError(fiber.StatusNotFound, "no snapshot saved yesterday")
		}
		return c.JSON(snap)
	})

	v1.Post("/location/current", func(c *fiber.Ctx) error {
		st, err := ctrl.UseCurrentLocation(c.UserContext())
		if err != nil {
			return err
		}
		return render(c, st)
	})

	v1.Get("/state", func(c *fiber.Ctx) error {
		return c.JSON(ctrl.State())
	})

	v1.Get("/search", func(c *fiber.Ctx) error {
		q := searchQuery{Query: c.Query("q")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		cities, err := ctrl.SearchCities(c.UserContext(), q.Query)
		if err != nil {
			return err
		}
		return c.JSON(cities)
	})

	v1.Get("/astronomy", func(c *fiber.Ctx) error {
		coord, ok, err := parseCoordinateQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if !ok {
			loc := ctrl.State().Location
			if loc == nil {
				return dashboard.ErrNoLocation
			}
			coord = *loc
		}

		at := time.Now()
		if s := c.Query("at"); s != "" {
			if at, err = parseTime(s); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}

		return c.JSON(fiber.Map{
			"location":     coord,
			"at":           at,
			"astronomy":    astro.Compute(coord.Lat, coord.Lon, at),
			"isDaytime":    astro.IsDaytime(coord.Lat, coord.Lon, at),
			"isGoldenHour": astro.IsGoldenHour(coord.Lat, coord.Lon, at),
		})
	})

	v1.Get("/preferences", func(c *fiber.Ctx) error {
		prefs, err := ctrl.Preferences(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(prefs)
	})

	v1.Get("/preferences/:key", func(c *fiber.Ctx) error {
		key := c.Params("key")
		value, err := ctrl.Preference(c.UserContext(), key)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"key": key, "value": value})
	})

	v1.Put("/preferences/:key", func(c *fiber.Ctx) error {
		key := c.Params("key")
		// fasthttp reuses the body buffer after the handler returns.
		raw := json.RawMessage(append([]byte(nil), c.Body()...))
		if len(raw) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "request body must be a JSON value")
		}
		if err := ctrl.SetPreference(c.UserContext(), key, raw); err != nil {
			return err
		}
		value, err := ctrl.Preference(c.UserContext(), key)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"key": key, "value": value})
	})

	v1.Get("/favorites", func(c *fiber.Ctx) error {
		favs, err := ctrl.Favorites(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(favs)
	})

	v1.Post("/favorites", func(c *fiber.Ctx) error {
		var coord geo.Coordinate
		if err := c.BodyParser(&coord); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid favorite body")
		}
		fav, err := ctrl.AddFavorite(c.UserContext(), coord)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fav)
	})

	v1.Post("/favorites/toggle", func(c *fiber.Ctx) error {
		added, err := ctrl.ToggleFavorite(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"isFavorite": added})
	})

	v1.Delete("/favorites/:key", func(c *fiber.Ctx) error {
		key, err := url.PathUnescape(c.Params("key"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid favorite key")
		}
		if err := ctrl.RemoveFavorite(c.UserContext(), key); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	v1.Delete("/data", func(c *fiber.Ctx) error {
		if c.Query("confirm") != "true" {
			return fiber.NewError(fiber.StatusBadRequest, "pass confirm=true to erase all data")
		}
		if err := ctrl.Reset(c.UserContext()); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	})
}

// coordinateQuery holds query parameters for identifying a place.
type coordinateQuery struct {
	Lat     *float64 `validate:"omitempty,gte=-90,lte=90"`
	Lon     *float64 `validate:"omitempty,gte=-180,lte=180"`
	Name    string   `validate:"max=100"`
	Country string   `validate:"max=100"`
}

// parseCoordinateQuery reads lat, lon, name and country. ok is false when
// neither lat nor lon is present.
func parseCoordinateQuery(c *fiber.Ctx) (geo.Coordinate, bool, error) {
	var q coordinateQuery
	for _, p := range []struct {
		name string
		dst  **float64
	}{{"lat", &q.Lat}, {"lon", &q.Lon}} {
		s := c.Query(p.name)
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return geo.Coordinate{}, false, errors.New(p.name + " must be a number")
		}
		*p.dst = &v
	}
	q.Name = c.Query("name")
	q.Country = c.Query("country")

	if (q.Lat == nil) != (q.Lon == nil) {
		return geo.Coordinate{}, false, errors.New("lat and lon must be given together")
	}
	if err := validate.Struct(q); err != nil {
		return geo.Coordinate{}, false, err
	}
	if q.Lat == nil {
		return geo.Coordinate{}, false, nil
	}
	return geo.Coordinate{Lat: *q.Lat, Lon: *q.Lon, Name: q.Name, Country: q.Country}, true, nil
}

// searchQuery holds the city search query. Short queries are accepted and
// yield no results.
type searchQuery struct {
	Query string `validate:"required,max=100"`
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
