package geo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/i474232898/weather-dashboard/internal/common"
)

// KeyPrecision is the number of decimal places kept when deriving a
// coordinate key. Four places is roughly 11 metres at the equator.
const KeyPrecision = 4

// Coordinate is a geographic position, optionally carrying a resolved place name.
type Coordinate struct {
	Lat      float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon      float64 `json:"lon" validate:"gte=-180,lte=180"`
	Name     string  `json:"name,omitempty"`
	Country  string  `json:"country,omitempty"`
	Accuracy float64 `json:"accuracy,omitempty"`
}

// DefaultLocation is used when neither a live fix nor a last known location exist.
var DefaultLocation = Coordinate{
	Lat:     51.5074,
	Lon:     -0.1278,
	Name:    "London",
	Country: "GB",
}

// FavoriteKey derives the identity of a coordinate from its latitude and
// longitude only. Every store, lookup and delete path must go through it.
func FavoriteKey(c Coordinate) string {
	return fmt.Sprintf("%.*f,%.*f",
		KeyPrecision, common.RoundTo(c.Lat, KeyPrecision),
		KeyPrecision, common.RoundTo(c.Lon, KeyPrecision),
	)
}

// ErrInvalidKey is returned by ParseFavoriteKey for anything other than
// "lat,lon" within range.
var ErrInvalidKey = errors.New("favorite key must be \"lat,lon\"")

// ParseFavoriteKey reads a "lat,lon" key at any precision. The result's Key is
// the canonical form, so "51.50740,-0.1278" and "51.5074,-0.12780" name the
// same favorite.
func ParseFavoriteKey(key string) (Coordinate, error) {
	latStr, lonStr, ok := strings.Cut(key, ",")
	if !ok {
		return Coordinate{}, ErrInvalidKey
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil || lat < -90 || lat > 90 {
		return Coordinate{}, ErrInvalidKey
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil || lon < -180 || lon > 180 {
		return Coordinate{}, ErrInvalidKey
	}
	return Coordinate{Lat: lat, Lon: lon}, nil
}

// Key is shorthand for FavoriteKey(c).
func (c Coordinate) Key() string {
	return FavoriteKey(c)
}

// WithPlace returns a copy of c carrying the given place name and country.
func (c Coordinate) WithPlace(name, country string) Coordinate {
	c.Name = name
	c.Country = country
	return c
}

// DisplayName renders "Name, Country", falling back to the raw coordinates.
func (c Coordinate) DisplayName() string {
	switch {
	case c.Name != "" && c.Country != "":
		return c.Name + ", " + c.Country
	case c.Name != "":
		return c.Name
	default:
		return fmt.Sprintf("%.4f, %.4f", c.Lat, c.Lon)
	}
}
