// Package dashboard holds the application state and the actions that mutate
// it. Every change goes through a Controller method; readers get copies.
package dashboard

import (
	"time"

	"github.com/i474232898/weather-dashboard/internal/geo"
	"github.com/i474232898/weather-dashboard/internal/weather"
)

// State is the dashboard's view of the world.
type State struct {
	Snapshot      *weather.Snapshot  `json:"snapshot"`
	Location      *geo.Coordinate    `json:"location"`
	LocationTier  geo.Tier           `json:"locationTier,omitempty"`
	LocationState string             `json:"locationState"`
	Units         weather.UnitSystem `json:"units"`
	IsFavorite    bool               `json:"isFavorite"`
	Loading       bool               `json:"loading"`
	FromCache     bool               `json:"fromCache"`
	Error         string             `json:"error,omitempty"`
	UpdatedAt     time.Time          `json:"updatedAt,omitempty"`
}

// copy returns s with its pointers detached from the controller.
func (s State) copy() State {
	if s.Location != nil {
		loc := *s.Location
		s.Location = &loc
	}
	return s
}
