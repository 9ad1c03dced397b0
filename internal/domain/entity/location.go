// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Location is the current place of a profile. Coordinates is nil until the
// first successful geocode, which keeps latitude and longitude present or absent together.
type Location struct {
	ID          uuid.UUID    // The Global Unique Identifier (GUID) for the location.
	ProfileID   uuid.UUID    // The owning profile.
	PlaceName   string       // Free-text place name as typed by the user; empty until first update.
	Coordinates *Coordinates // Geocoded point for PlaceName.
	LastUpdated time.Time    // Timestamp of the last successful update; zero until then.
}

// HasPlace reports whether a place name has ever been set.
func (l *Location) HasPlace() bool {
	return l != nil && l.PlaceName != ""
}
