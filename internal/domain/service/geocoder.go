package service

import (
	"context"

	"spark/internal/domain/entity"
	"spark/internal/errors"
)

// ErrPlaceNotFound is returned by a Geocoder that has no result for the query.
var ErrPlaceNotFound = errors.New("place not found")

// Geocoder resolves a free-text place name to coordinates.
type Geocoder interface {
	// Geocode returns the best match for place. Implementations honour ctx cancellation
	// and return ErrPlaceNotFound when the lookup succeeds with no result.
	Geocode(ctx context.Context, place string) (entity.Coordinates, error)
}
