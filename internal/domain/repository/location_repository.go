package repository

import (
	"context"

	"spark/internal/domain/entity"
	"spark/internal/errors"

	"github.com/google/uuid"
)

// ErrLocationNotFound is returned when a location is not found.
var ErrLocationNotFound = errors.New("location not found")

// LocationRepository defines the operations on profile locations.
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Location, error)

	// LockForUpdate is FindByID holding the row lock until the transaction ends.
	LockForUpdate(ctx context.Context, id uuid.UUID) (*entity.Location, error)

	FindByProfileID(ctx context.Context, profileID uuid.UUID) (*entity.Location, error)

	// Update overwrites place name, coordinates and last update time.
	Update(ctx context.Context, location *entity.Location) error
}
