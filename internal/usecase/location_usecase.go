package usecase

import (
	"context"

	"spark/internal/domain/entity"

	"github.com/google/uuid"
)

// LocationUsecase defines the location gate.
type LocationUsecase interface {
	GetOwnLocation(ctx context.Context, accountID uuid.UUID) (*entity.Location, error)
	// UpdateLocation geocodes placeName and stores it on the caller's location,
	// at most once per configured interval.
	UpdateLocation(ctx context.Context, accountID, locationID uuid.UUID, placeName string) (*entity.Location, error)
}
