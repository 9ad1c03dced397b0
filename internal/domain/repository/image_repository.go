package repository

import (
	"context"

	"spark/internal/domain/entity"
	"spark/internal/errors"

	"github.com/google/uuid"
)

// ErrImageNotFound is returned when an image record is not found.
var ErrImageNotFound = errors.New("image not found")

// ImageRepository defines the operations on image records.
type ImageRepository interface {
	Create(ctx context.Context, image *entity.Image) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Image, error)

	// ListByProfileID returns the profile's images, oldest first.
	ListByProfileID(ctx context.Context, profileID uuid.UUID) ([]*entity.Image, error)
}
