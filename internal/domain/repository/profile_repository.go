package repository

import (
	"context"

	"spark/internal/domain/entity"
	"spark/internal/errors"

	"github.com/google/uuid"
)

var (
	// ErrProfileNotFound is returned when a profile is not found.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileConflict is returned when the account already owns a profile.
	ErrProfileConflict = errors.New("profile already exists for account")
)

// ProfileRepository defines the operations on profiles. Read methods load the
// profile's location and image ids.
type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Profile, error)

	FindByAccountID(ctx context.Context, accountID uuid.UUID) (*entity.Profile, error)

	// Update writes the mutable fields of a profile (bio, vip).
	Update(ctx context.Context, profile *entity.Profile) error

	// LockForUpdate loads the profile and holds a write lock on it until the
	// surrounding transaction ends. Used to serialise work per profile.
	LockForUpdate(ctx context.Context, id uuid.UUID) (*entity.Profile, error)

	// ListByGender returns every profile of the given gender with its location.
	ListByGender(ctx context.Context, gender entity.Gender) ([]*entity.Profile, error)
}
