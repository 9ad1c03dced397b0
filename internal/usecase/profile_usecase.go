package usecase

import (
	"context"

	"spark/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateProfileInput carries the mutable profile fields. Nil fields are left untouched.
type UpdateProfileInput struct {
	Bio *string
	VIP *bool
}

// ProfileUsecase defines the profile and discovery operations.
type ProfileUsecase interface {
	GetOwnProfile(ctx context.Context, accountID uuid.UUID) (*entity.Profile, error)
	// UpdateProfile changes the caller's own profile; other profiles yield ErrNotSelf.
	UpdateProfile(ctx context.Context, accountID, profileID uuid.UUID, input *UpdateProfileInput) (*entity.Profile, error)
	// ViewProfile returns targetID when it is the caller's own profile or a mutual match.
	ViewProfile(ctx context.Context, accountID, targetID uuid.UUID) (*entity.Profile, error)
	// Discover returns one random eligible candidate, or nil when nobody is in range.
	Discover(ctx context.Context, accountID uuid.UUID) (*entity.Profile, error)
}
