package repository

import (
	"context"
	"time"

	"spark/internal/domain/entity"
	"spark/internal/errors"

	"github.com/google/uuid"
)

var (
	// ErrSwipeNotFound is returned when no swipe exists for the ordered pair.
	ErrSwipeNotFound = errors.New("swipe not found")
	// ErrDuplicateSwipe is returned when the ordered pair already has a swipe.
	ErrDuplicateSwipe = errors.New("swipe already exists")
)

// SwipeRepository is the append-only log of swipe decisions.
type SwipeRepository interface {
	// Create appends a swipe. A second swipe for the same (swiper, swiped) pair yields ErrDuplicateSwipe.
	Create(ctx context.Context, swipe *entity.Swipe) error

	// Find returns the swipe swiperID made on swipedID.
	Find(ctx context.Context, swiperID, swipedID uuid.UUID) (*entity.Swipe, error)

	// CountBySwiperBetween counts swipes authored by swiperID with from <= created_at < to.
	CountBySwiperBetween(ctx context.Context, swiperID uuid.UUID, from, to time.Time) (int64, error)

	// ListSwipedIDs returns every profile id swiperID has swiped, liked or not.
	ListSwipedIDs(ctx context.Context, swiperID uuid.UUID) ([]uuid.UUID, error)

	// ListLikesBack returns the liked swipes pointing at profileID whose authors
	// profileID has liked as well, in storage order.
	ListLikesBack(ctx context.Context, profileID uuid.UUID) ([]*entity.Swipe, error)
}
