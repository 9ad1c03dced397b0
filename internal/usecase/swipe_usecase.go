package usecase

import (
	"context"

	"spark/internal/domain/entity"

	"github.com/google/uuid"
)

// RecordSwipeInput is a like or dislike decision on a profile.
// Liked is a pointer so that an absent decision can be told apart from false.
type RecordSwipeInput struct {
	SwipedID uuid.UUID
	Liked    *bool
}

// SwipeOutput reports the stored swipe and whether it completed a match.
type SwipeOutput struct {
	Swipe   *entity.Swipe
	Matched bool
	// Chat is set when Matched is true.
	Chat *entity.Chat
}

// SwipeUsecase defines the swipe ledger and the match gate.
type SwipeUsecase interface {
	RecordSwipe(ctx context.Context, accountID uuid.UUID, input *RecordSwipeInput) (*SwipeOutput, error)
	// ListMatches returns the liked swipes pointing back at the caller from profiles the caller liked.
	ListMatches(ctx context.Context, accountID uuid.UUID) ([]*entity.Swipe, error)
	// CanView reports whether viewerID and targetID have liked each other.
	CanView(ctx context.Context, viewerID, targetID uuid.UUID) (bool, error)
}
