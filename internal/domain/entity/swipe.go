// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Swipe is an immutable like/dislike decision of one profile about another.
type Swipe struct {
	ID        uuid.UUID // The Global Unique Identifier (GUID) for the swipe.
	SwiperID  uuid.UUID // The acting profile.
	SwipedID  uuid.UUID // The target profile.
	Liked     bool      // true for like, false for dislike.
	CreatedAt time.Time // When the decision was recorded.
}
