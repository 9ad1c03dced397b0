package matching

import (
	"spark/internal/domain/entity"

	"github.com/google/uuid"
)

// IsMatch reports whether forward and backward are opposite likes between the same two profiles.
func IsMatch(forward, backward *entity.Swipe) bool {
	if forward == nil || backward == nil {
		return false
	}

	return forward.Liked && backward.Liked &&
		forward.SwiperID == backward.SwipedID &&
		forward.SwipedID == backward.SwiperID &&
		forward.SwiperID != forward.SwipedID
}

// CanParticipate reports whether profileID is a member of chat.
func CanParticipate(profileID uuid.UUID, chat *entity.Chat) bool {
	return chat.HasParticipant(profileID)
}
