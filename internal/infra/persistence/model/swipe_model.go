package model

import (
	"time"

	"github.com/google/uuid"
)

// SwipeModel mirrors the 'swipes' table. The (swiper_id, swiped_id) pair is unique.
type SwipeModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SwiperID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_swipes_pair,priority:1;index:idx_swipes_swiper_created,priority:1"`
	SwipedID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_swipes_pair,priority:2;index"`
	Liked     bool      `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;index:idx_swipes_swiper_created,priority:2"`
}

// TableName explicitly sets the table name for GORM.
func (SwipeModel) TableName() string {
	return "swipes"
}
