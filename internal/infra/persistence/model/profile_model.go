package model

import (
	"time"

	"github.com/google/uuid"
)

// ProfileModel mirrors the 'profiles' table. AccountID references accounts.id (UUID).
type ProfileModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	AccountID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	FirstName string    `gorm:"type:varchar(100)"`
	LastName  string    `gorm:"type:varchar(100)"`
	Bio       string    `gorm:"type:text"`
	Gender    string    `gorm:"type:varchar(1);not null;check:chk_profiles_gender,gender IN ('M','F')"`
	VIP       bool      `gorm:"column:vip;not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Location *LocationModel `gorm:"foreignKey:ProfileID"`
	Images   []ImageModel   `gorm:"foreignKey:ProfileID"`
}

// TableName explicitly sets the table name for GORM.
func (ProfileModel) TableName() string {
	return "profiles"
}

// LocationModel mirrors the 'locations' table. Latitude and longitude are NULL until the first geocode.
type LocationModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProfileID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	PlaceName   string     `gorm:"type:varchar(255);not null;default:''"`
	Latitude    *float64   `gorm:"type:double precision;check:(latitude IS NULL) = (longitude IS NULL)"`
	Longitude   *float64   `gorm:"type:double precision"`
	LastUpdated *time.Time `gorm:"column:last_updated"`
}

// TableName explicitly sets the table name for GORM.
func (LocationModel) TableName() string {
	return "locations"
}

// ImageModel mirrors the 'images' table. The bytes live in object storage under ObjectKey.
type ImageModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ProfileID   uuid.UUID `gorm:"type:uuid;not null;index"`
	ObjectKey   string    `gorm:"type:varchar(512);uniqueIndex;not null"`
	ContentType string    `gorm:"type:varchar(100)"`
	Size        int64     `gorm:"not null"`
	Checksum    string    `gorm:"type:varchar(64)"`
	CreatedAt   time.Time
}

// TableName explicitly sets the table name for GORM.
func (ImageModel) TableName() string {
	return "images"
}
