// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Image is a picture attached to a profile. The bytes live in object storage under Key.
type Image struct {
	ID          uuid.UUID
	ProfileID   uuid.UUID
	Key         string // Object key inside the image bucket.
	ContentType string
	Size        int64
	Checksum    string // Hex SHA256 of the stored bytes.
	CreatedAt   time.Time
}
