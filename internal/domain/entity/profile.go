// Package entity contains the core business objects of the project.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Gender is the binary gender used by discovery to pick opposite-gender candidates.
type Gender string

const (
	// GenderMale is the "M" choice.
	GenderMale Gender = "M"
	// GenderFemale is the "F" choice.
	GenderFemale Gender = "F"
)

// String returns the string representation of the Gender.
func (g Gender) String() string {
	return string(g)
}

// IsValid checks if the Gender is one of the supported values.
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale:
		return true
	default:
		return false
	}
}

// Opposite returns the other gender. An invalid gender maps to itself.
func (g Gender) Opposite() Gender {
	switch g {
	case GenderMale:
		return GenderFemale
	case GenderFemale:
		return GenderMale
	default:
		return g
	}
}

// Profile is the public dating identity of an account.
type Profile struct {
	ID        uuid.UUID   // The Global Unique Identifier (GUID) for the profile.
	AccountID uuid.UUID   // The owning account; one profile per account.
	FirstName string      // Given name, copied from the account.
	LastName  string      // Family name, copied from the account.
	Bio       string      // Free-text description.
	Gender    Gender      // Required, never changed after registration.
	VIP       bool        // Selects the VIP subscription tier when set.
	Location  *Location   // Current location; nil when not loaded.
	ImageIDs  []uuid.UUID // Attached images, oldest first.
	CreatedAt time.Time   // Timestamp of when this profile was created.
	UpdatedAt time.Time   // Timestamp of the last modification.
}

// Coordinates returns the profile's coordinates, or nil when the profile has no geocoded location.
func (p *Profile) Coordinates() *Coordinates {
	if p == nil || p.Location == nil {
		return nil
	}

	return p.Location.Coordinates
}
