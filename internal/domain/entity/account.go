// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Account is the login identity that exclusively owns one Profile.
type Account struct {
	ID           uuid.UUID // The Global Unique Identifier (GUID) for the account.
	Email        string    // Login identifier, unique across accounts.
	FirstName    string    // Given name captured at registration.
	LastName     string    // Family name captured at registration.
	PasswordHash string    // bcrypt hash of the password.
	CreatedAt    time.Time // Timestamp of when this account was created.
	UpdatedAt    time.Time // Timestamp of the last modification.
}
