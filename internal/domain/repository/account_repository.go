// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"spark/internal/domain/entity"
	"spark/internal/errors"

	"github.com/google/uuid"
)

// Domain-specific errors for account persistence.
// This allows the application layer to handle specific outcomes without depending on database-specific errors.
var (
	// ErrAccountNotFound is returned when an account is not found.
	ErrAccountNotFound = errors.New("account not found")
	// ErrAccountConflict is returned when the email is already registered.
	ErrAccountConflict = errors.New("account already exists")
)

// AccountRepository defines the standard operations for account persistence.
type AccountRepository interface {
	// Create persists a new account. A taken email yields ErrAccountConflict.
	Create(ctx context.Context, account *entity.Account) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Account, error)

	// FindByEmail looks an account up by its normalized email.
	FindByEmail(ctx context.Context, email string) (*entity.Account, error)
}
