// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"spark/internal/domain/entity"
)

// --- Input DTOs ---

// RegisterInput defines the data required to open an account.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Gender    entity.Gender
}

// LoginInput defines the data required for an account to log in.
type LoginInput struct {
	Email    string
	Password string
}

// --- Output DTOs ---

// RegisterOutput returns the newly created account with its profile.
type RegisterOutput struct {
	Account *entity.Account
	Profile *entity.Profile
}

// TokenOutput returns the generated token pair.
type TokenOutput struct {
	AccessToken  string
	RefreshToken string
}

// AccountUsecase defines the interface for account and session operations.
type AccountUsecase interface {
	// Register creates the account, its profile and an empty location in one transaction.
	Register(ctx context.Context, input *RegisterInput) (*RegisterOutput, error)
	Login(ctx context.Context, input *LoginInput) (*TokenOutput, error)
	// Refresh rotates a refresh token: the presented session ends and a new pair is issued.
	Refresh(ctx context.Context, refreshToken string) (*TokenOutput, error)
	Logout(ctx context.Context, refreshToken string) error
	// PurgeExpiredSessions removes expired refresh tokens and reports how many were removed.
	PurgeExpiredSessions(ctx context.Context) (int64, error)
}
