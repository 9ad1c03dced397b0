// Package errors defines the failures use cases report to clients. Each
// carries an HTTP status and a stable machine readable code.
package errors

import (
	"net/http"

	"spark/internal/errors"
)

// AppError is an error that knows how it is presented over HTTP.
type AppError interface {
	error
	HTTPCode() int
	ErrorCode() string
	Message() string
	Details() string
}

// BaseError is a predefined failure. Copies made by WithDetails still match
// the original under errors.Is because comparison is by code.
type BaseError struct {
	status  int
	code    string
	message string
	details string
}

func define(status int, code, message string) *BaseError {
	return &BaseError{status: status, code: code, message: message}
}

func (e *BaseError) Error() string {
	if e.details == "" {
		return e.message
	}

	return e.message + ": " + e.details
}

func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)

	return ok && t.code == e.code
}

func (e *BaseError) HTTPCode() int     { return e.status }
func (e *BaseError) ErrorCode() string { return e.code }
func (e *BaseError) Message() string   { return e.message }
func (e *BaseError) Details() string   { return e.details }

// WithDetails returns a copy of e explaining this particular occurrence.
func (e *BaseError) WithDetails(details string) *BaseError {
	clone := *e
	clone.details = details

	return &clone
}

// Swipes.
var (
	ErrQuotaExceeded = define(http.StatusTooManyRequests, "QUOTA_EXCEEDED", "swipes limit is exceeded for today")
	ErrAlreadySwiped = define(http.StatusConflict, "ALREADY_SWIPED", "user have already swiped this profile")
	ErrInvalidTarget = define(http.StatusBadRequest, "INVALID_TARGET", "please, specify an existing profile to swipe")
)

// Request validation.
var (
	ErrMissingField     = define(http.StatusBadRequest, "MISSING_FIELD", "required field is missing")
	ErrValidationFailed = define(http.StatusBadRequest, "VALIDATION_FAILED", "input validation failed")
)

// Visibility and ownership.
var (
	ErrNotParticipant = define(http.StatusForbidden, "NOT_PARTICIPANT", "user can't chat in a conversation he is not in")
	ErrNotSelf        = define(http.StatusForbidden, "NOT_SELF", "user can update only its own records")
	ErrNotMatched     = define(http.StatusForbidden, "NOT_MATCHED", "user can't get info about unmatched profile")
)

// Locations.
var (
	ErrLocationTooSoon  = define(http.StatusTooManyRequests, "LOCATION_TOO_SOON", "location update is not available yet")
	ErrLocationRequired = define(http.StatusConflict, "LOCATION_REQUIRED", "please, set your location first")
	ErrLocationNotFound = define(http.StatusNotFound, "LOCATION_NOT_FOUND", "location not found")
	ErrGeocodeFailure   = define(http.StatusUnprocessableEntity, "GEOCODE_FAILURE", "try another location")
)

// Accounts and profiles.
var (
	ErrProfileNotFound      = define(http.StatusNotFound, "PROFILE_NOT_FOUND", "profile not found")
	ErrAccountAlreadyExists = define(http.StatusConflict, "ACCOUNT_ALREADY_EXISTS", "this email is already registered")
	ErrInvalidCredentials   = define(http.StatusUnauthorized, "INVALID_CREDENTIALS", "email or password is incorrect")
	ErrRefreshTokenInvalid  = define(http.StatusUnauthorized, "REFRESH_TOKEN_INVALID", "refresh token is invalid or expired")
)

// Chats and images.
var (
	ErrChatNotFound  = define(http.StatusNotFound, "CHAT_NOT_FOUND", "chat not found")
	ErrImageNotFound = define(http.StatusNotFound, "IMAGE_NOT_FOUND", "image not found")
	ErrImageTooLarge = define(http.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE", "image exceeds the allowed size")
)

// ErrInternalError hides unexpected failures from clients.
var ErrInternalError = define(http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")

// StorageError wraps a driver failure the repositories could not classify.
// The operation is kept for logs; clients only see a generic 500.
type StorageError struct {
	err error
	op  string
}

// NewStorageError records that op failed with err.
func NewStorageError(err error, op string) AppError {
	return &StorageError{err: errors.WithStack(err), op: op}
}

func (e *StorageError) Error() string     { return e.op + ": " + e.err.Error() }
func (e *StorageError) Unwrap() error     { return e.err }
func (e *StorageError) HTTPCode() int     { return http.StatusInternalServerError }
func (e *StorageError) ErrorCode() string { return "STORAGE_FAILURE" }
func (e *StorageError) Message() string   { return "storage operation failed" }
func (e *StorageError) Details() string   { return e.op }
