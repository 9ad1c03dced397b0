package errors

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestWithDetailsKeepsIdentity(t *testing.T) {
	t.Parallel()

	err := ErrLocationTooSoon.WithDetails("next update available in 5m0s")

	assert.ErrorIs(t, err, ErrLocationTooSoon)
	assert.NotErrorIs(t, err, ErrQuotaExceeded)
	assert.Empty(t, ErrLocationTooSoon.Details())
	assert.Equal(t, "location update is not available yet: next update available in 5m0s", err.Error())
	assert.Equal(t, http.StatusTooManyRequests, err.HTTPCode())
}

func TestAppErrorSurvivesWrapping(t *testing.T) {
	t.Parallel()

	wrapped := errors.Wrap(ErrNotMatched, "load profile")

	var appErr AppError
	assert.True(t, errors.As(wrapped, &appErr))
	assert.Equal(t, "NOT_MATCHED", appErr.ErrorCode())
}

func TestStorageError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := NewStorageError(cause, "create swipe")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode())
	assert.Equal(t, "create swipe", err.Details())
	assert.Contains(t, err.Error(), "connection reset")
}
