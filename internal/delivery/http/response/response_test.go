package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	domainerrors "spark/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	rec := httptest.NewRecorder()
	rec.Header().Set("X-Request-Id", "req-7")

	return echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec), rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestHandleAppErrorKeepsClientDetails(t *testing.T) {
	t.Parallel()

	c, rec := newContext()
	require.NoError(t, HandleAppError(c, domainerrors.ErrLocationTooSoon.WithDetails("next update available in 1h0m")))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "LOCATION_TOO_SOON", body.Error.Code)
	assert.Equal(t, "next update available in 1h0m", body.Error.Details)
	assert.Equal(t, "req-7", body.Meta.RequestID)
}

func TestHandleAppErrorHidesForbiddenDetails(t *testing.T) {
	t.Parallel()

	c, rec := newContext()
	require.NoError(t, HandleAppError(c, domainerrors.ErrNotMatched.WithDetails("profile 42")))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Nil(t, decodeError(t, rec).Error.Details)
}

func TestHandleAppErrorPassesUnknownErrors(t *testing.T) {
	t.Parallel()

	c, rec := newContext()
	cause := errors.New("disk on fire")

	assert.ErrorIs(t, HandleAppError(c, cause), cause)
	assert.Zero(t, rec.Body.Len())
}

func TestDetail(t *testing.T) {
	t.Parallel()

	c, rec := newContext()
	require.NoError(t, Detail(c, "no matches yet"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"detail":"no matches yet"},"meta":{"request_id":"req-7"}}`, rec.Body.String())
}
