// Package response writes the JSON envelope every endpoint answers with.
package response

import (
	"net/http"

	deliverycontext "spark/internal/delivery/context"
	domainerrors "spark/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// SuccessResponse wraps a payload.
type SuccessResponse struct {
	Data any       `json:"data"`
	Meta *MetaInfo `json:"meta"`
}

// ErrorResponse wraps a failure.
type ErrorResponse struct {
	Error *ErrorInfo `json:"error"`
	Meta  *MetaInfo  `json:"meta"`
}

// ErrorInfo is the client visible part of a failure. Code is stable and
// machine readable, e.g. "QUOTA_EXCEEDED".
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// MetaInfo correlates a response with the server logs.
type MetaInfo struct {
	RequestID string `json:"request_id"`
}

// DetailPayload stands in for an empty result.
type DetailPayload struct {
	Detail string `json:"detail"`
}

func meta(c echo.Context) *MetaInfo {
	return &MetaInfo{RequestID: deliverycontext.GetRequestID(c)}
}

func Success(c echo.Context, status int, data any) error {
	return c.JSON(status, SuccessResponse{Data: data, Meta: meta(c)})
}

// Detail answers 200 with a human readable note instead of data.
func Detail(c echo.Context, detail string) error {
	return Success(c, http.StatusOK, DetailPayload{Detail: detail})
}

// Error writes a failure. Details never leave the server for 401, 403 and
// 5xx responses.
func Error(c echo.Context, status int, code, message string, details any) error {
	switch {
	case status >= http.StatusInternalServerError, status == http.StatusUnauthorized, status == http.StatusForbidden:
		details = nil
	case details == "":
		details = nil
	}

	return c.JSON(status, ErrorResponse{
		Error: &ErrorInfo{Code: code, Message: message, Details: details},
		Meta:  meta(c),
	})
}

func Unauthorized(c echo.Context, code, message string) error {
	return Error(c, http.StatusUnauthorized, code, message, nil)
}

// HandleAppError renders domain failures directly. Anything else goes back
// to echo so the error handler can log it.
func HandleAppError(c echo.Context, err error) error {
	var appErr domainerrors.AppError
	if !errors.As(err, &appErr) {
		return errors.WithStack(err)
	}

	return Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
}
