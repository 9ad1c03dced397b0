package middleware

import (
	"log/slog"
	"net/http"

	deliverycontext "spark/internal/delivery/context"
	"spark/internal/delivery/http/response"
	domainerrors "spark/internal/domain/errors"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// ErrorMiddleware renders every error that reaches echo in the API envelope.
type ErrorMiddleware struct {
	logger *slog.Logger
}

func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{logger: logger}
}

type rendered struct {
	status  int
	code    string
	message string
	details string
}

// HandleHTTPError is installed as echo's HTTPErrorHandler. Server side
// failures are logged with the request scoped logger before rendering.
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	out := render(err)
	if out.status >= http.StatusInternalServerError {
		deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger).Error("request failed",
			slog.Any("error", err),
			slog.String("method", c.Request().Method),
			slog.String("path", c.Request().URL.Path),
		)
	}

	_ = response.Error(c, out.status, out.code, out.message, out.details)
}

func render(err error) rendered {
	var appErr domainerrors.AppError
	if errors.As(err, &appErr) {
		return rendered{appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details()}
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		msg, ok := httpErr.Message.(string)
		if !ok {
			msg = http.StatusText(httpErr.Code)
		}

		return rendered{status: httpErr.Code, code: "HTTP_ERROR", message: msg}
	}

	return rendered{
		status:  http.StatusInternalServerError,
		code:    domainerrors.ErrInternalError.ErrorCode(),
		message: "Internal server error, please try again later",
	}
}
