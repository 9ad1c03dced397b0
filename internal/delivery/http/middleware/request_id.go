package middleware

import (
	"log/slog"

	deliverycontext "spark/internal/delivery/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// NewRequestIDMiddleware echoes a client supplied X-Request-Id, or mints a
// UUID, and attaches it plus a logger tagged with it to the request context.
func NewRequestIDMiddleware(logger *slog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		TargetHeader: deliverycontext.HeaderXRequestID,
		Generator:    uuid.NewString,
		RequestIDHandler: func(c echo.Context, requestID string) {
			deliverycontext.SetRequestID(c, requestID)

			ctx := deliverycontext.WithRequestID(c.Request().Context(), requestID)
			ctx = deliverycontext.WithLogger(ctx, logger.With(slog.String("request_id", requestID)))
			c.SetRequest(c.Request().WithContext(ctx))
		},
	})
}
