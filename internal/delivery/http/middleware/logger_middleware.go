package middleware

import (
	"log/slog"

	"spark/config"
	deliverycontext "spark/internal/delivery/context"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

// NewLoggerMiddleware writes one access line per request through the request
// scoped logger. Errors are rendered first so the logged status is final.
// 2xx and 3xx lines are only written in debug mode.
func NewLoggerMiddleware(logger *slog.Logger, cfg *config.Config) echo.MiddlewareFunc {
	debug := cfg.Env.Debug

	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		HandleError:  true,
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			level, ok := accessLevel(v.Status, debug)
			if !ok {
				return nil
			}

			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("path", v.URIPath),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
				slog.String("user_agent", v.UserAgent),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.Any("error", v.Error))
			}

			ctx := c.Request().Context()
			deliverycontext.GetLoggerOrDefault(ctx, logger).LogAttrs(ctx, level, "http request", attrs...)

			return nil
		},
	})
}

func accessLevel(status int, debug bool) (slog.Level, bool) {
	switch {
	case status >= 500:
		return slog.LevelError, true
	case status >= 400:
		return slog.LevelWarn, true
	default:
		return slog.LevelInfo, debug
	}
}
