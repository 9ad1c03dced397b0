// Package http serves the public JSON API.
package http

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"spark/config"
	"spark/internal/delivery"
	"spark/internal/delivery/http/middleware"
	"spark/internal/delivery/http/router"
	"spark/internal/delivery/http/validator"
	"spark/internal/domain/lifecycle"
	"spark/internal/errors"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"golang.org/x/net/http2"
)

// Uploads are exempt from the global body limit; the route sets its own.
const imageUploadPath = "/api/v1/images"

type httpServer struct {
	addr   string
	h2     *http2.Server
	logger *slog.Logger
	echo   *echo.Echo
}

// ServerParams holds dependencies for HTTP server, injected by Fx.
type ServerParams struct {
	fx.In

	Lc           fx.Lifecycle
	Cfg          *config.Config
	Logger       *slog.Logger
	RouterParams router.RouterParams
}

func NewServer(params ServerParams) (delivery.Delivery, error) {
	srv := &httpServer{
		addr:   net.JoinHostPort("0.0.0.0", strconv.Itoa(params.Cfg.HTTP.Port)),
		h2:     &http2.Server{IdleTimeout: params.Cfg.HTTP.Timeouts.IdleTimeout},
		logger: params.Logger.With(slog.String("component", "http")),
		echo:   NewEcho(params.Cfg, params.Logger, params.RouterParams),
	}
	params.Lc.Append(fx.StopHook(srv.stop))

	return srv, nil
}

// NewEcho assembles middleware, error rendering, validation and routes.
func NewEcho(cfg *config.Config, logger *slog.Logger, routerParams router.RouterParams) *echo.Echo {
	e := echo.New()
	e.HideBanner, e.HidePort = true, true

	timeouts := cfg.HTTP.Timeouts
	e.Server.ReadTimeout = timeouts.ReadTimeout
	e.Server.ReadHeaderTimeout = timeouts.ReadHeaderTimeout
	e.Server.WriteTimeout = timeouts.WriteTimeout
	e.Server.IdleTimeout = timeouts.IdleTimeout

	// The request id must exist before the access logger runs.
	e.Use(
		echomiddleware.Recover(),
		middleware.NewRequestIDMiddleware(logger),
		middleware.NewLoggerMiddleware(logger, cfg),
		echomiddleware.CORS(),
		echomiddleware.BodyLimitWithConfig(echomiddleware.BodyLimitConfig{
			Limit: cfg.HTTP.MaxRequestBodySize,
			Skipper: func(c echo.Context) bool {
				return c.Request().Method == http.MethodPost && c.Path() == imageUploadPath
			},
		}),
	)
	e.HTTPErrorHandler = middleware.NewErrorMiddleware(logger).HandleHTTPError
	e.Validator = validator.New()

	router.NewRouter(routerParams).RegisterRoutes(e)

	return e
}

// Serve blocks until the server is shut down. Cleartext HTTP/2 is accepted
// alongside HTTP/1.1.
func (s *httpServer) Serve(_ context.Context) error {
	s.logger.Info("listening", slog.String("addr", s.addr))

	err := s.echo.StartH2CServer(s.addr, s.h2)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}

	return errors.WithStack(err)
}

func (s *httpServer) stop(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, lifecycle.DefaultTimeout)
	defer cancel()

	s.logger.Info("shutting down")

	return errors.WithStack(s.echo.Shutdown(ctx))
}
