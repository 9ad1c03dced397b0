package geocode

import (
	"context"
	"log/slog"

	"spark/config"
	"spark/internal/domain/lifecycle"
	"spark/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Params holds dependencies for the Geocoder, injected by Fx
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewGeocoder builds the Nominatim geocoder, wrapped in a Redis cache when redis.addr is set.
func NewGeocoder(params Params) service.Geocoder {
	cfg := params.Config.Geocoder
	logger := params.Logger.With(slog.String("component", "geocoder"))

	geocoder := NewNominatimGeocoder(cfg.BaseURL, cfg.UserAgent, cfg.Timeout, logger)

	redisCfg := params.Config.Redis
	if redisCfg == nil || redisCfg.Addr == "" {
		logger.Info("Redis not configured, geocode cache disabled")

		return geocoder
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	params.Lc.Append(fx.Hook{
		OnStart: func(startCtx context.Context) error {
			ctx, cancel := context.WithTimeout(startCtx, lifecycle.DefaultTimeout)
			defer cancel()

			if err := client.Ping(ctx).Err(); err != nil {
				return errors.Wrap(err, "failed to ping Redis")
			}
			logger.Info("Geocode cache enabled", slog.String("addr", redisCfg.Addr), slog.Duration("ttl", cfg.CacheTTL))

			return nil
		},
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return NewCachedGeocoder(geocoder, NewRedisCache(client), cfg.CacheTTL, logger)
}
