package geocode

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"spark/internal/domain/entity"
	"spark/internal/domain/service"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "geocode:"

// Cache stores resolved coordinates by normalized place name.
type Cache interface {
	Get(ctx context.Context, key string) (coords entity.Coordinates, found bool, err error)
	Set(ctx context.Context, key string, coords entity.Coordinates, ttl time.Duration) error
}

// redisCache is the Redis implementation of Cache. Values are JSON encoded.
type redisCache struct {
	client *redis.Client
}

// NewRedisCache creates a Cache backed by client.
func NewRedisCache(client *redis.Client) Cache {
	return &redisCache{client: client}
}

func (c *redisCache) Get(ctx context.Context, key string) (entity.Coordinates, bool, error) {
	val, err := c.client.Get(ctx, cacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return entity.Coordinates{}, false, nil
	}
	if err != nil {
		return entity.Coordinates{}, false, errors.Wrapf(err, "redis get %s", key)
	}

	var coords entity.Coordinates
	if err := json.Unmarshal(val, &coords); err != nil {
		return entity.Coordinates{}, false, errors.Wrapf(err, "decode cached %s", key)
	}

	return coords, true, nil
}

func (c *redisCache) Set(ctx context.Context, key string, coords entity.Coordinates, ttl time.Duration) error {
	val, err := json.Marshal(coords)
	if err != nil {
		return errors.WithStack(err)
	}

	if err := c.client.Set(ctx, cacheKeyPrefix+key, val, ttl).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s", key)
	}

	return nil
}

// cachedGeocoder consults cache before next. Cache failures are logged and never fail a lookup.
type cachedGeocoder struct {
	next   service.Geocoder
	cache  Cache
	ttl    time.Duration
	logger *slog.Logger
}

// NewCachedGeocoder wraps next with cache. Only successful lookups are cached.
func NewCachedGeocoder(next service.Geocoder, cache Cache, ttl time.Duration, logger *slog.Logger) service.Geocoder {
	return &cachedGeocoder{next: next, cache: cache, ttl: ttl, logger: logger}
}

func (g *cachedGeocoder) Geocode(ctx context.Context, place string) (entity.Coordinates, error) {
	key := normalizePlace(place)

	coords, found, err := g.cache.Get(ctx, key)
	if err != nil {
		g.logger.WarnContext(ctx, "Geocode cache read failed", slog.String("place", key), slog.Any("error", err))
	} else if found {
		return coords, nil
	}

	coords, err = g.next.Geocode(ctx, place)
	if err != nil {
		return entity.Coordinates{}, err
	}

	if err := g.cache.Set(ctx, key, coords, g.ttl); err != nil {
		g.logger.WarnContext(ctx, "Geocode cache write failed", slog.String("place", key), slog.Any("error", err))
	}

	return coords, nil
}

// normalizePlace folds case and inner whitespace so equivalent queries share a key.
func normalizePlace(place string) string {
	return strings.ToLower(strings.Join(strings.Fields(place), " "))
}
