package geo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"loadboard/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultCacheTTL = 24 * time.Hour
	cacheKeyPrefix  = "distance:"
)

// CachedEstimator remembers successful estimates in Redis. Redis failures are
// logged and the inner estimator is asked instead; failed estimates are never cached.
type CachedEstimator struct {
	inner  ports.DistanceEstimator
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedEstimator(
	inner ports.DistanceEstimator,
	client redis.Cmdable,
	ttl time.Duration,
	logger *slog.Logger,
) *CachedEstimator {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedEstimator{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "distance_cache"),
	}
}

func (c *CachedEstimator) EstimateKm(ctx context.Context, origin, destination string) (float64, error) {
	key := cacheKey(origin, destination)

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if km, parseErr := strconv.ParseFloat(cached, 64); parseErr == nil {
			return km, nil
		}
		c.logger.WarnContext(ctx, "dropping unreadable cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		c.logger.WarnContext(ctx, "distance cache read failed", "key", key, "error", err)
	}

	km, err := c.inner.EstimateKm(ctx, origin, destination)
	if err != nil {
		return 0, err
	}

	value := strconv.FormatFloat(km, 'f', -1, 64)
	if err = c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "distance cache write failed", "key", key, "error", err)
	}

	return km, nil
}

func cacheKey(origin, destination string) string {
	return fmt.Sprintf("%s%s|%s", cacheKeyPrefix, normalize(origin), normalize(destination))
}

func normalize(place string) string {
	return strings.ToLower(strings.Join(strings.Fields(place), " "))
}
