package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix = "cache:"
	// DefaultCacheTTL is 6-12 hours (we'll use 8 hours as default)
	DefaultCacheTTL = 8 * time.Hour
	// MinCacheTTL is 6 hours
	MinCacheTTL = 6 * time.Hour
	// MaxCacheTTL is 12 hours
	MaxCacheTTL = 12 * time.Hour
)

// Cache stores JSON-encoded values with an expiry. A miss is (false, nil).
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	val, err := c.client.Get(ctx, CacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores value for ttl clamped to 6-12 hours.
func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, CacheKeyPrefix+key, jsonData, ClampCacheTTL(ttl)).Err()
}

func ClampCacheTTL(ttl time.Duration) time.Duration {
	if ttl < MinCacheTTL {
		return MinCacheTTL
	}
	if ttl > MaxCacheTTL {
		return MaxCacheTTL
	}
	return ttl
}

// CacheKey generates a cache key for a specific resource
func CacheKey(resource string, identifier string) string {
	return fmt.Sprintf("%s:%s", resource, identifier)
}

// CachedGeocoder remembers successful lookups so editing a campground without
// changing its location does not hit the provider again. Failures are never
// cached, and a cache outage falls through to the provider.
type CachedGeocoder struct {
	next   Geocoder
	cache  Cache
	ttl    time.Duration
	logger zerolog.Logger
}

func NewCachedGeocoder(next Geocoder, cache Cache, logger zerolog.Logger) *CachedGeocoder {
	return &CachedGeocoder{
		next:   next,
		cache:  cache,
		ttl:    DefaultCacheTTL,
		logger: logger.With().Str("service", "geocode_cache").Logger(),
	}
}

func (g *CachedGeocoder) Geocode(ctx context.Context, address string) (*GeocodeResult, error) {
	key := CacheKey("geocode", strings.ToLower(strings.Join(strings.Fields(address), " ")))

	var cached GeocodeResult
	hit, err := g.cache.Get(ctx, key, &cached)
	if err != nil {
		g.logger.Warn().Err(err).Msg("geocode cache read failed")
	}
	if hit {
		return &cached, nil
	}

	res, err := g.next.Geocode(ctx, address)
	if err != nil {
		return nil, err
	}
	if err := g.cache.Set(ctx, key, res, g.ttl); err != nil {
		g.logger.Warn().Err(err).Msg("geocode cache write failed")
	}
	return res, nil
}
