package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AnshRaj112/campsite/internal/services"
	"github.com/AnshRaj112/campsite/internal/services/servicestest"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedGeocoder(t *testing.T) {
	ctx := context.Background()
	inner := servicestest.NewGeocoder()
	cache := servicestest.NewCache()
	g := services.NewCachedGeocoder(inner, cache, zerolog.Nop())

	first, err := g.Geocode(ctx, "Boulder, CO")
	require.NoError(t, err)
	assert.Equal(t, "Boulder, CO, USA", first.FormattedAddress)

	// Case and spacing do not matter for the key
	second, err := g.Geocode(ctx, "  boulder,   co ")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.Calls)
	assert.Equal(t, 1, cache.Hits)
}

func TestCachedGeocoder_FailuresNotCached(t *testing.T) {
	ctx := context.Background()
	inner := servicestest.NewGeocoder()
	g := services.NewCachedGeocoder(inner, servicestest.NewCache(), zerolog.Nop())

	_, err := g.Geocode(ctx, "Atlantis")
	assert.ErrorIs(t, err, services.ErrInvalidAddress)
	_, err = g.Geocode(ctx, "Atlantis")
	assert.ErrorIs(t, err, services.ErrInvalidAddress)
	assert.Equal(t, 2, inner.Calls)
}

func TestCachedGeocoder_CacheDown(t *testing.T) {
	inner := servicestest.NewGeocoder()
	cache := servicestest.NewCache()
	cache.Err = errors.New("redis unavailable")
	g := services.NewCachedGeocoder(inner, cache, zerolog.Nop())

	res, err := g.Geocode(context.Background(), "Moab, UT")
	require.NoError(t, err)
	assert.Equal(t, "Moab, UT 84532, USA", res.FormattedAddress)
}

func TestClampCacheTTL(t *testing.T) {
	assert.Equal(t, services.MinCacheTTL, services.ClampCacheTTL(time.Minute))
	assert.Equal(t, services.MaxCacheTTL, services.ClampCacheTTL(48*time.Hour))
	assert.Equal(t, 7*time.Hour, services.ClampCacheTTL(7*time.Hour))
	assert.Equal(t, "geocode:moab", services.CacheKey("geocode", "moab"))
}
