package geocoding_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/UnknownOlympus/geodist/internal/geocoding"
	"github.com/UnknownOlympus/geodist/pkg/haversine"
	"github.com/UnknownOlympus/geodist/test/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestCachedProvider_Geocode(t *testing.T) {
	ctx := t.Context()
	logger := slog.Default()
	kyiv := haversine.NewPoint(50.4501, 30.5234)

	t.Run("cache hit skips provider", func(t *testing.T) {
		next := mocks.NewProvider(t)
		cache := mocks.NewCache(t)
		cache.On("Get", ctx, "Kyiv").Return(kyiv, true, nil).Once()

		point, err := geocoding.NewCachedProvider(next, cache, logger).Geocode(ctx, "Kyiv")

		require.NoError(t, err)
		assert.Equal(t, kyiv, point)
	})

	t.Run("cache miss stores result", func(t *testing.T) {
		next := mocks.NewProvider(t)
		cache := mocks.NewCache(t)
		cache.On("Get", ctx, "Kyiv").Return(haversine.Point{}, false, nil).Once()
		next.On("Geocode", ctx, "Kyiv").Return(kyiv, nil).Once()
		cache.On("Set", ctx, "Kyiv", kyiv).Return(nil).Once()

		point, err := geocoding.NewCachedProvider(next, cache, logger).Geocode(ctx, "Kyiv")

		require.NoError(t, err)
		assert.Equal(t, kyiv, point)
	})

	t.Run("cache errors do not fail lookup", func(t *testing.T) {
		next := mocks.NewProvider(t)
		cache := mocks.NewCache(t)
		cache.On("Get", ctx, "Kyiv").Return(haversine.Point{}, false, assert.AnError).Once()
		next.On("Geocode", ctx, "Kyiv").Return(kyiv, nil).Once()
		cache.On("Set", ctx, "Kyiv", kyiv).Return(assert.AnError).Once()

		point, err := geocoding.NewCachedProvider(next, cache, logger).Geocode(ctx, "Kyiv")

		require.NoError(t, err)
		assert.Equal(t, kyiv, point)
	})

	t.Run("provider error is not cached", func(t *testing.T) {
		next := mocks.NewProvider(t)
		cache := mocks.NewCache(t)
		cache.On("Get", ctx, "Atlantis").Return(haversine.Point{}, false, nil).Once()
		next.On("Geocode", ctx, "Atlantis").Return(haversine.Point{}, assert.AnError).Once()

		_, err := geocoding.NewCachedProvider(next, cache, logger).Geocode(ctx, "Atlantis")

		require.ErrorIs(t, err, assert.AnError)
	})
}

func TestRateLimitedProvider_Geocode(t *testing.T) {
	kyiv := haversine.NewPoint(50.4501, 30.5234)

	t.Run("delegates when token available", func(t *testing.T) {
		ctx := t.Context()
		next := mocks.NewProvider(t)
		next.On("Geocode", ctx, "Kyiv").Return(kyiv, nil).Once()

		provider := geocoding.NewRateLimitedProvider(next, rate.NewLimiter(rate.Inf, 0))
		point, err := provider.Geocode(ctx, "Kyiv")

		require.NoError(t, err)
		assert.Equal(t, kyiv, point)
	})

	t.Run("context deadline while waiting", func(t *testing.T) {
		next := mocks.NewProvider(t)
		limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
		require.True(t, limiter.Allow()) // drain the only token

		ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
		defer cancel()

		_, err := geocoding.NewRateLimitedProvider(next, limiter).Geocode(ctx, "Kyiv")

		require.ErrorContains(t, err, "rate limit exceeded")
		next.AssertNotCalled(t, "Geocode")
	})
}
