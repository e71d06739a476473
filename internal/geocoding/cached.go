package geocoding

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/geodist/pkg/haversine"
)

// Cache stores geocoding results keyed by address.
type Cache interface {
	Get(ctx context.Context, address string) (haversine.Point, bool, error)
	Set(ctx context.Context, address string, point haversine.Point) error
}

// CachedProvider answers from the cache when it can and stores fresh results.
// Cache failures are logged and never fail the lookup.
type CachedProvider struct {
	next  Provider
	cache Cache
	log   *slog.Logger
}

// NewCachedProvider wraps next with cache.
func NewCachedProvider(next Provider, cache Cache, log *slog.Logger) *CachedProvider {
	return &CachedProvider{next: next, cache: cache, log: log}
}

// Geocode returns the cached point for address or geocodes it with the wrapped provider.
func (cp *CachedProvider) Geocode(ctx context.Context, address string) (haversine.Point, error) {
	point, ok, err := cp.cache.Get(ctx, address)
	switch {
	case err != nil:
		cp.log.WarnContext(ctx, "Geocode cache lookup failed", "address", address, "error", err)
	case ok:
		cp.log.DebugContext(ctx, "Geocode cache hit", "address", address)
		return point, nil
	}

	point, err = cp.next.Geocode(ctx, address)
	if err != nil {
		return haversine.Point{}, err
	}

	if err = cp.cache.Set(ctx, address, point); err != nil {
		cp.log.WarnContext(ctx, "Failed to store geocode result", "address", address, "error", err)
	}

	return point, nil
}
