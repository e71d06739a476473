package geocoding

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/geodist/pkg/haversine"
	"golang.org/x/time/rate"
)

// RateLimitedProvider throttles calls to the wrapped provider. The limiter is
// shared by every worker using the provider.
type RateLimitedProvider struct {
	next    Provider
	limiter *rate.Limiter
}

// NewRateLimitedProvider wraps next with limiter.
func NewRateLimitedProvider(next Provider, limiter *rate.Limiter) *RateLimitedProvider {
	return &RateLimitedProvider{next: next, limiter: limiter}
}

// Geocode waits for a limiter token and delegates to the wrapped provider.
func (rp *RateLimitedProvider) Geocode(ctx context.Context, address string) (haversine.Point, error) {
	if err := rp.limiter.Wait(ctx); err != nil {
		return haversine.Point{}, fmt.Errorf("rate limit exceeded: %w", err)
	}

	return rp.next.Geocode(ctx, address)
}
