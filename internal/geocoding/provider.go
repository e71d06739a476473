package geocoding

import (
	"context"

	"github.com/UnknownOlympus/geodist/pkg/haversine"
)

// Provider resolves a free-form address to a point on Earth.
type Provider interface {
	Geocode(ctx context.Context, address string) (haversine.Point, error)
}
