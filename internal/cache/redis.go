// Package cache keeps geocoding results in Redis so repeated addresses do not
// hit the external provider again.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/geodist/pkg/haversine"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "geodist:geocode:"

// ErrMalformedEntry is returned when a cached value cannot be decoded.
var ErrMalformedEntry = errors.New("malformed geocode cache entry")

// RedisCache stores points as "lat,lon" strings with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache returns a cache backed by client. A zero ttl keeps entries forever.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached point for address. The boolean is false on a miss.
func (c *RedisCache) Get(ctx context.Context, address string) (haversine.Point, bool, error) {
	val, err := c.client.Get(ctx, key(address)).Result()
	if errors.Is(err, redis.Nil) {
		return haversine.Point{}, false, nil
	}
	if err != nil {
		return haversine.Point{}, false, fmt.Errorf("failed to read geocode cache: %w", err)
	}

	point, err := decode(val)
	if err != nil {
		return haversine.Point{}, false, err
	}

	return point, true, nil
}

// Set stores point for address.
func (c *RedisCache) Set(ctx context.Context, address string, point haversine.Point) error {
	if err := c.client.Set(ctx, key(address), encode(point), c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write geocode cache: %w", err)
	}

	return nil
}

// Ping checks the Redis connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func key(address string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(address))
}

func encode(p haversine.Point) string {
	return strconv.FormatFloat(p.Latitude, 'g', -1, 64) + "," + strconv.FormatFloat(p.Longitude, 'g', -1, 64)
}

func decode(val string) (haversine.Point, error) {
	latStr, lonStr, ok := strings.Cut(val, ",")
	if !ok {
		return haversine.Point{}, fmt.Errorf("%w: %q", ErrMalformedEntry, val)
	}

	lat, errLat := strconv.ParseFloat(latStr, 64)
	lon, errLon := strconv.ParseFloat(lonStr, 64)
	if errLat != nil || errLon != nil {
		return haversine.Point{}, fmt.Errorf("%w: %q", ErrMalformedEntry, val)
	}

	return haversine.NewPoint(lat, lon), nil
}
