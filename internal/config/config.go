package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/geodist/pkg/haversine"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrUnknownUnit is returned by ParseUnit for unsupported unit names.
var ErrUnknownUnit = errors.New("unknown distance unit")

// Config holds the configuration settings for the distance service.
//
// Fields:
// - Env: The current environment (e.g., local, development, production).
// - Port: The port for the monitoring server.
// - ProviderType: The type of geocoding provider to use (google, nominatim).
// - APIKey: The API key for accessing external services (required for Google).
// - Workers: The number of concurrent workers for processing requests.
// - Interval: The duration between processing intervals.
// - RateLimit: The total number of provider requests per second shared by all workers.
// - Distance: Origin point and unit the distances are measured in.
// - Cache: Redis geocoding cache settings.
// - Database: Configuration settings for the PostgreSQL database.
type Config struct {
	Env          string         `yaml:"env"`
	Port         int            `yaml:"geodist.port"`
	ProviderType string         `yaml:"provider.type"`
	APIKey       string         `yaml:"provider.api_key"`
	Workers      int            `yaml:"geodist.workers"`
	Interval     time.Duration  `yaml:"geodist.interval"`
	RateLimit    int            `yaml:"provider.rate_limit"`
	AddrPrefix   string         `yaml:"addr_prefix"`
	Distance     DistanceConfig `yaml:"distance"`
	Cache        CacheConfig    `yaml:"cache"`
	Database     PostgresConfig `yaml:"postgres"`
}

// DistanceConfig describes where distances are measured from and in which unit.
type DistanceConfig struct {
	Origin haversine.Point `yaml:"origin"`
	Unit   haversine.Unit  `yaml:"unit"`
	// MaxDistance rejects geocoding results further than this from the origin. Zero disables the check.
	MaxDistance float64 `yaml:"max_distance"`
}

// CacheConfig holds the Redis geocoding cache settings. An empty Addr disables the cache.
type CacheConfig struct {
	Addr string        `yaml:"addr"`
	TTL  time.Duration `yaml:"ttl"`
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"     env-default:"5432"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"db_name"`
}

// MustLoad reads .env, an optional configuration file named by GEODIST_CONFIG_FILE,
// and the process environment, in increasing order of precedence. It panics on
// malformed values.
func MustLoad() *Config {
	_ = godotenv.Load()

	v := newViper()

	if path := v.GetString("GEODIST_CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			panic("failed to read configuration file")
		}
	}

	interval, err := time.ParseDuration(v.GetString("GEODIST_INTERVAL"))
	if err != nil {
		panic("failed to parse interval from configuration")
	}

	healthPort, err := strconv.Atoi(v.GetString("GEODIST_HEALTH_PORT"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	workers, err := strconv.Atoi(v.GetString("GEODIST_WORKERS"))
	if err != nil || workers < 1 {
		panic("failed to parse workers from configuration, must be a positive integer")
	}

	rateLimit, err := strconv.Atoi(v.GetString("GEODIST_RATE_LIMIT"))
	if err != nil {
		panic("failed to parse rate limit from configuration")
	}

	unit, err := ParseUnit(v.GetString("GEODIST_UNIT"))
	if err != nil {
		panic("failed to parse distance unit from configuration")
	}

	originLat, errLat := strconv.ParseFloat(v.GetString("GEODIST_ORIGIN_LAT"), 64)
	originLon, errLon := strconv.ParseFloat(v.GetString("GEODIST_ORIGIN_LON"), 64)
	if errLat != nil || errLon != nil {
		panic("failed to parse origin coordinates from configuration")
	}

	maxDistance, err := strconv.ParseFloat(v.GetString("GEODIST_MAX_DISTANCE"), 64)
	if err != nil || math.IsNaN(maxDistance) || math.IsInf(maxDistance, 0) || maxDistance < 0 {
		panic("failed to parse max distance from configuration")
	}

	cacheTTL, err := time.ParseDuration(v.GetString("GEODIST_CACHE_TTL"))
	if err != nil {
		panic("failed to parse cache TTL from configuration")
	}

	return &Config{
		Env:          v.GetString("GEODIST_ENV"),
		AddrPrefix:   v.GetString("GEODIST_ADDRESS_PREFIX"),
		Port:         healthPort,
		ProviderType: v.GetString("GEODIST_PROVIDER_TYPE"),
		APIKey:       v.GetString("GEODIST_PROVIDER_KEY"),
		Workers:      workers,
		Interval:     interval,
		RateLimit:    rateLimit,
		Distance: DistanceConfig{
			Origin:      haversine.NewPoint(originLat, originLon),
			Unit:        unit,
			MaxDistance: maxDistance,
		},
		Cache: CacheConfig{
			Addr: v.GetString("REDIS_ADDR"),
			TTL:  cacheTTL,
		},
		Database: PostgresConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USERNAME"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
		},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("GEODIST_ENV", "production")
	v.SetDefault("GEODIST_HEALTH_PORT", "8080")
	v.SetDefault("GEODIST_PROVIDER_TYPE", "google")
	v.SetDefault("GEODIST_WORKERS", "10")
	v.SetDefault("GEODIST_INTERVAL", "10m")
	v.SetDefault("GEODIST_RATE_LIMIT", "50")
	v.SetDefault("GEODIST_UNIT", "km")
	v.SetDefault("GEODIST_ORIGIN_LAT", "0")
	v.SetDefault("GEODIST_ORIGIN_LON", "0")
	v.SetDefault("GEODIST_MAX_DISTANCE", "0")
	v.SetDefault("GEODIST_CACHE_TTL", "720h")
	v.SetDefault("DB_PORT", "5432")

	return v
}

// ParseUnit maps a configuration value to a distance unit.
func ParseUnit(s string) (haversine.Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "km", "kilometer", "kilometers", "kilometre", "kilometres":
		return haversine.Kilometers, nil
	case "mi", "mile", "miles":
		return haversine.Miles, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, s)
	}
}
