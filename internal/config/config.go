// Package config provides environment-driven configuration for the sample graph API.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Song source names.
const (
	SourceGenius  = "genius"
	SourceFixture = "fixture"
)

// Config holds all application configuration values.
type Config struct {
	GeniusKey       Secret
	GeniusBaseURL   string
	GeniusRateLimit float64
	SongSource      string
	FixturePath     string

	CacheBackend string
	DatabaseURL  Secret
	DBMaxConns   int32
	BadgerPath   string
	CacheExpiry  time.Duration

	Port        string
	ListenHost  string
	CORSOrigins []string
	RateLimit   int
	RateWindow  time.Duration

	MaxDegree    int
	GraphWorkers int

	LogLevel       string
	TracesExporter string
	OTLPEndpoint   string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		GeniusKey:      Secret(envOrDefault("GENIUS_KEY", "")),
		GeniusBaseURL:  envOrDefault("GENIUS_BASE_URL", "https://api.genius.com"),
		SongSource:     envOrDefault("SONG_SOURCE", SourceGenius),
		FixturePath:    envOrDefault("FIXTURE_PATH", ""),
		CacheBackend:   envOrDefault("CACHE_BACKEND", "postgres"),
		DatabaseURL:    Secret(envOrDefault("DATABASE_URL", "")),
		BadgerPath:     envOrEmpty("BADGER_PATH", "./data/cache"),
		Port:           envOrDefault("PORT", "8000"),
		ListenHost:     envOrDefault("LISTEN_HOST", "0.0.0.0"),
		LogLevel:       envOrDefault("LOG_LEVEL", "info"),
		TracesExporter: envOrDefault("OTEL_TRACES_EXPORTER", "none"),
		OTLPEndpoint:   envOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
	}

	geniusRate, err := strconv.ParseFloat(envOrDefault("GENIUS_RATE_LIMIT", "10"), 64)
	if err != nil || geniusRate <= 0 {
		return nil, fmt.Errorf("GENIUS_RATE_LIMIT must be a positive number")
	}
	cfg.GeniusRateLimit = geniusRate

	maxConns, err := strconv.ParseInt(envOrDefault("DB_MAX_CONNS", "10"), 10, 32)
	if err != nil || maxConns < 1 || maxConns > 100 {
		return nil, fmt.Errorf("DB_MAX_CONNS must be an integer between 1 and 100")
	}
	cfg.DBMaxConns = int32(maxConns)

	// REDIS_KEY_EXPIRY is the legacy name of CACHE_KEY_EXPIRY.
	expiry := envOrDefault("CACHE_KEY_EXPIRY", envOrDefault("REDIS_KEY_EXPIRY", "86400"))
	expirySecs, err := strconv.Atoi(expiry)
	if err != nil || expirySecs < 1 {
		return nil, fmt.Errorf("CACHE_KEY_EXPIRY must be a positive number of seconds")
	}
	cfg.CacheExpiry = time.Duration(expirySecs) * time.Second

	rateLimit, err := strconv.Atoi(envOrDefault("RATE_LIMIT", "20"))
	if err != nil || rateLimit < 1 {
		return nil, fmt.Errorf("RATE_LIMIT must be a positive integer")
	}
	cfg.RateLimit = rateLimit

	rateWindow, err := time.ParseDuration(envOrDefault("RATE_WINDOW", "60s"))
	if err != nil || rateWindow <= 0 {
		return nil, fmt.Errorf("RATE_WINDOW must be a positive duration such as 60s")
	}
	cfg.RateWindow = rateWindow

	maxDegree, err := strconv.Atoi(envOrDefault("MAX_DEGREE", "5"))
	if err != nil {
		return nil, fmt.Errorf("MAX_DEGREE must be an integer")
	}
	cfg.MaxDegree = maxDegree

	workers, err := strconv.Atoi(envOrDefault("GRAPH_WORKERS", "4"))
	if err != nil || workers < 1 || workers > 32 {
		return nil, fmt.Errorf("GRAPH_WORKERS must be an integer between 1 and 32")
	}
	cfg.GraphWorkers = workers

	origins := envOrDefault("CORS_ORIGINS", "*")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

// AllowAllOrigins reports whether CORS_ORIGINS is the wildcard.
func (c *Config) AllowAllOrigins() bool {
	return len(c.CORSOrigins) == 1 && c.CORSOrigins[0] == "*"
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

// envOrEmpty is envOrDefault, except that a variable set to the empty string
// is kept rather than replaced by the fallback.
func envOrEmpty(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return fallback
}
