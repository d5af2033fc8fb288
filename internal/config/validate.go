package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// maxDegreeLimit caps MAX_DEGREE; graph size grows exponentially with degree.
const maxDegreeLimit = 10

func (c *Config) validate() error {
	if err := c.validateSource(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateNetwork(); err != nil {
		return err
	}

	if err := c.validateCORS(); err != nil {
		return err
	}

	if err := c.validateGraph(); err != nil {
		return err
	}

	return c.validateObservability()
}

func (c *Config) validateSource() error {
	switch c.SongSource {
	case SourceGenius:
		if c.GeniusKey.Value() == "" {
			return fmt.Errorf("GENIUS_KEY is required when SONG_SOURCE is genius")
		}

		u, err := url.ParseRequestURI(c.GeniusBaseURL)
		if err != nil {
			return fmt.Errorf("GENIUS_BASE_URL is not a valid URL: %w", err)
		}

		if u.Scheme != "https" && !isLocalhost(c.GeniusBaseURL) {
			return fmt.Errorf("GENIUS_BASE_URL must use HTTPS for non-localhost hosts")
		}
	case SourceFixture:
		if c.FixturePath == "" {
			return fmt.Errorf("FIXTURE_PATH is required when SONG_SOURCE is fixture")
		}
	default:
		return fmt.Errorf("SONG_SOURCE must be 'genius' or 'fixture', got %q", c.SongSource)
	}

	return nil
}

func (c *Config) validateCache() error {
	switch c.CacheBackend {
	case "postgres":
		return c.validateDatabase()
	case "badger", "memory":
		return nil
	default:
		return fmt.Errorf("CACHE_BACKEND must be 'postgres', 'badger' or 'memory', got %q", c.CacheBackend)
	}
}

func (c *Config) validateDatabase() error {
	if c.DatabaseURL.Value() == "" {
		return fmt.Errorf("DATABASE_URL is required when CACHE_BACKEND is postgres")
	}

	dbURL, err := url.Parse(c.DatabaseURL.Value())
	if err != nil {
		return fmt.Errorf("DATABASE_URL is not a valid URL: %w", err)
	}

	if dbURL.Scheme != "postgres" && dbURL.Scheme != "postgresql" {
		return fmt.Errorf("DATABASE_URL scheme must be postgres:// or postgresql://")
	}

	if dbURL.Hostname() == "" {
		return fmt.Errorf("DATABASE_URL must include a host")
	}

	dbHost := dbURL.Hostname()
	if dbHost != "localhost" && dbHost != "127.0.0.1" && dbHost != "::1" {
		sslmode := dbURL.Query().Get("sslmode")
		if sslmode == "disable" {
			return fmt.Errorf("DATABASE_URL sslmode=disable is not allowed for non-local host %q", dbHost)
		}
	}

	return nil
}

func (c *Config) validateNetwork() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid integer: %w", err)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	if strings.TrimSpace(c.ListenHost) == "" {
		return fmt.Errorf("LISTEN_HOST must not be empty")
	}

	return nil
}

func (c *Config) validateCORS() error {
	if c.AllowAllOrigins() {
		return nil
	}

	for _, origin := range c.CORSOrigins {
		if strings.ContainsAny(origin, "*?[]") {
			return fmt.Errorf("CORS_ORIGINS wildcard '*' must be the only origin, got %q", origin)
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("CORS_ORIGINS contains invalid origin %q (must have scheme and host)", origin)
		}
	}

	return nil
}

func (c *Config) validateGraph() error {
	if c.MaxDegree < 0 || c.MaxDegree > maxDegreeLimit {
		return fmt.Errorf("MAX_DEGREE must be between 0 and %d", maxDegreeLimit)
	}

	return nil
}

func (c *Config) validateObservability() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}

	switch c.TracesExporter {
	case "none", "stdout", "otlp":
	default:
		return fmt.Errorf("OTEL_TRACES_EXPORTER must be 'none', 'stdout' or 'otlp', got %q", c.TracesExporter)
	}

	return nil
}

// isLocalhost returns true if the given address points to a loopback address.
func isLocalhost(addr string) bool {
	u, err := url.Parse(addr)
	if err != nil {
		return false
	}
	host := u.Hostname()
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
