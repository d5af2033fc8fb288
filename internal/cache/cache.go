// Package cache provides key-value cache backends with time-based expiry.
//
// Every backend satisfies domain.Cache. A key with no expiry lives until it is
// overwritten; Expire with a non-positive duration removes the key, and Expire
// on an absent key is a no-op.
package cache

import (
	"context"
	"errors"
	"io"

	"github.com/sample-graph/sample-graph-api/internal/domain"
)

// ErrKeyNotFound is returned by Get when the key is absent or expired.
var ErrKeyNotFound = errors.New("cache key not found")

// Backend is a cache that can be health-checked and closed.
type Backend interface {
	domain.Cache
	domain.HealthChecker
	io.Closer
}

// Compile-time checks.
var (
	_ Backend = (*Memory)(nil)
	_ Backend = (*Badger)(nil)
	_ Backend = (*Postgres)(nil)
)

// Backend names accepted by configuration.
const (
	BackendPostgres = "postgres"
	BackendBadger   = "badger"
	BackendMemory   = "memory"
)

// checkContext returns the context error, if any, before touching a backend.
func checkContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}
