package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/sample-graph/sample-graph-api/internal/dbpool"
)

const (
	defaultQueryTimeout = 10 * time.Second
	defaultSweepEvery   = 5 * time.Minute
)

// livePredicate selects rows that have not expired.
const livePredicate = `(expires_at IS NULL OR expires_at > now())`

// Postgres is a cache stored in the cache_entries table.
type Postgres struct {
	pool *dbpool.Pool
	log  *logrus.Logger
}

// NewPostgres creates a Postgres cache. A background sweeper deletes expired
// rows every sweepEvery (0 means the default) until ctx is cancelled.
func NewPostgres(ctx context.Context, pool *dbpool.Pool, log *logrus.Logger, sweepEvery time.Duration) *Postgres {
	if sweepEvery <= 0 {
		sweepEvery = defaultSweepEvery
	}

	p := &Postgres{pool: pool, log: log}
	go p.sweepLoop(ctx, sweepEvery)

	return p
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

func (p *Postgres) sweepLoop(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.Sweep(ctx)
			if err != nil {
				p.log.WithError(err).Warn("sweeping expired cache entries")
				continue
			}
			if n > 0 {
				p.log.WithField("deleted", n).Debug("swept expired cache entries")
			}
		}
	}
}

// Sweep deletes expired rows and returns how many were removed.
func (p *Postgres) Sweep(ctx context.Context) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := p.pool.Exec(ctx, `DELETE FROM cache_entries WHERE expires_at IS NOT NULL AND expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("deleting expired entries: %w", err)
	}

	return tag.RowsAffected(), nil
}

// Exists reports whether a live row is stored under key.
func (p *Postgres) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var exists bool
	err := p.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM cache_entries WHERE key = $1 AND `+livePredicate+`)`, key,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking key: %w", err)
	}

	return exists, nil
}

// Get returns the value stored under key.
func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var value []byte
	err := p.pool.QueryRow(ctx,
		`SELECT value FROM cache_entries WHERE key = $1 AND `+livePredicate, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", key, ErrKeyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("reading key: %w", err)
	}

	return value, nil
}

// Set upserts value under key and clears any expiry.
func (p *Postgres) Set(ctx context.Context, key string, value []byte) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := p.pool.Exec(ctx,
		`INSERT INTO cache_entries (key, value, expires_at) VALUES ($1, $2, NULL)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, expires_at = NULL`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing key: %w", err)
	}

	return nil
}

// Expire sets the expiry of a live row.
func (p *Postgres) Expire(ctx context.Context, key string, ttl time.Duration) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if ttl <= 0 {
		if _, err := p.pool.Exec(ctx, `DELETE FROM cache_entries WHERE key = $1`, key); err != nil {
			return fmt.Errorf("deleting key: %w", err)
		}

		return nil
	}

	_, err := p.pool.Exec(ctx,
		`UPDATE cache_entries SET expires_at = now() + $2 * interval '1 second'
		WHERE key = $1 AND `+livePredicate,
		key, ttl.Seconds(),
	)
	if err != nil {
		return fmt.Errorf("expiring key: %w", err)
	}

	return nil
}

// Ping checks database connectivity.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.HealthCheck(ctx)
}

// Close closes the underlying pool.
func (p *Postgres) Close() error {
	p.pool.Close()

	return nil
}
