package main

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sample-graph/sample-graph-api/internal/cache"
	"github.com/sample-graph/sample-graph-api/internal/config"
	"github.com/sample-graph/sample-graph-api/internal/db"
	"github.com/sample-graph/sample-graph-api/internal/db/migrations"
	"github.com/sample-graph/sample-graph-api/internal/dbpool"
	"github.com/sample-graph/sample-graph-api/internal/domain"
	"github.com/sample-graph/sample-graph-api/internal/source"
)

const (
	memoryCacheEntries = 50_000
	postgresSweepEvery = 10 * time.Minute
)

// cacheBackend is a cache the server can health-check and close on exit.
type cacheBackend interface {
	domain.Cache
	domain.HealthChecker
	Close() error
}

func openCache(ctx context.Context, cfg *config.Config, log *logrus.Logger) (cacheBackend, error) {
	switch cfg.CacheBackend {
	case "postgres":
		if err := db.RunMigrations(ctx, cfg.DatabaseURL.Value(), log, migrations.FS); err != nil {
			return nil, fmt.Errorf("running migrations: %w", err)
		}

		pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value(), cfg.DBMaxConns)
		if err != nil {
			return nil, fmt.Errorf("connecting to database: %w", err)
		}

		return cache.NewPostgres(ctx, pool, log, postgresSweepEvery), nil

	case "badger":
		b, err := cache.OpenBadger(cache.DefaultBadgerConfig(cfg.BadgerPath, log))
		if err != nil {
			return nil, fmt.Errorf("opening badger cache: %w", err)
		}

		return b, nil

	case "memory":
		return cache.NewMemory(ctx, memoryCacheEntries), nil
	}

	return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
}

func openSource(cfg *config.Config, log *logrus.Logger) (domain.SongSource, error) {
	if cfg.SongSource == config.SourceFixture {
		f, err := source.LoadFixture(cfg.FixturePath)
		if err != nil {
			return nil, fmt.Errorf("loading fixture: %w", err)
		}

		log.WithField("path", cfg.FixturePath).Warn("serving songs from a fixture file")

		return f, nil
	}

	return source.NewGenius(source.GeniusConfig{
		BaseURL:       cfg.GeniusBaseURL,
		Token:         cfg.GeniusKey.Value(),
		RatePerSecond: cfg.GeniusRateLimit,
	}, log), nil
}
