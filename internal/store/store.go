// Package store provides the cache-aside song store.
//
// Every read consults the cache first. On a miss the value is computed from
// the upstream SongSource, serialized as JSON, written back under a
// deterministic key and given the configured expiry. Nothing is retried and
// nothing is locked: concurrent misses on one key may both populate it, and
// the last write wins.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sample-graph/sample-graph-api/internal/domain"
	"github.com/sample-graph/sample-graph-api/internal/metrics"
	"github.com/sample-graph/sample-graph-api/internal/models"
)

// Compile-time check: *Store must satisfy domain.SongStore.
var _ domain.SongStore = (*Store)(nil)

// Store reads songs, relationships and search results through a cache.
type Store struct {
	cache  domain.Cache
	source domain.SongSource
	expiry time.Duration
	log    *logrus.Logger
}

// New creates a Store. expiry is applied to every key written on a miss.
func New(cache domain.Cache, source domain.SongSource, expiry time.Duration, log *logrus.Logger) *Store {
	return &Store{cache: cache, source: source, expiry: expiry, log: log}
}

// Song returns the song with the given upstream id.
func (s *Store) Song(ctx context.Context, id uint32) (models.SongData, error) {
	return readThrough(ctx, s, "song", SongKey(id), func(ctx context.Context) (models.SongData, error) {
		rec, err := s.source.GetSong(ctx, id)
		if err != nil {
			return models.SongData{}, fmt.Errorf("getting song %d: %w", id, err)
		}

		return rec.Song(), nil
	})
}

// Relationships returns the relevant relationships of a song, in upstream order.
func (s *Store) Relationships(ctx context.Context, id uint32) ([]models.Relationship, error) {
	rels, err := readThrough(ctx, s, "relationships", RelationshipsKey(id), func(ctx context.Context) ([]models.Relationship, error) {
		records, err := s.source.GetRelationships(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("getting relationships of %d: %w", id, err)
		}

		return relevantRelationships(records), nil
	})
	if err != nil {
		return nil, err
	}

	if rels == nil {
		rels = []models.Relationship{}
	}

	return rels, nil
}

// Search returns the songs matching a free-text query, in upstream order.
func (s *Store) Search(ctx context.Context, query string) ([]models.SongData, error) {
	songs, err := readThrough(ctx, s, "search", SearchKey(query), func(ctx context.Context) ([]models.SongData, error) {
		hits, err := s.source.Search(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("searching %q: %w", query, err)
		}

		out := make([]models.SongData, 0, len(hits))
		for i := range hits {
			out = append(out, hits[i].Song())
		}

		return out, nil
	})
	if err != nil {
		return nil, err
	}

	if songs == nil {
		songs = []models.SongData{}
	}

	return songs, nil
}

// relevantRelationships flattens upstream groups into relationships, dropping
// irrelevant kinds and songs the upstream sent without data.
func relevantRelationships(records []models.RelationshipRecord) []models.Relationship {
	out := []models.Relationship{}

	for _, rec := range records {
		rt := models.ParseRelationshipType(rec.RelationshipType)
		if !rt.IsRelevant() {
			continue
		}

		for _, song := range rec.Songs {
			if song == nil {
				continue
			}
			out = append(out, models.Relationship{Type: rt, Song: song.Song()})
		}
	}

	return out
}

// readThrough runs the cache-aside protocol for one key.
func readThrough[T any](ctx context.Context, s *Store, op, key string, compute func(context.Context) (T, error)) (T, error) {
	var zero T

	found, err := s.cache.Exists(ctx, key)
	if err != nil {
		return zero, models.CacheError(op, fmt.Errorf("checking %s: %w", key, err))
	}

	if found {
		data, err := s.cache.Get(ctx, key)
		if err != nil {
			return zero, models.CacheError(op, fmt.Errorf("reading %s: %w", key, err))
		}

		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return zero, models.DataError(op, fmt.Errorf("decoding %s: %w", key, err))
		}

		metrics.CacheLookups.WithLabelValues(op, "hit").Inc()

		return v, nil
	}

	metrics.CacheLookups.WithLabelValues(op, "miss").Inc()
	s.log.WithFields(logrus.Fields{"op": op, "key": key}).Debug("cache miss")

	v, err := compute(ctx)
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(op).Inc()

		return zero, models.UpstreamError(op, err)
	}

	data, err := json.Marshal(v)
	if err != nil {
		return zero, models.DataError(op, fmt.Errorf("encoding %s: %w", key, err))
	}

	if err := s.cache.Set(ctx, key, data); err != nil {
		return zero, models.CacheError(op, fmt.Errorf("writing %s: %w", key, err))
	}

	if err := s.cache.Expire(ctx, key, s.expiry); err != nil {
		return zero, models.CacheError(op, fmt.Errorf("expiring %s: %w", key, err))
	}

	return v, nil
}
