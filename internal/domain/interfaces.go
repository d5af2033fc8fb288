// Package domain defines the capability interfaces shared across the
// store, service and API layers. Consumers should depend on these interfaces
// rather than re-declaring equivalent ones.
package domain

import (
	"context"
	"time"

	"github.com/sample-graph/sample-graph-api/internal/models"
)

// Cache is a key-value cache with time-based expiry.
type Cache interface {
	Exists(ctx context.Context, key string) (bool, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
}

// SongSource is the authoritative upstream for song metadata.
type SongSource interface {
	GetSong(ctx context.Context, id uint32) (*models.SongRecord, error)
	GetRelationships(ctx context.Context, id uint32) ([]models.RelationshipRecord, error)
	Search(ctx context.Context, query string) ([]models.SearchHit, error)
}

// SongStore defines read-through song lookups.
type SongStore interface {
	Song(ctx context.Context, id uint32) (models.SongData, error)
	Relationships(ctx context.Context, id uint32) ([]models.Relationship, error)
	Search(ctx context.Context, query string) ([]models.SongData, error)
}

// GraphBuilder defines relationship graph construction.
type GraphBuilder interface {
	Build(ctx context.Context, startID uint32, degree int) (*models.Graph, error)
	BuildWithObserver(ctx context.Context, startID uint32, degree int, observe models.GraphObserver) (*models.Graph, error)
}

// HealthChecker reports whether a backend is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
