package api

import (
	"context"

	"github.com/sample-graph/sample-graph-api/internal/models"
)

// SongRepository defines song lookups used by SongHandler.
type SongRepository interface {
	Song(ctx context.Context, id uint32) (models.SongData, error)
	Relationships(ctx context.Context, id uint32) ([]models.Relationship, error)
	Search(ctx context.Context, query string) ([]models.SongData, error)
}

// GraphRepository defines graph construction used by GraphHandler.
type GraphRepository interface {
	Build(ctx context.Context, startID uint32, degree int) (*models.Graph, error)
	BuildWithObserver(ctx context.Context, startID uint32, degree int, observe models.GraphObserver) (*models.Graph, error)
}

// Pinger reports whether a backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
