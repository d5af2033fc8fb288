package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/sample-graph/sample-graph-api/internal/domain"
	"github.com/sample-graph/sample-graph-api/internal/models"
)

// Compile-time check: *SongService must satisfy domain.SongStore.
var _ domain.SongStore = (*SongService)(nil)

// SongService wraps the song store with logging and query normalization.
type SongService struct {
	store domain.SongStore
	log   *logrus.Logger
}

// NewSongService creates a SongService.
func NewSongService(store domain.SongStore, log *logrus.Logger) *SongService {
	return &SongService{store: store, log: log}
}

// Song returns a single song by id.
func (s *SongService) Song(ctx context.Context, id uint32) (models.SongData, error) {
	s.log.WithField("song_id", id).Debug("song.get")

	return s.store.Song(ctx, id)
}

// Relationships returns the relevant relationships of a song.
func (s *SongService) Relationships(ctx context.Context, id uint32) ([]models.Relationship, error) {
	s.log.WithField("song_id", id).Debug("song.relationships")

	return s.store.Relationships(ctx, id)
}

// Search returns songs matching query. A blank query matches nothing and
// does not touch the store. Other queries reach the store verbatim.
func (s *SongService) Search(ctx context.Context, query string) ([]models.SongData, error) {
	s.log.WithField("query", query).Debug("song.search")

	if strings.TrimSpace(query) == "" {
		return []models.SongData{}, nil
	}

	return s.store.Search(ctx, query)
}
