package service

import (
	"context"
	"sync"

	"github.com/sample-graph/sample-graph-api/internal/models"
)

// mockSongStore records calls and returns configured responses.
type mockSongStore struct {
	mu    sync.Mutex
	calls []string

	song          func(ctx context.Context, id uint32) (models.SongData, error)
	relationships func(ctx context.Context, id uint32) ([]models.Relationship, error)
	search        func(ctx context.Context, query string) ([]models.SongData, error)
}

func (m *mockSongStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockSongStore) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, c := range m.calls {
		if c == name {
			n++
		}
	}

	return n
}

func (m *mockSongStore) Song(ctx context.Context, id uint32) (models.SongData, error) {
	m.record("Song")
	return m.song(ctx, id)
}

func (m *mockSongStore) Relationships(ctx context.Context, id uint32) ([]models.Relationship, error) {
	m.record("Relationships")
	return m.relationships(ctx, id)
}

func (m *mockSongStore) Search(ctx context.Context, query string) ([]models.SongData, error) {
	m.record("Search")
	return m.search(ctx, query)
}

// songByID is a song lookup that names songs after their id.
func songByID(_ context.Context, id uint32) (models.SongData, error) {
	return models.SongData{ID: id, Title: "song", ArtistName: "artist"}, nil
}

// adjacency serves relationships from a fixed map.
func adjacency(m map[uint32][]models.Relationship) func(context.Context, uint32) ([]models.Relationship, error) {
	return func(_ context.Context, id uint32) ([]models.Relationship, error) {
		return m[id], nil
	}
}

func rel(t models.RelationshipType, id uint32) models.Relationship {
	return models.Relationship{Type: t, Song: models.SongData{ID: id, Title: "song", ArtistName: "artist"}}
}
