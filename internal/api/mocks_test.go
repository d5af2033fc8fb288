package api_test

import (
	"context"

	"github.com/sample-graph/sample-graph-api/internal/models"
)

// mockSongRepo implements api.SongRepository for testing.
type mockSongRepo struct {
	songFn          func(ctx context.Context, id uint32) (models.SongData, error)
	relationshipsFn func(ctx context.Context, id uint32) ([]models.Relationship, error)
	searchFn        func(ctx context.Context, query string) ([]models.SongData, error)
}

func (m *mockSongRepo) Song(ctx context.Context, id uint32) (models.SongData, error) {
	return m.songFn(ctx, id)
}

func (m *mockSongRepo) Relationships(ctx context.Context, id uint32) ([]models.Relationship, error) {
	return m.relationshipsFn(ctx, id)
}

func (m *mockSongRepo) Search(ctx context.Context, query string) ([]models.SongData, error) {
	return m.searchFn(ctx, query)
}

// mockGraphRepo implements api.GraphRepository for testing.
type mockGraphRepo struct {
	buildFn func(ctx context.Context, startID uint32, degree int, observe models.GraphObserver) (*models.Graph, error)
}

func (m *mockGraphRepo) Build(ctx context.Context, startID uint32, degree int) (*models.Graph, error) {
	return m.buildFn(ctx, startID, degree, nil)
}

func (m *mockGraphRepo) BuildWithObserver(ctx context.Context, startID uint32, degree int, observe models.GraphObserver) (*models.Graph, error) {
	return m.buildFn(ctx, startID, degree, observe)
}

// mockPinger implements api.Pinger for testing.
type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(context.Context) error { return m.err }

// twoNodeGraph builds a 1 -samples-> 2 graph, reporting it to observe when set.
func twoNodeGraph(startID uint32, observe models.GraphObserver) *models.Graph {
	emit := func(ev models.GraphEvent) {
		if observe != nil {
			observe(ev)
		}
	}

	g := models.NewGraph()
	n0 := models.GraphNode{Degree: 0, Song: models.SongData{ID: startID, Title: "Start", ArtistName: "A"}}
	n1 := models.GraphNode{Degree: 1, Song: models.SongData{ID: startID + 1, Title: "Next", ArtistName: "B"}}

	emit(models.GraphEvent{Kind: models.EventNode, Index: g.AddNode(n0), Node: &n0})
	emit(models.GraphEvent{Kind: models.EventNode, Index: g.AddNode(n1), Node: &n1})
	g.AddEdge(0, 1, models.Samples)
	emit(models.GraphEvent{Kind: models.EventEdge, Index: 0, Edge: &models.EdgeRef{Source: 0, Target: 1, Type: models.Samples}})
	emit(models.GraphEvent{Kind: models.EventDone, Nodes: 2, Edges: 1})

	return g
}
