// Package service provides business logic between API handlers and the song store.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/sample-graph/sample-graph-api/internal/domain"
	"github.com/sample-graph/sample-graph-api/internal/metrics"
	"github.com/sample-graph/sample-graph-api/internal/models"
)

const (
	tracerName = "github.com/sample-graph/sample-graph-api/internal/service"

	defaultGraphWorkers = 4
)

// Compile-time check: *GraphService must satisfy domain.GraphBuilder.
var _ domain.GraphBuilder = (*GraphService)(nil)

// GraphService builds relationship graphs by breadth-first expansion over the
// song store.
//
// A level's relationship lists are fetched concurrently, then applied in
// dequeue order, so the resulting node and edge order does not depend on
// fetch timing.
type GraphService struct {
	store   domain.SongStore
	workers int
	log     *logrus.Logger
	tracer  trace.Tracer
}

// NewGraphService creates a GraphService. workers bounds concurrent
// relationship fetches within one BFS level; values below 1 use the default.
func NewGraphService(store domain.SongStore, workers int, log *logrus.Logger) *GraphService {
	if workers < 1 {
		workers = defaultGraphWorkers
	}

	return &GraphService{
		store:   store,
		workers: workers,
		log:     log,
		tracer:  otel.Tracer(tracerName),
	}
}

// Build returns the graph of songs reachable from startID within degree hops.
func (s *GraphService) Build(ctx context.Context, startID uint32, degree int) (*models.Graph, error) {
	return s.BuildWithObserver(ctx, startID, degree, nil)
}

// BuildWithObserver is Build, additionally reporting every inserted node and
// edge to observe as it happens, then a final done event. observe may be nil.
// On error no done event is sent and no graph is returned.
func (s *GraphService) BuildWithObserver(ctx context.Context, startID uint32, degree int, observe models.GraphObserver) (*models.Graph, error) {
	if degree < 0 {
		return nil, fmt.Errorf("degree %d: %w", degree, models.ErrInvalidDegree)
	}

	s.log.WithFields(logrus.Fields{
		"song_id": startID,
		"degree":  degree,
	}).Debug("graph.build")

	ctx, span := s.tracer.Start(ctx, "graph.build", trace.WithAttributes(
		attribute.Int64("song_id", int64(startID)),
		attribute.Int("degree", degree),
	))
	defer span.End()

	start := time.Now()

	b := &bfs{
		svc:     s,
		graph:   models.NewGraph(),
		visited: make(map[uint32]int),
		maxDeg:  degree,
		observe: observe,
	}

	if err := b.run(ctx, startID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	g := b.graph
	span.SetAttributes(
		attribute.Int("nodes", len(g.Nodes)),
		attribute.Int("edges", len(g.Edges)),
	)
	metrics.GraphBuildDuration.Observe(time.Since(start).Seconds())
	metrics.GraphNodes.Observe(float64(len(g.Nodes)))

	b.emit(models.GraphEvent{Kind: models.EventDone, Nodes: len(g.Nodes), Edges: len(g.Edges)})

	return g, nil
}

// bfs holds the state of one traversal.
type bfs struct {
	svc     *GraphService
	graph   *models.Graph
	visited map[uint32]int // song id -> node index
	maxDeg  int
	observe models.GraphObserver
}

func (b *bfs) run(ctx context.Context, startID uint32) error {
	song, err := b.svc.store.Song(ctx, startID)
	if err != nil {
		return fmt.Errorf("fetching start song %d: %w", startID, err)
	}

	root := b.addNode(models.GraphNode{Degree: 0, Song: song})
	if b.maxDeg == 0 {
		return nil
	}

	frontier := []int{root}
	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		rels, err := b.prefetch(ctx, frontier)
		if err != nil {
			return err
		}

		var next []int
		for i, cur := range frontier {
			if err := ctx.Err(); err != nil {
				return err
			}
			next = b.expand(cur, rels[i], next)
		}

		frontier = next
	}

	return nil
}

// prefetch fetches the relationships of every frontier node concurrently.
// results[i] belongs to frontier[i].
func (b *bfs) prefetch(ctx context.Context, frontier []int) ([][]models.Relationship, error) {
	results := make([][]models.Relationship, len(frontier))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.svc.workers)

	for i, idx := range frontier {
		id := b.graph.Nodes[idx].Song.ID
		g.Go(func() error {
			rels, err := b.svc.store.Relationships(gctx, id)
			if err != nil {
				return fmt.Errorf("fetching relationships of %d: %w", id, err)
			}
			results[i] = rels

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// expand applies the relationships of node cur, appending newly discovered
// nodes that still need expansion to next.
//
// A relationship to an already discovered song adds an edge unless that song
// sits at an earlier level. Self-loops and edges within a level are kept.
func (b *bfs) expand(cur int, rels []models.Relationship, next []int) []int {
	curDeg := b.graph.Nodes[cur].Degree

	for _, rel := range rels {
		if existing, ok := b.visited[rel.Song.ID]; ok {
			if b.graph.Nodes[existing].Degree >= curDeg {
				b.addEdge(cur, existing, rel.Type)
			}

			continue
		}

		idx := b.addNode(models.GraphNode{Degree: curDeg + 1, Song: rel.Song})
		b.addEdge(cur, idx, rel.Type)

		if curDeg+1 < b.maxDeg {
			next = append(next, idx)
		}
	}

	return next
}

func (b *bfs) addNode(n models.GraphNode) int {
	idx := b.graph.AddNode(n)
	b.visited[n.Song.ID] = idx
	b.emit(models.GraphEvent{Kind: models.EventNode, Index: idx, Node: &n})

	return idx
}

func (b *bfs) addEdge(source, target int, t models.RelationshipType) {
	b.graph.AddEdge(source, target, t)
	b.emit(models.GraphEvent{
		Kind:  models.EventEdge,
		Index: len(b.graph.Edges) - 1,
		Edge:  &models.EdgeRef{Source: source, Target: target, Type: t},
	})
}

func (b *bfs) emit(ev models.GraphEvent) {
	if b.observe != nil {
		b.observe(ev)
	}
}
