package source

import (
	"cmp"
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"github.com/agext/levenshtein"
	"gopkg.in/yaml.v3"

	"github.com/sample-graph/sample-graph-api/internal/domain"
	"github.com/sample-graph/sample-graph-api/internal/models"
)

// Compile-time check: *Fixture must satisfy domain.SongSource.
var _ domain.SongSource = (*Fixture)(nil)

// Fixture is an in-memory SongSource keyed by song id. It counts calls per
// method so tests can assert on upstream traffic.
type Fixture struct {
	mu    sync.RWMutex
	songs map[uint32]*models.SongRecord
	calls map[string]int
}

// fixtureFile is the YAML layout read by LoadFixture.
type fixtureFile struct {
	Songs []models.SongRecord `yaml:"songs"`
}

// NewFixture creates a Fixture holding the given records.
func NewFixture(records ...models.SongRecord) *Fixture {
	f := &Fixture{
		songs: make(map[uint32]*models.SongRecord, len(records)),
		calls: make(map[string]int),
	}
	for _, r := range records {
		f.Add(r)
	}

	return f
}

// LoadFixture reads a YAML fixture file of the form {songs: [...]}.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture %s: %w", path, err)
	}

	var file fixtureFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing fixture %s: %w", path, err)
	}

	return NewFixture(file.Songs...), nil
}

// Add stores or replaces a record.
func (f *Fixture) Add(rec models.SongRecord) {
	f.mu.Lock()
	defer f.mu.Unlock()

	r := rec
	f.songs[rec.ID] = &r
}

// Relate appends a relationship group of type relType from one song to
// already-added songs. A zero id appends a song without data.
func (f *Fixture) Relate(from uint32, relType string, to ...uint32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	src, ok := f.songs[from]
	if !ok {
		return fmt.Errorf("song %d: %w", from, models.ErrSongNotFound)
	}

	group := models.RelationshipRecord{RelationshipType: relType, Type: relType}
	for _, id := range to {
		if id == 0 {
			group.Songs = append(group.Songs, nil)
			continue
		}

		target, ok := f.songs[id]
		if !ok {
			return fmt.Errorf("song %d: %w", id, models.ErrSongNotFound)
		}

		ref := *target
		ref.SongRelationships = nil
		group.Songs = append(group.Songs, &ref)
	}

	src.SongRelationships = append(src.SongRelationships, group)

	return nil
}

// Calls returns how many times method was invoked.
func (f *Fixture) Calls(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.calls[method]
}

func (f *Fixture) record(method string) {
	f.mu.Lock()
	f.calls[method]++
	f.mu.Unlock()
}

// GetSong returns a copy of the stored record.
func (f *Fixture) GetSong(ctx context.Context, id uint32) (*models.SongRecord, error) {
	f.record("GetSong")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	rec, ok := f.songs[id]
	if !ok {
		return nil, fmt.Errorf("song %d: %w", id, models.ErrSongNotFound)
	}

	out := *rec
	out.SongRelationships = slices.Clone(rec.SongRelationships)

	return &out, nil
}

// GetRelationships returns the stored relationship groups, unfiltered.
func (f *Fixture) GetRelationships(ctx context.Context, id uint32) ([]models.RelationshipRecord, error) {
	f.record("GetRelationships")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	rec, ok := f.songs[id]
	if !ok {
		return nil, fmt.Errorf("song %d: %w", id, models.ErrSongNotFound)
	}

	out := slices.Clone(rec.SongRelationships)
	if out == nil {
		out = []models.RelationshipRecord{}
	}

	return out, nil
}

// Search matches the query case-insensitively against titles and artist
// names. Hits are ordered by similarity of the title to the query, then by id.
func (f *Fixture) Search(ctx context.Context, query string) ([]models.SearchHit, error) {
	f.record("Search")
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []models.SearchHit{}, nil
	}

	type scored struct {
		rec   models.SongRecord
		score float64
	}

	f.mu.RLock()
	matches := make([]scored, 0)
	for _, rec := range f.songs {
		title := strings.ToLower(rec.Song().Title)
		artist := strings.ToLower(rec.PrimaryArtist.Name)
		if !strings.Contains(title, q) && !strings.Contains(artist, q) {
			continue
		}

		r := *rec
		r.SongRelationships = nil
		matches = append(matches, scored{rec: r, score: levenshtein.Similarity(q, title, nil)})
	}
	f.mu.RUnlock()

	slices.SortFunc(matches, func(a, b scored) int {
		if c := cmp.Compare(b.score, a.score); c != 0 {
			return c
		}

		return cmp.Compare(a.rec.ID, b.rec.ID)
	})

	hits := make([]models.SearchHit, 0, len(matches))
	for _, m := range matches {
		hits = append(hits, models.SearchHit{Index: "song", Type: "song", Result: m.rec})
	}

	return hits, nil
}
