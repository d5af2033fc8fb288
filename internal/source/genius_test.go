package source

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/sample-graph/sample-graph-api/internal/models"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)

	return l
}

// newTestGenius starts a server routing "METHOD /path" patterns to handlers.
func newTestGenius(t *testing.T, routes map[string]http.HandlerFunc) *Genius {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, handler := range routes {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return NewGenius(GeniusConfig{BaseURL: srv.URL, Token: "secret-token"}, testLogger())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func TestGenius_GetSong(t *testing.T) {
	g := newTestGenius(t, map[string]http.HandlerFunc{
		"GET /songs/{id}": func(w http.ResponseWriter, r *http.Request) {
			if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
				t.Errorf("Authorization = %q", got)
			}
			if r.URL.Query().Get("text_format") != "plain" {
				t.Errorf("expected text_format=plain, got %q", r.URL.RawQuery)
			}
			if r.PathValue("id") != "42" {
				t.Errorf("id = %q", r.PathValue("id"))
			}
			writeJSON(w, 200, map[string]any{
				"meta": map[string]any{"status": 200},
				"response": map[string]any{"song": map[string]any{
					"id":                  42,
					"title":               "Song",
					"title_with_featured": "Song (Ft. Guest)",
					"primary_artist":      map[string]any{"id": 1, "name": "Artist"},
					"song_relationships": []map[string]any{
						{"relationship_type": "samples", "type": "samples", "songs": []any{
							map[string]any{"id": 7, "title": "Seven", "primary_artist": map[string]any{"name": "Other"}},
							nil,
						}},
						{"relationship_type": "cover_of", "type": "cover_of", "songs": []any{}},
					},
				}},
			})
		},
	})

	rec, err := g.GetSong(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetSong() error: %v", err)
	}

	want := models.SongData{ID: 42, Title: "Song (Ft. Guest)", ArtistName: "Artist"}
	if rec.Song() != want {
		t.Errorf("got %+v, want %+v", rec.Song(), want)
	}

	rels, err := g.GetRelationships(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetRelationships() error: %v", err)
	}
	if len(rels) != 2 {
		t.Fatalf("expected 2 unfiltered groups, got %d", len(rels))
	}
	if len(rels[0].Songs) != 2 || rels[0].Songs[1] != nil {
		t.Errorf("expected the absent song to stay nil, got %+v", rels[0].Songs)
	}
}

func TestGenius_GetSongNotFound(t *testing.T) {
	g := newTestGenius(t, map[string]http.HandlerFunc{
		"GET /songs/{id}": func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, 404, map[string]any{"meta": map[string]any{"status": 404, "message": "Not found"}})
		},
	})

	_, err := g.GetSong(context.Background(), 1)
	if !errors.Is(err, models.ErrSongNotFound) {
		t.Fatalf("expected ErrSongNotFound, got %v", err)
	}
}

func TestGenius_Unauthorized(t *testing.T) {
	g := newTestGenius(t, map[string]http.HandlerFunc{
		"GET /songs/{id}": func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, 401, map[string]any{"meta": map[string]any{"status": 401, "message": "invalid token"}})
		},
	})

	_, err := g.GetSong(context.Background(), 1)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != 401 || apiErr.Message != "invalid token" {
		t.Errorf("got %+v", apiErr)
	}
}

func TestGenius_Search(t *testing.T) {
	g := newTestGenius(t, map[string]http.HandlerFunc{
		"GET /search": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("q") != "kanye west" {
				t.Errorf("q = %q", r.URL.Query().Get("q"))
			}
			writeJSON(w, 200, map[string]any{
				"meta": map[string]any{"status": 200},
				"response": map[string]any{"hits": []map[string]any{
					{"index": "song", "type": "song", "result": map[string]any{"id": 1, "title_with_featured": "A", "primary_artist": map[string]any{"name": "X"}}},
					{"index": "artist", "type": "artist", "result": map[string]any{"id": 2}},
					{"index": "song", "type": "song", "result": map[string]any{"id": 3, "title": "C", "primary_artist": map[string]any{"name": "Y"}}},
				}},
			})
		},
	})

	hits, err := g.Search(context.Background(), "kanye west")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 song hits, got %d", len(hits))
	}
	if hits[0].Song().ID != 1 || hits[1].Song().Title != "C" {
		t.Errorf("unexpected hits %+v", hits)
	}
}

func TestGenius_BlankSearchSkipsUpstream(t *testing.T) {
	g := newTestGenius(t, map[string]http.HandlerFunc{
		"GET /search": func(_ http.ResponseWriter, _ *http.Request) {
			t.Error("blank query must not reach the upstream")
		},
	})

	hits, err := g.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if hits == nil || len(hits) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", hits)
	}
}
