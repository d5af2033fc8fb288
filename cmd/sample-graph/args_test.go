package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/sample-graph/sample-graph-api/client"
)

// executeArgs runs the given root command with args and returns any error.
// It suppresses cobra's usage/error output so test output stays clean.
func executeArgs(t *testing.T, root *cobra.Command, args ...string) error {
	t.Helper()
	root.SetOut(&strings.Builder{})
	root.SetErr(&strings.Builder{})
	root.SetArgs(args)
	_, err := root.ExecuteC()
	return err
}

// newAPIServer serves canned responses for the endpoints the CLI calls.
func newAPIServer(t *testing.T) *httptest.Server {
	t.Helper()
	writeJSON := func(w http.ResponseWriter, v any) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(v) //nolint:errcheck
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /search", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []client.Song{{ID: 1, Title: r.URL.Query().Get("q"), ArtistName: "K"}})
	})
	mux.HandleFunc("GET /songs/1", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, client.Song{ID: 1, Title: "Love", ArtistName: "K"})
	})
	mux.HandleFunc("GET /songs/1/relationships", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []client.Relationship{{Type: "samples", Song: client.Song{ID: 2, Title: "Hook", ArtistName: "S"}}})
	})
	mux.HandleFunc("GET /graph/1", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Degree", r.URL.Query().Get("degree"))
		writeJSON(w, client.Graph{
			Nodes: []client.GraphNode{{Song: client.Song{ID: 1, Title: "Love", ArtistName: "K"}}},
			Edges: []client.GraphEdge{},
		})
	})
	mux.HandleFunc("GET /version", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 0)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestArgValidation(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"search needs a query", []string{"search"}},
		{"song needs an id", []string{"song"}},
		{"song rejects extra args", []string{"song", "1", "2"}},
		{"song rejects non-numeric id", []string{"song", "abc"}},
		{"song rejects ids beyond 32 bits", []string{"song", "4294967296"}},
		{"graph rejects non-numeric id", []string{"graph", "xyz"}},
		{"health takes no args", []string{"health", "extra"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resetFlags(t)
			if err := executeArgs(t, newRootCmd(), tc.args...); err == nil {
				t.Errorf("expected error for %v", tc.args)
			}
		})
	}
}

func TestCommands(t *testing.T) {
	srv := newAPIServer(t)
	t.Setenv("SAMPLE_GRAPH_URL", "")
	writeConfig(t, "")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"search joins words", []string{"search", "love", "song"}, `"title": "love song"`},
		{"song", []string{"song", "1"}, `"artist_name": "K"`},
		{"song relationships table", []string{"song", "1", "--relationships", "--format", "table"}, "samples       2   Hook   S"},
		{"graph", []string{"graph", "1", "--degree", "0"}, `"edges": []`},
		{"server version", []string{"server-version"}, "0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resetFlags(t)
			args := append(tc.args, "--url", srv.URL)

			var err error
			out := captureStdout(t, func() { err = executeArgs(t, newRootCmd(), args...) })
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !strings.Contains(out, tc.want) {
				t.Errorf("output missing %q:\n%s", tc.want, out)
			}
		})
	}
}
