package client

import (
	"encoding/json"
	"fmt"
)

// Song is a song as returned by the API.
type Song struct {
	ID         uint32 `json:"id"`
	Title      string `json:"title"`
	ArtistName string `json:"artist_name"`
}

// Relationship is a typed link from one song to another.
type Relationship struct {
	Type string `json:"relationship_type"`
	Song Song   `json:"song"`
}

// GraphNode is a song with its degree of separation from the start song.
type GraphNode struct {
	Degree int  `json:"degree"`
	Song   Song `json:"song"`
}

// GraphEdge is a directed edge between two node indices.
type GraphEdge struct {
	Source int
	Target int
	Type   string
}

// UnmarshalJSON decodes the [source, target, type] triple form.
func (e *GraphEdge) UnmarshalJSON(data []byte) error {
	var triple [3]json.RawMessage
	if err := json.Unmarshal(data, &triple); err != nil {
		return fmt.Errorf("decode edge: %w", err)
	}
	if err := json.Unmarshal(triple[0], &e.Source); err != nil {
		return fmt.Errorf("decode edge source: %w", err)
	}
	if err := json.Unmarshal(triple[1], &e.Target); err != nil {
		return fmt.Errorf("decode edge target: %w", err)
	}
	return json.Unmarshal(triple[2], &e.Type)
}

// MarshalJSON encodes the edge as a [source, target, type] triple.
func (e GraphEdge) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{e.Source, e.Target, e.Type})
}

// Graph is a relationship graph. Edge endpoints index into Nodes.
type Graph struct {
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphEvent is one message of a streamed graph build.
type GraphEvent struct {
	Kind  string     `json:"kind"`
	Index int        `json:"index"`
	Node  *GraphNode `json:"node,omitempty"`
	Edge  *struct {
		Source int    `json:"source"`
		Target int    `json:"target"`
		Type   string `json:"relationship_type"`
	} `json:"edge,omitempty"`
	Nodes   int    `json:"nodes,omitempty"`
	Edges   int    `json:"edges,omitempty"`
	Message string `json:"message,omitempty"`
}

// HealthResponse is the liveness check payload.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Cache         string  `json:"cache"`
	CacheBackend  string  `json:"cache_backend"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}
