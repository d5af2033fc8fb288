package models

import (
	"encoding/json"
	"fmt"
)

// GraphNode is a song annotated with its degree of separation from the
// traversal start. The degree is fixed at first discovery.
type GraphNode struct {
	Degree int      `json:"degree"`
	Song   SongData `json:"song"`
}

// Edge is a labelled directed edge between two node indices.
type Edge struct {
	Source int
	Target int
	Type   RelationshipType
}

// Graph is a directed multigraph of songs. Node indices are insertion order.
type Graph struct {
	Nodes []GraphNode
	Edges []Edge
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{Nodes: []GraphNode{}, Edges: []Edge{}}
}

// AddNode appends a node and returns its index.
func (g *Graph) AddNode(n GraphNode) int {
	g.Nodes = append(g.Nodes, n)

	return len(g.Nodes) - 1
}

// AddEdge appends a directed edge. Parallel edges are kept.
func (g *Graph) AddEdge(source, target int, t RelationshipType) {
	g.Edges = append(g.Edges, Edge{Source: source, Target: target, Type: t})
}

// IndexOf returns the node index holding the song id, or -1.
func (g *Graph) IndexOf(songID uint32) int {
	for i, n := range g.Nodes {
		if n.Song.ID == songID {
			return i
		}
	}

	return -1
}

// graphJSON is the wire layout: node list plus [source, target, type] edge triples.
type graphJSON struct {
	Nodes        []GraphNode       `json:"nodes"`
	NodeHoles    []int             `json:"node_holes"`
	EdgeProperty string            `json:"edge_property"`
	Edges        []json.RawMessage `json:"edges"`
}

// MarshalJSON implements json.Marshaler.
func (g *Graph) MarshalJSON() ([]byte, error) {
	out := graphJSON{
		Nodes:        g.Nodes,
		NodeHoles:    []int{},
		EdgeProperty: "directed",
		Edges:        make([]json.RawMessage, 0, len(g.Edges)),
	}
	if out.Nodes == nil {
		out.Nodes = []GraphNode{}
	}

	for _, e := range g.Edges {
		raw, err := json.Marshal([]any{e.Source, e.Target, e.Type})
		if err != nil {
			return nil, fmt.Errorf("marshal edge: %w", err)
		}
		out.Edges = append(out.Edges, raw)
	}

	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var in graphJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	g.Nodes = in.Nodes
	if g.Nodes == nil {
		g.Nodes = []GraphNode{}
	}
	g.Edges = make([]Edge, 0, len(in.Edges))

	for _, raw := range in.Edges {
		var triple [3]json.RawMessage
		if err := json.Unmarshal(raw, &triple); err != nil {
			return fmt.Errorf("decode edge: %w", err)
		}

		var e Edge
		if err := json.Unmarshal(triple[0], &e.Source); err != nil {
			return fmt.Errorf("decode edge source: %w", err)
		}
		if err := json.Unmarshal(triple[1], &e.Target); err != nil {
			return fmt.Errorf("decode edge target: %w", err)
		}
		if err := json.Unmarshal(triple[2], &e.Type); err != nil {
			return fmt.Errorf("decode edge type: %w", err)
		}
		if e.Source < 0 || e.Source >= len(g.Nodes) || e.Target < 0 || e.Target >= len(g.Nodes) {
			return fmt.Errorf("edge %d->%d references a missing node", e.Source, e.Target)
		}

		g.Edges = append(g.Edges, e)
	}

	return nil
}
