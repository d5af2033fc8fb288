package models

// GraphEventKind names a graph stream event.
type GraphEventKind string

// Graph stream event kinds.
const (
	EventNode  GraphEventKind = "node"
	EventEdge  GraphEventKind = "edge"
	EventDone  GraphEventKind = "done"
	EventError GraphEventKind = "error"
)

// EdgeRef is the wire form of an edge in a graph event.
type EdgeRef struct {
	Source int              `json:"source"`
	Target int              `json:"target"`
	Type   RelationshipType `json:"relationship_type"`
}

// GraphEvent is emitted while a graph is being built. Index is the node
// index for node events and the edge index for edge events.
type GraphEvent struct {
	Kind    GraphEventKind `json:"kind"`
	Index   int            `json:"index"`
	Node    *GraphNode     `json:"node,omitempty"`
	Edge    *EdgeRef       `json:"edge,omitempty"`
	Nodes   int            `json:"nodes,omitempty"`
	Edges   int            `json:"edges,omitempty"`
	Message string         `json:"message,omitempty"`
}

// GraphObserver receives events in graph insertion order.
type GraphObserver func(GraphEvent)
