package graph

import (
	"fmt"
	"math"

	"github.com/matzehuels/threadmap/pkg/core/geom"
	"github.com/matzehuels/threadmap/pkg/core/threadmap"
	"github.com/matzehuels/threadmap/pkg/errors"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// Node kinds on the wire.
const (
	KindTopic   = "topic"
	KindConcept = "concept"
)

// Metadata keys filled by the record importer.
const (
	MetaSummary  = "summary"
	MetaModuleID = "module_id"
)

// =============================================================================
// Graph - Thread Map Serialization
// =============================================================================

// Graph is the canonical serialization format for thread maps.
// Used for input files, API requests, and cache keys.
//
// Node order is significant: the layout engine breaks ties by input order,
// so Graph never reorders nodes.
type Graph struct {
	Nodes []Node `json:"nodes" yaml:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges,omitempty" yaml:"edges,omitempty" bson:"edges,omitempty"`
}

// =============================================================================
// Node - Unified Node Type
// =============================================================================

// Node is the unified node type for graphs and layouts.
//
// A nil Position marks a node that has not been placed yet; the pipeline
// seeds it before layout.
type Node struct {
	ID       string         `json:"id" yaml:"id" bson:"id"`
	Kind     string         `json:"kind,omitempty" yaml:"kind,omitempty" bson:"kind,omitempty"` // "topic" or "concept" (default)
	Parent   string         `json:"parent,omitempty" yaml:"parent,omitempty" bson:"parent,omitempty"`
	Label    string         `json:"label,omitempty" yaml:"label,omitempty" bson:"label,omitempty"`
	Position *geom.Point    `json:"position,omitempty" yaml:"position,omitempty" bson:"position,omitempty"`
	Radius   float64        `json:"radius,omitempty" yaml:"radius,omitempty" bson:"radius,omitempty"` // Layout radius, set in layouts only
	Meta     map[string]any `json:"meta,omitempty" yaml:"meta,omitempty" bson:"meta,omitempty"`
}

// IsTopic reports whether the node is a topic.
func (n *Node) IsTopic() bool { return n.Kind == KindTopic }

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// =============================================================================
// Edge - Relationship
// =============================================================================

// Edge is a relationship between two nodes. Endpoints need not resolve.
type Edge struct {
	ID     string `json:"id" yaml:"id" bson:"id"`
	Source string `json:"source" yaml:"source" bson:"source"`
	Target string `json:"target" yaml:"target" bson:"target"`
	Kind   string `json:"kind,omitempty" yaml:"kind,omitempty" bson:"kind,omitempty"`
}

// =============================================================================
// threadmap.Graph ↔ Graph Conversion
// =============================================================================

// Decoded is a wire graph converted to the core model.
type Decoded struct {
	Graph *threadmap.Graph
	// Pending lists nodes that arrived without a position, in input order.
	Pending []string
}

// ToThreadmap validates g and converts it to the core model.
// Unknown kinds, invalid or duplicate IDs, oversized labels and NaN or
// infinite coordinates are rejected with ErrCodeInvalidGraph. Dangling parents and edge endpoints are kept.
func ToThreadmap(g Graph) (Decoded, error) {
	tg := threadmap.New()
	var pending []string

	for i, n := range g.Nodes {
		if err := errors.ValidateNodeID(n.ID); err != nil {
			return Decoded{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %d", i)
		}
		if err := errors.ValidateLabel(n.Label); err != nil {
			return Decoded{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %q", n.ID)
		}
		kind, err := parseKind(n.Kind)
		if err != nil {
			return Decoded{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %q", n.ID)
		}

		node := threadmap.Node{ID: n.ID, Kind: kind, ParentID: n.Parent, Label: n.Label}
		if n.Position != nil {
			if !finite(*n.Position) {
				return Decoded{}, errors.New(errors.ErrCodeInvalidGraph, "node %q: position %v is not finite", n.ID, *n.Position)
			}
			node.Position = *n.Position
		} else {
			pending = append(pending, n.ID)
		}
		if err := tg.AddNode(node); err != nil {
			return Decoded{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node %q", n.ID)
		}
	}

	for i, e := range g.Edges {
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("e%d", i)
		}
		if err := tg.AddEdge(threadmap.Edge{ID: id, SourceID: e.Source, TargetID: e.Target}); err != nil {
			return Decoded{}, errors.Wrap(errors.ErrCodeInvalidGraph, err, "edge %q", id)
		}
	}

	return Decoded{Graph: tg, Pending: pending}, nil
}

func finite(p geom.Point) bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// FromThreadmap converts a core graph to its serialization format, keeping
// insertion order. Every node gets a position.
func FromThreadmap(g *threadmap.Graph) Graph {
	nodes := g.Nodes()
	edges := g.Edges()
	out := Graph{
		Nodes: make([]Node, len(nodes)),
		Edges: make([]Edge, len(edges)),
	}
	for i, n := range nodes {
		out.Nodes[i] = nodeFromCore(n)
	}
	for i, e := range edges {
		out.Edges[i] = Edge{ID: e.ID, Source: e.SourceID, Target: e.TargetID}
	}
	return out
}

func nodeFromCore(n threadmap.Node) Node {
	p := n.Position
	return Node{
		ID:       n.ID,
		Kind:     n.Kind.String(),
		Parent:   n.ParentID,
		Label:    n.Label,
		Position: &p,
	}
}

func parseKind(s string) (threadmap.Kind, error) {
	if s == "" {
		return threadmap.Concept, nil
	}
	return threadmap.ParseKind(s)
}
