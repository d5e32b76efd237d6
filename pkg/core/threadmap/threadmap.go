package threadmap

import (
	"errors"
	"fmt"
	"slices"

	"github.com/matzehuels/threadmap/pkg/core/geom"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrInvalidEdgeID is returned by [Graph.AddEdge] when the edge ID is empty.
	ErrInvalidEdgeID = errors.New("edge ID must not be empty")

	// ErrDuplicateEdgeID is returned by [Graph.AddEdge] when an edge with the
	// same ID already exists in the graph.
	ErrDuplicateEdgeID = errors.New("duplicate edge ID")

	// ErrUnknownKind is returned by [ParseKind] for anything other than
	// "topic" or "concept".
	ErrUnknownKind = errors.New("unknown node kind")
)

// Kind distinguishes the two node categories of a thread map.
type Kind int

const (
	// Concept is a fine-grained idea, usually attached to a parent Topic.
	// Concept is the zero value: the importer treats every non-topic record
	// as a concept.
	Concept Kind = iota
	// Topic is a top-level subject. Topics never have a parent.
	Topic
)

// String returns the lowercase wire name of the kind.
func (k Kind) String() string {
	switch k {
	case Topic:
		return "topic"
	case Concept:
		return "concept"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind converts a wire name back to a Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "topic":
		return Topic, nil
	case "concept":
		return Concept, nil
	default:
		return Concept, fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// Node is a positioned element of the thread map.
//
// ParentID is only meaningful on concepts. A parent that does not resolve to
// a node in the same snapshot is treated as absent by the layout engine.
// Node carries no presentation fields; hosts join colors and truncation
// state by ID.
type Node struct {
	ID       string
	Kind     Kind
	ParentID string
	Label    string
	Position geom.Point
}

// IsTopic reports whether the node is a Topic.
func (n Node) IsTopic() bool { return n.Kind == Topic }

// HasParent reports whether a concept names a parent. It does not check that
// the parent exists.
func (n Node) HasParent() bool { return n.Kind == Concept && n.ParentID != "" }

// Edge is an undirected relationship between two nodes. Endpoints that do not
// resolve are tolerated everywhere and ignored by the layout engine.
type Edge struct {
	ID       string
	SourceID string
	TargetID string
}

// Touches reports whether id is one of the edge's endpoints.
func (e Edge) Touches(id string) bool { return e.SourceID == id || e.TargetID == id }

// Graph is a transient snapshot of a thread map. It keeps nodes and edges in
// insertion order, since the layout engine's tie-breaking depends on order.
//
// The zero value is not usable; call [New]. Graph is not safe for concurrent
// use without external synchronization.
type Graph struct {
	nodes []Node
	index map[string]int
	edges []Edge
	eids  map[string]struct{}
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		index: make(map[string]int),
		eids:  make(map[string]struct{}),
	}
}

// FromNodes builds a graph from already-ordered nodes and edges, failing on
// the first invalid or duplicate ID.
func FromNodes(nodes []Node, edges []Edge) (*Graph, error) {
	g := New()
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("node %q: %w", n.ID, err)
		}
	}
	for _, e := range edges {
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("edge %q: %w", e.ID, err)
		}
	}
	return g, nil
}

// AddNode appends a node. A topic's ParentID is cleared since topics never
// have a parent.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.index[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	if n.Kind == Topic {
		n.ParentID = ""
	}
	g.index[n.ID] = len(g.nodes)
	g.nodes = append(g.nodes, n)
	return nil
}

// AddEdge appends an edge. Endpoints are not required to exist.
func (g *Graph) AddEdge(e Edge) error {
	if e.ID == "" {
		return ErrInvalidEdgeID
	}
	if _, exists := g.eids[e.ID]; exists {
		return ErrDuplicateEdgeID
	}
	g.eids[e.ID] = struct{}{}
	g.edges = append(g.edges, e)
	return nil
}

// RemoveNode deletes the node and every edge touching it. Concepts that name
// it as parent keep the now-dangling ParentID. It reports whether the node
// existed.
func (g *Graph) RemoveNode(id string) bool {
	i, ok := g.index[id]
	if !ok {
		return false
	}
	g.nodes = slices.Delete(g.nodes, i, i+1)
	g.reindex()
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool {
		if e.Touches(id) {
			delete(g.eids, e.ID)
			return true
		}
		return false
	})
	return true
}

// RemoveEdge deletes the edge with the given ID and reports whether it existed.
func (g *Graph) RemoveEdge(id string) bool {
	if _, ok := g.eids[id]; !ok {
		return false
	}
	delete(g.eids, id)
	g.edges = slices.DeleteFunc(g.edges, func(e Edge) bool { return e.ID == id })
	return true
}

func (g *Graph) reindex() {
	clear(g.index)
	for i, n := range g.nodes {
		g.index[n.ID] = i
	}
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// SetPosition moves an existing node and reports whether it was found.
func (g *Graph) SetPosition(id string, p geom.Point) bool {
	i, ok := g.index[id]
	if !ok {
		return false
	}
	g.nodes[i].Position = p
	return true
}

// Nodes returns a copy of the nodes in insertion order.
func (g *Graph) Nodes() []Node { return slices.Clone(g.nodes) }

// Edges returns a copy of the edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Children returns the concepts whose ParentID is id, in insertion order.
func (g *Graph) Children(id string) []Node {
	var out []Node
	for _, n := range g.nodes {
		if n.HasParent() && n.ParentID == id {
			out = append(out, n)
		}
	}
	return out
}

// DanglingEdges returns edges with at least one endpoint missing from the graph.
func (g *Graph) DanglingEdges() []Edge {
	var out []Edge
	for _, e := range g.edges {
		_, okS := g.index[e.SourceID]
		_, okT := g.index[e.TargetID]
		if !okS || !okT {
			out = append(out, e)
		}
	}
	return out
}

// Index maps node IDs to their position in nodes. Later duplicates win.
func Index(nodes []Node) map[string]int {
	idx := make(map[string]int, len(nodes))
	for i, n := range nodes {
		idx[n.ID] = i
	}
	return idx
}
