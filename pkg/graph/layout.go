package graph

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/matzehuels/threadmap/pkg/core/geom"
	"github.com/matzehuels/threadmap/pkg/core/layout"
	"github.com/matzehuels/threadmap/pkg/core/threadmap"
	"github.com/matzehuels/threadmap/pkg/errors"
)

// =============================================================================
// Layout - Positioned Thread Map
// =============================================================================

// Layout is the serialization format for a finished layout run.
//
// Its nodes and edges use the same keys as [Graph], so a layout file can be
// read back as a graph and laid out again.
type Layout struct {
	Nodes  []Node     `json:"nodes" yaml:"nodes" bson:"nodes"`
	Edges  []Edge     `json:"edges,omitempty" yaml:"edges,omitempty" bson:"edges,omitempty"`
	Center geom.Point `json:"center" yaml:"center" bson:"center"`
	Locked string     `json:"locked,omitempty" yaml:"locked,omitempty" bson:"locked,omitempty"`
	Bounds Bounds     `json:"bounds" yaml:"bounds" bson:"bounds"`
	Stats  *Stats     `json:"stats,omitempty" yaml:"stats,omitempty" bson:"stats,omitempty"`
}

// Bounds is the axis-aligned box enclosing every node circle.
type Bounds struct {
	MinX float64 `json:"min_x" yaml:"min_x" bson:"min_x"`
	MinY float64 `json:"min_y" yaml:"min_y" bson:"min_y"`
	MaxX float64 `json:"max_x" yaml:"max_x" bson:"max_x"`
	MaxY float64 `json:"max_y" yaml:"max_y" bson:"max_y"`
}

// Width returns the horizontal extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Stats mirrors layout.Stats on the wire.
type Stats struct {
	Passes    int  `json:"passes" yaml:"passes" bson:"passes"`
	Converged bool `json:"converged" yaml:"converged" bson:"converged"`
	Clamped   int  `json:"clamped" yaml:"clamped" bson:"clamped"`
	Moved     int  `json:"moved" yaml:"moved" bson:"moved"`
}

// Graph returns the layout's nodes and edges as a graph.
func (l Layout) Graph() Graph {
	return Graph{Nodes: l.Nodes, Edges: l.Edges}
}

// NewLayout builds a layout document from positioned core nodes. Radii and
// bounds are computed with p.
func NewLayout(g *threadmap.Graph, p layout.Params, center geom.Point, locked string, st layout.Stats) Layout {
	wire := FromThreadmap(g)
	for i, n := range g.Nodes() {
		wire.Nodes[i].Radius = p.Radius(n)
	}
	return Layout{
		Nodes:  wire.Nodes,
		Edges:  wire.Edges,
		Center: center,
		Locked: locked,
		Bounds: boundsOf(wire.Nodes),
		Stats: &Stats{
			Passes:    st.Passes,
			Converged: st.Converged,
			Clamped:   st.Clamped,
			Moved:     st.Moved,
		},
	}
}

// Annotate copies metadata and edge kinds from src onto matching layout
// nodes and edges. The core model does not carry them.
func (l *Layout) Annotate(src Graph) {
	meta := make(map[string]map[string]any, len(src.Nodes))
	for _, n := range src.Nodes {
		if len(n.Meta) > 0 {
			meta[n.ID] = n.Meta
		}
	}
	for i := range l.Nodes {
		if m, ok := meta[l.Nodes[i].ID]; ok {
			l.Nodes[i].Meta = m
		}
	}
	kinds := make(map[string]string, len(src.Edges))
	for i, e := range src.Edges {
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("e%d", i)
		}
		if e.Kind != "" {
			kinds[id] = e.Kind
		}
	}
	for i := range l.Edges {
		if k, ok := kinds[l.Edges[i].ID]; ok {
			l.Edges[i].Kind = k
		}
	}
}

func boundsOf(nodes []Node) Bounds {
	if len(nodes) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, n := range nodes {
		if n.Position == nil {
			continue
		}
		p, r := *n.Position, n.Radius
		b.MinX = min(b.MinX, p.X-r)
		b.MinY = min(b.MinY, p.Y-r)
		b.MaxX = max(b.MaxX, p.X+r)
		b.MaxY = max(b.MaxY, p.Y+r)
	}
	return b
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a layout in the given format.
func MarshalLayout(l Layout, format string) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, l, format); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalLayout decodes a layout and checks that every node is positioned.
func UnmarshalLayout(data []byte, format string) (Layout, error) {
	var l Layout
	if err := decode(bytes.NewReader(data), &l, format); err != nil {
		return Layout{}, err
	}
	for _, n := range l.Nodes {
		if n.Position == nil {
			return Layout{}, errors.New(errors.ErrCodeInvalidFormat, "layout node %q has no position", n.ID)
		}
	}
	return l, nil
}

// WriteLayoutFile writes a layout, choosing the format by extension.
func WriteLayoutFile(l Layout, path string) error {
	return writeFile(path, func(w io.Writer) error { return encode(w, l, FormatFromPath(path)) })
}

// ReadLayoutFile reads a layout, choosing the format by extension.
func ReadLayoutFile(path string) (Layout, error) {
	f, err := openFile(path)
	if err != nil {
		return Layout{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return Layout{}, err
	}
	return UnmarshalLayout(data, FormatFromPath(path))
}
