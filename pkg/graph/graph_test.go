package graph

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/threadmap/pkg/core/geom"
	"github.com/matzehuels/threadmap/pkg/core/layout"
	"github.com/matzehuels/threadmap/pkg/core/threadmap"
	"github.com/matzehuels/threadmap/pkg/errors"
)

func pt(x, y float64) *geom.Point {
	p := geom.Pt(x, y)
	return &p
}

func sample() Graph {
	return Graph{
		Nodes: []Node{
			{ID: "t1", Kind: KindTopic, Label: "Linear Algebra", Position: pt(0, 0)},
			{ID: "c1", Parent: "t1", Label: "Eigenvalues", Position: pt(300, 0), Meta: map[string]any{"summary": "spectra"}},
			{ID: "c2", Parent: "t1", Label: "Matrices"},
		},
		Edges: []Edge{
			{ID: "p1", Source: "t1", Target: "c1", Kind: "prereq"},
			{Source: "c1", Target: "c2"},
		},
	}
}

func TestToThreadmap(t *testing.T) {
	tests := []struct {
		name     string
		g        Graph
		wantCode errors.Code
		check    func(t *testing.T, d Decoded)
	}{
		{
			name: "Sample",
			g:    sample(),
			check: func(t *testing.T, d Decoded) {
				if d.Graph.NodeCount() != 3 || d.Graph.EdgeCount() != 2 {
					t.Fatalf("counts = %d/%d, want 3/2", d.Graph.NodeCount(), d.Graph.EdgeCount())
				}
				if len(d.Pending) != 1 || d.Pending[0] != "c2" {
					t.Errorf("pending = %v, want [c2]", d.Pending)
				}
				n, _ := d.Graph.Node("c1")
				if n.Kind != threadmap.Concept || n.ParentID != "t1" || n.Position != geom.Pt(300, 0) {
					t.Errorf("c1 = %+v", n)
				}
				if e := d.Graph.Edges()[1]; e.ID != "e1" {
					t.Errorf("edge id = %q, want e1", e.ID)
				}
			},
		},
		{
			name: "DefaultEdgeIDs",
			g:    Graph{Edges: []Edge{{Source: "a", Target: "b"}, {Source: "b", Target: "c"}}},
			check: func(t *testing.T, d Decoded) {
				edges := d.Graph.Edges()
				if edges[0].ID != "e0" || edges[1].ID != "e1" {
					t.Errorf("ids = %q %q, want e0 e1", edges[0].ID, edges[1].ID)
				}
			},
		},
		{
			name: "TopicParentCleared",
			g:    Graph{Nodes: []Node{{ID: "t", Kind: KindTopic, Parent: "x"}}},
			check: func(t *testing.T, d Decoded) {
				n, _ := d.Graph.Node("t")
				if n.ParentID != "" {
					t.Errorf("topic parent = %q, want empty", n.ParentID)
				}
			},
		},
		{
			name: "DanglingKept",
			g:    Graph{Nodes: []Node{{ID: "c", Parent: "ghost"}}, Edges: []Edge{{ID: "e", Source: "c", Target: "ghost"}}},
			check: func(t *testing.T, d Decoded) {
				if len(d.Graph.DanglingEdges()) != 1 {
					t.Errorf("dangling edges = %d, want 1", len(d.Graph.DanglingEdges()))
				}
			},
		},
		{name: "EmptyID", g: Graph{Nodes: []Node{{ID: ""}}}, wantCode: errors.ErrCodeInvalidGraph},
		{name: "DuplicateID", g: Graph{Nodes: []Node{{ID: "a"}, {ID: "a"}}}, wantCode: errors.ErrCodeInvalidGraph},
		{name: "UnknownKind", g: Graph{Nodes: []Node{{ID: "a", Kind: "module"}}}, wantCode: errors.ErrCodeInvalidGraph},
		{name: "DuplicateEdge", g: Graph{Edges: []Edge{{ID: "e"}, {ID: "e"}}}, wantCode: errors.ErrCodeInvalidGraph},
		{name: "NaNPosition", g: Graph{Nodes: []Node{{ID: "a", Position: pt(math.NaN(), 0)}}}, wantCode: errors.ErrCodeInvalidGraph},
		{name: "InfPosition", g: Graph{Nodes: []Node{{ID: "a", Position: pt(0, math.Inf(-1))}}}, wantCode: errors.ErrCodeInvalidGraph},
		{name: "HugeLabel", g: Graph{Nodes: []Node{{ID: "a", Label: strings.Repeat("x", errors.MaxLabelLength+1)}}}, wantCode: errors.ErrCodeInvalidGraph},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ToThreadmap(tt.g)
			if tt.wantCode != "" {
				if err == nil {
					t.Fatalf("ToThreadmap() error = nil, want %s", tt.wantCode)
				}
				if got := errors.GetCode(err); got != tt.wantCode {
					t.Errorf("code = %s, want %s", got, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ToThreadmap() error = %v", err)
			}
			if tt.check != nil {
				tt.check(t, d)
			}
		})
	}
}

func TestFromThreadmap(t *testing.T) {
	d, err := ToThreadmap(sample())
	if err != nil {
		t.Fatal(err)
	}
	g := FromThreadmap(d.Graph)

	ids := []string{"t1", "c1", "c2"}
	for i, n := range g.Nodes {
		if n.ID != ids[i] {
			t.Errorf("node %d = %q, want %q", i, n.ID, ids[i])
		}
		if n.Position == nil {
			t.Errorf("node %q has nil position", n.ID)
		}
	}
	if g.Nodes[0].Kind != KindTopic || g.Nodes[1].Kind != KindConcept {
		t.Errorf("kinds = %q %q", g.Nodes[0].Kind, g.Nodes[1].Kind)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	for _, format := range []string{FormatJSON, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			data, err := MarshalGraph(sample(), format)
			if err != nil {
				t.Fatalf("MarshalGraph() error = %v", err)
			}
			g, err := UnmarshalGraph(data, format)
			if err != nil {
				t.Fatalf("UnmarshalGraph() error = %v", err)
			}
			if len(g.Nodes) != 3 || len(g.Edges) != 2 {
				t.Fatalf("counts = %d/%d", len(g.Nodes), len(g.Edges))
			}
			if g.Nodes[2].Position != nil {
				t.Errorf("unplaced node got position %v", g.Nodes[2].Position)
			}
			if g.Edges[0].Kind != "prereq" {
				t.Errorf("edge kind = %q, want prereq", g.Edges[0].Kind)
			}
		})
	}
}

func TestUnmarshalGraphErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format string
	}{
		{"BadJSON", "{nodes", FormatJSON},
		{"BadYAML", "nodes: [", FormatYAML},
		{"UnknownFormat", "{}", "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalGraph([]byte(tt.data), tt.format)
			if errors.GetCode(err) != errors.ErrCodeInvalidFormat {
				t.Errorf("code = %q, want %q (err %v)", errors.GetCode(err), errors.ErrCodeInvalidFormat, err)
			}
		})
	}
}

func TestNonFiniteYAMLPositionRejected(t *testing.T) {
	for _, coord := range []string{".nan", ".inf", "-.inf"} {
		t.Run(coord, func(t *testing.T) {
			data := "nodes:\n  - id: a\n    position: {x: " + coord + ", y: 0}\n"
			g, err := UnmarshalGraph([]byte(data), FormatYAML)
			if err != nil {
				t.Fatalf("UnmarshalGraph() error = %v", err)
			}
			if _, err := ToThreadmap(g); !errors.Is(err, errors.ErrCodeInvalidGraph) {
				t.Errorf("ToThreadmap() error = %v, want INVALID_GRAPH", err)
			}
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"map.json":  FormatJSON,
		"map.yaml":  FormatYAML,
		"map.YML":   FormatYAML,
		"map":       FormatJSON,
		"dir/x.txt": FormatJSON,
	}
	for path, want := range tests {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestGraphFiles(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"map.json", "map.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name)
			if err := WriteGraphFile(sample(), path); err != nil {
				t.Fatalf("WriteGraphFile() error = %v", err)
			}
			g, err := ReadGraphFile(path)
			if err != nil {
				t.Fatalf("ReadGraphFile() error = %v", err)
			}
			if len(g.Nodes) != 3 {
				t.Errorf("nodes = %d, want 3", len(g.Nodes))
			}
		})
	}

	t.Run("Missing", func(t *testing.T) {
		_, err := ReadGraphFile(filepath.Join(dir, "nope.json"))
		if errors.GetCode(err) != errors.ErrCodeFileNotFound {
			t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeFileNotFound)
		}
	})
}

func TestNewLayout(t *testing.T) {
	tg := threadmap.New()
	_ = tg.AddNode(threadmap.Node{ID: "t", Kind: threadmap.Topic})
	_ = tg.AddNode(threadmap.Node{ID: "c", ParentID: "t", Position: geom.Pt(300, 0)})

	p := layout.DefaultParams()
	l := NewLayout(tg, p, geom.Origin, "t", layout.Stats{Passes: 1, Converged: true})

	if l.Nodes[0].Radius != 168 || l.Nodes[1].Radius != 72 {
		t.Errorf("radii = %v %v, want 168 72", l.Nodes[0].Radius, l.Nodes[1].Radius)
	}
	want := Bounds{MinX: -168, MinY: -168, MaxX: 372, MaxY: 168}
	if l.Bounds != want {
		t.Errorf("bounds = %+v, want %+v", l.Bounds, want)
	}
	if l.Bounds.Width() != 540 || l.Bounds.Height() != 336 {
		t.Errorf("size = %v x %v", l.Bounds.Width(), l.Bounds.Height())
	}
	if l.Locked != "t" || l.Stats == nil || !l.Stats.Converged {
		t.Errorf("layout = %+v", l)
	}
}

func TestLayoutAnnotate(t *testing.T) {
	src := sample()
	d, err := ToThreadmap(src)
	if err != nil {
		t.Fatal(err)
	}
	l := NewLayout(d.Graph, layout.DefaultParams(), geom.Origin, "", layout.Stats{})
	l.Annotate(src)

	if l.Nodes[1].Meta["summary"] != "spectra" {
		t.Errorf("meta = %v", l.Nodes[1].Meta)
	}
	if l.Edges[0].Kind != "prereq" {
		t.Errorf("edge kind = %q, want prereq", l.Edges[0].Kind)
	}
	if l.Edges[1].Kind != "" {
		t.Errorf("edge kind = %q, want empty", l.Edges[1].Kind)
	}
}

func TestLayoutFiles(t *testing.T) {
	dir := t.TempDir()
	tg := threadmap.New()
	_ = tg.AddNode(threadmap.Node{ID: "a", Position: geom.Pt(-80, 0)})
	_ = tg.AddNode(threadmap.Node{ID: "b", Position: geom.Pt(80, 0)})
	l := NewLayout(tg, layout.DefaultParams(), geom.Origin, "", layout.Stats{})

	path := filepath.Join(dir, "out.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile() error = %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error = %v", err)
	}
	if len(got.Nodes) != 2 || got.Nodes[1].Position.X != 80 {
		t.Errorf("layout = %+v", got.Nodes)
	}

	// Layout files are valid graph input.
	g, err := ReadGraphFile(path)
	if err != nil {
		t.Fatalf("ReadGraphFile(layout) error = %v", err)
	}
	if len(g.Nodes) != 2 {
		t.Errorf("nodes = %d, want 2", len(g.Nodes))
	}

	t.Run("Unpositioned", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		if err := os.WriteFile(bad, []byte(`{"nodes":[{"id":"a"}]}`), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadLayoutFile(bad); errors.GetCode(err) != errors.ErrCodeInvalidFormat {
			t.Errorf("code = %q, want %q", errors.GetCode(err), errors.ErrCodeInvalidFormat)
		}
	})
}
