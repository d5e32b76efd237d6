package layout

import (
	"math"
	"testing"

	"github.com/matzehuels/threadmap/pkg/core/geom"
	"github.com/matzehuels/threadmap/pkg/core/threadmap"
)

func TestRunCoincidentConcepts(t *testing.T) {
	in := []threadmap.Node{concept("a", 0, 0), concept("b", 0, 0)}
	res := Run(in, nil)

	d := 40 * math.Sqrt2
	if !approxPt(res.Nodes[0].Position, geom.Pt(-d, -d)) || !approxPt(res.Nodes[1].Position, geom.Pt(d, d)) {
		t.Errorf("positions = %v, %v", res.Nodes[0].Position, res.Nodes[1].Position)
	}
	want := Stats{Passes: 3, Converged: true, Moved: 2}
	if res.Stats != want {
		t.Errorf("Stats = %+v, want %+v", res.Stats, want)
	}
}

func TestRunStageOrder(t *testing.T) {
	// The concept starts too far out. Clustering pulls it to the outer band
	// edge, then recentering moves the pair so the centroid is the origin.
	in := []threadmap.Node{
		topic("t", "Linear Algebra", 0, 0),
		child("c", "t", 1000, 0),
	}
	res := Run(in, nil)

	if !approxPt(res.Nodes[0].Position, geom.Pt(-230, 0)) {
		t.Errorf("topic = %v, want (-230, 0)", res.Nodes[0].Position)
	}
	if !approxPt(res.Nodes[1].Position, geom.Pt(230, 0)) {
		t.Errorf("concept = %v, want (230, 0)", res.Nodes[1].Position)
	}
	if res.Stats.Clamped != 1 || res.Stats.Shift != geom.Vec(-230, 0) {
		t.Errorf("Stats = %+v", res.Stats)
	}
}

func TestRunWithCenter(t *testing.T) {
	in := []threadmap.Node{concept("a", 0, 0), concept("b", 0, 200)}
	out := Layout(in, nil, WithCenter(geom.Pt(400, 300)))

	c, _ := Centroid(out)
	if !c.Near(geom.Pt(400, 300), 1) {
		t.Errorf("centroid = %v, want near (400, 300)", c)
	}
}

func TestRunIgnoresEdges(t *testing.T) {
	in := []threadmap.Node{concept("a", 0, 0), concept("b", 50, 0)}
	edges := []threadmap.Edge{
		{ID: "e1", SourceID: "a", TargetID: "b"},
		{ID: "e2", SourceID: "a", TargetID: "missing"},
	}
	with := Layout(in, edges)
	without := Layout(in, nil)
	for i := range with {
		if with[i].Position != without[i].Position {
			t.Errorf("edges changed node %d: %v vs %v", i, with[i].Position, without[i].Position)
		}
	}
}

func TestRunWithParams(t *testing.T) {
	p := DefaultParams()
	p.ConceptRadius = 10
	p.Label.MinWidth, p.Label.MinHeight = 1, 1
	p.LabelGap = 0

	in := []threadmap.Node{concept("a", -50, 0), concept("b", 50, 0)}
	out := Layout(in, nil, WithParams(p))
	if out[0].Position != in[0].Position || out[1].Position != in[1].Position {
		t.Errorf("small radii should need no separation, got %v %v", out[0].Position, out[1].Position)
	}
}

func TestRunPreservesOrderAndIdentity(t *testing.T) {
	in := []threadmap.Node{
		topic("t", "Calculus", 0, 0),
		child("c1", "t", 0, 0),
		child("c2", "t", 0, 0),
		concept("d", 0, 0),
	}
	out := Layout(in, nil)
	if len(out) != len(in) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(in))
	}
	for i := range in {
		got, want := out[i], in[i]
		got.Position, want.Position = geom.Point{}, geom.Point{}
		if got != want {
			t.Errorf("node %d changed identity: %+v vs %+v", i, out[i], in[i])
		}
	}
}

func TestRunDeterministic(t *testing.T) {
	in := []threadmap.Node{
		topic("t", "Calculus", 0, 0),
		child("c1", "t", 0, 0),
		child("c2", "t", 0, 0),
		concept("d", 5, 5),
	}
	first := Layout(in, nil, WithLocked("c1"))
	for range 5 {
		again := Layout(in, nil, WithLocked("c1"))
		for i := range first {
			if first[i].Position != again[i].Position {
				t.Fatalf("run differs at node %d: %v vs %v", i, first[i].Position, again[i].Position)
			}
		}
	}
}

func TestRunIdempotentOnSettledLayout(t *testing.T) {
	tests := []struct {
		name string
		in   []threadmap.Node
	}{
		{"separated pair", Layout([]threadmap.Node{concept("a", 0, 0), concept("b", 0, 0)}, nil)},
		{"topic with ring of concepts", []threadmap.Node{
			topic("t", "Algebra", 0, 0),
			child("c1", "t", 350, 0),
			child("c2", "t", 350*math.Cos(2*math.Pi/3), 350*math.Sin(2*math.Pi/3)),
			child("c3", "t", 350*math.Cos(4*math.Pi/3), 350*math.Sin(4*math.Pi/3)),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Layout(tt.in, nil)
			for i := range out {
				if d := out[i].Position.Dist(tt.in[i].Position); d >= 0.01 {
					t.Errorf("%s moved by %v", out[i].ID, d)
				}
			}
		})
	}
}

func TestRunEmpty(t *testing.T) {
	res := Run(nil, nil, WithLocked("x"), WithCenter(geom.Pt(1, 1)))
	if len(res.Nodes) != 0 {
		t.Errorf("len(Nodes) = %d, want 0", len(res.Nodes))
	}
	if res.Stats.Moved != 0 {
		t.Errorf("Moved = %d, want 0", res.Stats.Moved)
	}
}

func TestApply(t *testing.T) {
	g, err := threadmap.FromNodes([]threadmap.Node{concept("a", 0, 0), concept("b", 0, 0)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	st := Apply(g)
	if st.Moved != 2 {
		t.Errorf("Moved = %d, want 2", st.Moved)
	}
	a, _ := g.Node("a")
	if a.Position == geom.Origin {
		t.Error("graph was not updated in place")
	}
}
