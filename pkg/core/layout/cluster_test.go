package layout

import (
	"testing"

	"github.com/matzehuels/threadmap/pkg/core/geom"
	"github.com/matzehuels/threadmap/pkg/core/threadmap"
)

func topic(id, label string, x, y float64) threadmap.Node {
	return threadmap.Node{ID: id, Kind: threadmap.Topic, Label: label, Position: geom.Pt(x, y)}
}

func child(id, parent string, x, y float64) threadmap.Node {
	return threadmap.Node{ID: id, Kind: threadmap.Concept, ParentID: parent, Label: "X", Position: geom.Pt(x, y)}
}

func TestClusterBand(t *testing.T) {
	// Topic radius 120 + max(48, 60*0.75) = 168; + concept radius 72.
	minD, maxD := DefaultParams().ClusterBand(topic("t", "Linear Algebra", 0, 0))
	if minD != 296 || maxD != 460 {
		t.Errorf("ClusterBand() = [%v, %v], want [296, 460]", minD, maxD)
	}
}

func TestClusterAroundParents(t *testing.T) {
	tests := []struct {
		name string
		at   geom.Point
		want geom.Point
	}{
		{"beyond outer edge", geom.Pt(500, 0), geom.Pt(460, 0)},
		{"inside band", geom.Pt(0, 300), geom.Pt(0, 300)},
		{"on inner edge", geom.Pt(296, 0), geom.Pt(296, 0)},
		{"on outer edge", geom.Pt(0, -460), geom.Pt(0, -460)},
		{"too close", geom.Pt(-10, 0), geom.Pt(-296, 0)},
		{"coincident falls back to +x", geom.Pt(0, 0), geom.Pt(296, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := []threadmap.Node{
				topic("t", "Linear Algebra", 0, 0),
				child("c", "t", tt.at.X, tt.at.Y),
			}
			out := ClusterAroundParents(in)
			if out[1].Position != tt.want {
				t.Errorf("concept at %v -> %v, want %v", tt.at, out[1].Position, tt.want)
			}
			if out[0].Position != in[0].Position {
				t.Error("parent moved")
			}
		})
	}
}

func TestClusterAroundParentsPreservesAngle(t *testing.T) {
	in := []threadmap.Node{
		topic("t", "Linear Algebra", 100, 100),
		child("c", "t", 100+600, 100+800),
	}
	out, n := DefaultParams().ClusterAroundParents(in)
	if n != 1 {
		t.Errorf("clamped = %d, want 1", n)
	}
	// Direction (0.6, 0.8) scaled to the outer edge.
	want := geom.Pt(100+0.6*460, 100+0.8*460)
	if !approxPt(out[1].Position, want) {
		t.Errorf("concept = %v, want %v", out[1].Position, want)
	}
}

func TestClusterAroundParentsPassThrough(t *testing.T) {
	far := geom.Pt(5000, 5000)
	in := []threadmap.Node{
		topic("t", "Linear Algebra", 0, 0),
		{ID: "orphan", Kind: threadmap.Concept, Position: far},
		{ID: "dangling", Kind: threadmap.Concept, ParentID: "gone", Position: far},
		{ID: "self", Kind: threadmap.Concept, ParentID: "self", Position: far},
		{ID: "topic-with-parent", Kind: threadmap.Topic, ParentID: "t", Position: far},
	}
	out, n := DefaultParams().ClusterAroundParents(in)
	if n != 0 {
		t.Errorf("clamped = %d, want 0", n)
	}
	for i := range in {
		if out[i].Position != in[i].Position {
			t.Errorf("%s moved to %v", in[i].ID, out[i].Position)
		}
	}
}

func TestClusterAroundParentsSettlesParentFirst(t *testing.T) {
	// c2 hangs off c1, which is listed after it and will itself be clamped.
	in := []threadmap.Node{
		child("c2", "c1", 0, 0),
		topic("t", "Linear Algebra", 0, 0),
		child("c1", "t", 1000, 0),
	}
	out := ClusterAroundParents(in)
	if out[2].Position != geom.Pt(460, 0) {
		t.Fatalf("c1 = %v, want (460, 0)", out[2].Position)
	}

	minD, maxD := DefaultParams().ClusterBand(out[2])
	d := out[0].Position.Dist(out[2].Position)
	if d < minD-tol || d > maxD+tol {
		t.Errorf("c2 distance to c1 = %v, want in [%v, %v]", d, minD, maxD)
	}
}

func TestClusterAroundParentsCycle(t *testing.T) {
	in := []threadmap.Node{
		child("a", "b", 0, 0),
		child("b", "a", 1, 0),
	}
	// Must terminate; positions only need to be finite.
	out := ClusterAroundParents(in)
	if len(out) != 2 {
		t.Fatalf("len(out) = %d", len(out))
	}
}
