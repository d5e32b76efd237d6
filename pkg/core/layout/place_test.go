package layout

import (
	"testing"

	"github.com/matzehuels/threadmap/pkg/core/geom"
	"github.com/matzehuels/threadmap/pkg/core/threadmap"
)

func TestPlaceDropPoint(t *testing.T) {
	drop := geom.Pt(10, 20)
	in := []threadmap.Node{topic("t", "Calculus", 0, 0), child("c", "t", 0, 0)}

	out := Place(in, Placement{Pending: []string{"c"}, Drop: &drop})
	if out[1].Position != drop {
		t.Errorf("c = %v, want drop point %v", out[1].Position, drop)
	}
	if out[0].Position != in[0].Position {
		t.Error("non-pending node moved")
	}
}

func TestPlaceNearParent(t *testing.T) {
	in := []threadmap.Node{topic("t", "Linear Algebra", 100, 0), child("c", "t", 0, 0)}
	out := Place(in, Placement{Pending: []string{"c"}})

	// Midline of [296, 460].
	if d := out[1].Position.Dist(out[0].Position); !approx(d, 378) {
		t.Errorf("distance to parent = %v, want 378", d)
	}
}

func TestPlaceRootsOnSpiral(t *testing.T) {
	center := geom.Pt(50, 50)
	in := []threadmap.Node{topic("a", "A", 0, 0), topic("b", "B", 0, 0), topic("c", "C", 0, 0)}
	out := Place(in, Placement{Pending: []string{"a", "b", "c"}, Center: center})

	if out[0].Position != center {
		t.Errorf("first root = %v, want center %v", out[0].Position, center)
	}
	spacing := DefaultTopicRadius + DefaultConceptRadius
	if d := out[1].Position.Dist(center); !approx(d, spacing) {
		t.Errorf("second root distance = %v, want %v", d, spacing)
	}
	if out[1].Position == out[2].Position {
		t.Error("roots share a position")
	}
}

func TestPlaceParentAndChildTogether(t *testing.T) {
	in := []threadmap.Node{child("c", "t", 0, 0), topic("t", "Linear Algebra", 0, 0)}
	out := Place(in, Placement{Pending: []string{"c", "t"}, Center: geom.Pt(-100, 0)})

	if out[1].Position != geom.Pt(-100, 0) {
		t.Errorf("topic = %v, want center", out[1].Position)
	}
	if d := out[0].Position.Dist(out[1].Position); !approx(d, 378) {
		t.Errorf("child distance to parent = %v, want 378", d)
	}
}

func TestPlaceIgnoresUnknownAndDuplicates(t *testing.T) {
	in := []threadmap.Node{concept("a", 7, 7)}
	out := Place(in, Placement{Pending: []string{"ghost", "ghost"}})
	if out[0].Position != geom.Pt(7, 7) {
		t.Errorf("a = %v, want unchanged", out[0].Position)
	}

	out = Place(in, Placement{Pending: []string{"a", "a"}})
	if out[0].Position != geom.Origin {
		t.Errorf("a = %v, want first spiral slot", out[0].Position)
	}
}

func TestPlaceDeterministic(t *testing.T) {
	in := []threadmap.Node{
		topic("t", "Topic", 0, 0),
		child("c1", "t", 0, 0),
		child("c2", "t", 0, 0),
	}
	pl := Placement{Pending: []string{"c1", "c2"}}
	first := Place(in, pl)
	second := Place(in, pl)
	for i := range first {
		if first[i].Position != second[i].Position {
			t.Errorf("node %d differs between runs", i)
		}
	}
	if first[1].Position == first[2].Position {
		t.Error("siblings with different IDs should get different angles")
	}
}
