package layout

import (
	"testing"

	"github.com/matzehuels/threadmap/pkg/core/geom"
	"github.com/matzehuels/threadmap/pkg/core/threadmap"
)

func TestRecenter(t *testing.T) {
	tests := []struct {
		name   string
		in     []geom.Point
		target geom.Point
		want   []geom.Point
	}{
		{
			name: "shifts to origin",
			in:   []geom.Point{geom.Pt(10, 0), geom.Pt(30, 0)},
			want: []geom.Point{geom.Pt(-10, 0), geom.Pt(10, 0)},
		},
		{
			name: "within tolerance is left alone",
			in:   []geom.Point{geom.Pt(0.5, 0), geom.Pt(-0.4, 0.3)},
			want: []geom.Point{geom.Pt(0.5, 0), geom.Pt(-0.4, 0.3)},
		},
		{
			name:   "custom target",
			in:     []geom.Point{geom.Pt(0, 0)},
			target: geom.Pt(100, -50),
			want:   []geom.Point{geom.Pt(100, -50)},
		},
		{
			name: "one axis over tolerance moves both",
			in:   []geom.Point{geom.Pt(0, 3), geom.Pt(0.5, 3)},
			want: []geom.Point{geom.Pt(-0.25, 0), geom.Pt(0.25, 0)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var nodes []threadmap.Node
			for i, p := range tt.in {
				nodes = append(nodes, concept(string(rune('a'+i)), p.X, p.Y))
			}
			out := Recenter(nodes, tt.target)
			for i, want := range tt.want {
				if !approxPt(out[i].Position, want) {
					t.Errorf("node %d = %v, want %v", i, out[i].Position, want)
				}
			}
		})
	}
}

func TestRecenterEmpty(t *testing.T) {
	out, shift := DefaultParams().Recenter(nil, geom.Pt(5, 5))
	if len(out) != 0 {
		t.Errorf("len(out) = %d, want 0", len(out))
	}
	if shift != (geom.Vector{}) {
		t.Errorf("shift = %v, want zero", shift)
	}
}

func TestRecenterReportsShift(t *testing.T) {
	_, shift := DefaultParams().Recenter([]threadmap.Node{concept("a", 4, 6)}, geom.Origin)
	if shift != geom.Vec(-4, -6) {
		t.Errorf("shift = %v, want (-4, -6)", shift)
	}
}

func TestCentroid(t *testing.T) {
	c, ok := Centroid([]threadmap.Node{concept("a", 0, 0), concept("b", 2, 4)})
	if !ok || c != geom.Pt(1, 2) {
		t.Errorf("Centroid() = %v, %v, want (1, 2), true", c, ok)
	}
}
