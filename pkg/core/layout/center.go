package layout

import (
	"math"
	"slices"

	"github.com/matzehuels/threadmap/pkg/core/geom"
	"github.com/matzehuels/threadmap/pkg/core/threadmap"
)

// Recenter translates nodes so their centroid is target, using the default
// tolerance. See [Params.Recenter].
func Recenter(nodes []threadmap.Node, target geom.Point) []threadmap.Node {
	out, _ := DefaultParams().Recenter(nodes, target)
	return out
}

// Recenter computes the centroid of nodes and, unless it is already within
// CenterTolerance of target on both axes, shifts every node (the locked one
// included) by target minus centroid. It returns the applied shift, which is
// zero when nothing moved. Empty input is returned as is.
func (p Params) Recenter(nodes []threadmap.Node, target geom.Point) ([]threadmap.Node, geom.Vector) {
	out := slices.Clone(nodes)
	c, ok := Centroid(out)
	if !ok {
		return out, geom.Vector{}
	}
	shift := target.Sub(c)
	if math.Abs(shift.X) < p.CenterTolerance && math.Abs(shift.Y) < p.CenterTolerance {
		return out, geom.Vector{}
	}
	for i := range out {
		out[i].Position = out[i].Position.Add(shift)
	}
	return out, shift
}

// Centroid returns the mean node position and false for no nodes.
func Centroid(nodes []threadmap.Node) (geom.Point, bool) {
	pts := make([]geom.Point, len(nodes))
	for i, n := range nodes {
		pts[i] = n.Position
	}
	return geom.Centroid(pts)
}
