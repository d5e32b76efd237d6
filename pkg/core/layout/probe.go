package layout

import (
	"math"

	"github.com/matzehuels/threadmap/pkg/core/geom"
	"github.com/matzehuels/threadmap/pkg/core/threadmap"
)

// ProbeResult reports what lies under a point.
type ProbeResult struct {
	// Clear is true when the point is outside every node's layout radius.
	Clear bool `json:"clear"`
	// Nearest is the ID of the node whose center is closest, empty for an
	// empty graph.
	Nearest string `json:"nearest,omitempty"`
	// Distance is the center distance to Nearest.
	Distance float64 `json:"distance"`
	// Hit lists the nodes whose layout radius contains the point, in input
	// order.
	Hit []string `json:"hit,omitempty"`
}

// Probe checks pt against nodes with the default parameters.
func Probe(nodes []threadmap.Node, pt geom.Point) ProbeResult {
	return DefaultParams().Probe(nodes, pt)
}

// Probe reports whether pt is free for placing a new node. Ties for nearest
// go to the earlier node.
func (p Params) Probe(nodes []threadmap.Node, pt geom.Point) ProbeResult {
	res := ProbeResult{Clear: true, Distance: math.Inf(1)}
	for _, n := range nodes {
		d := pt.Dist(n.Position)
		if d < res.Distance {
			res.Distance = d
			res.Nearest = n.ID
		}
		if d < p.Radius(n) {
			res.Clear = false
			res.Hit = append(res.Hit, n.ID)
		}
	}
	if res.Nearest == "" {
		res.Distance = 0
	}
	return res
}
