package layout

import (
	"math"

	"github.com/matzehuels/threadmap/pkg/core/geom"
	"github.com/matzehuels/threadmap/pkg/core/threadmap"
)

// Overlap is a pair closer than its required separation.
type Overlap struct {
	A        string  `json:"a"`
	B        string  `json:"b"`
	Distance float64 `json:"distance"`
	Required float64 `json:"required"`
}

// Deficit returns how far the pair is from its required separation.
func (o Overlap) Deficit() float64 { return o.Required - o.Distance }

// ClusterViolation is a concept outside its parent's band.
type ClusterViolation struct {
	ID       string  `json:"id"`
	ParentID string  `json:"parent_id"`
	Distance float64 `json:"distance"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
}

// Report is the outcome of [Params.Inspect].
type Report struct {
	Overlaps          []Overlap          `json:"overlaps,omitempty"`
	ClusterViolations []ClusterViolation `json:"cluster_violations,omitempty"`
	Centroid          geom.Point         `json:"centroid"`
	Drift             geom.Vector        `json:"drift"`
	Centered          bool               `json:"centered"`
	DanglingParents   []string           `json:"dangling_parents,omitempty"`
	DanglingEdges     []string           `json:"dangling_edges,omitempty"`
}

// OK reports whether the layout satisfies every geometric constraint.
// Dangling references are informational only.
func (r Report) OK() bool {
	return len(r.Overlaps) == 0 && len(r.ClusterViolations) == 0 && r.Centered
}

// Inspect checks nodes with the default parameters.
func Inspect(nodes []threadmap.Node, edges []threadmap.Edge, center geom.Point) Report {
	return DefaultParams().Inspect(nodes, edges, center)
}

// Inspect measures how well nodes satisfy the layout constraints around
// center without moving anything.
func (p Params) Inspect(nodes []threadmap.Node, edges []threadmap.Edge, center geom.Point) Report {
	var r Report
	fp := p.footprints(nodes)
	idx := threadmap.Index(nodes)

	for i := range nodes {
		for j := i + 1; j < len(nodes); j++ {
			d := nodes[i].Position.Dist(nodes[j].Position)
			req := p.separation(fp[i], fp[j])
			if d+eps < req {
				r.Overlaps = append(r.Overlaps, Overlap{
					A: nodes[i].ID, B: nodes[j].ID, Distance: d, Required: req,
				})
			}
		}
	}

	for i, n := range nodes {
		if !n.HasParent() {
			continue
		}
		pi, ok := idx[n.ParentID]
		if !ok {
			r.DanglingParents = append(r.DanglingParents, n.ID)
			continue
		}
		if pi == i {
			continue
		}
		minD, maxD := p.ClusterBand(nodes[pi])
		d := n.Position.Dist(nodes[pi].Position)
		if d < minD-eps || d > maxD+eps {
			r.ClusterViolations = append(r.ClusterViolations, ClusterViolation{
				ID: n.ID, ParentID: n.ParentID, Distance: d, Min: minD, Max: maxD,
			})
		}
	}

	for _, e := range edges {
		_, okS := idx[e.SourceID]
		_, okT := idx[e.TargetID]
		if !okS || !okT {
			r.DanglingEdges = append(r.DanglingEdges, e.ID)
		}
	}

	r.Centered = true
	if c, ok := Centroid(nodes); ok {
		r.Centroid = c
		r.Drift = c.Sub(center)
		r.Centered = math.Abs(r.Drift.X) < p.CenterTolerance && math.Abs(r.Drift.Y) < p.CenterTolerance
	}
	return r
}
