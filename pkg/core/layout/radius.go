package layout

import "github.com/matzehuels/threadmap/pkg/core/threadmap"

// Radius returns the layout radius of n with the default parameters.
func Radius(n threadmap.Node) float64 { return DefaultParams().Radius(n) }

// BaseRadius returns the fixed radius for a node kind.
func (p Params) BaseRadius(k threadmap.Kind) float64 {
	if k == threadmap.Topic {
		return p.TopicRadius
	}
	return p.ConceptRadius
}

// Radius returns the layout radius of n: its base radius, plus label
// clearance for topics since their label renders beneath the circle.
func (p Params) Radius(n threadmap.Node) float64 {
	r := p.BaseRadius(n.Kind)
	if n.Kind != threadmap.Topic {
		return r
	}
	h := p.EstimateLabelSize(n.Label).Height
	return r + max(p.TopicLabelMin, h*p.TopicLabelScale)
}

// footprint is the per-node geometry the pairwise stages need. Labels don't
// change during a run, so it is computed once per call.
type footprint struct {
	radius float64
	half   float64
}

func (p Params) footprints(nodes []threadmap.Node) []footprint {
	fp := make([]footprint, len(nodes))
	for i, n := range nodes {
		fp[i] = footprint{
			radius: p.Radius(n),
			half:   p.EstimateLabelSize(n.Label).HalfExtent(),
		}
	}
	return fp
}

// separation is the minimum center distance required between two nodes.
func (p Params) separation(a, b footprint) float64 {
	return max(a.radius+b.radius+p.RadiusGap, a.half+b.half+p.LabelGap)
}

// Separation returns the minimum center distance the collision stage
// enforces between a and b.
func (p Params) Separation(a, b threadmap.Node) float64 {
	fp := p.footprints([]threadmap.Node{a, b})
	return p.separation(fp[0], fp[1])
}

// ClusterBand returns the allowed distance range between a concept and a
// parent node.
func (p Params) ClusterBand(parent threadmap.Node) (minD, maxD float64) {
	base := p.Radius(parent) + p.ConceptRadius
	return base + p.ClusterGap, base + p.ClusterOffset
}
