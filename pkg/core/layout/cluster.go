package layout

import (
	"slices"

	"github.com/matzehuels/threadmap/pkg/core/geom"
	"github.com/matzehuels/threadmap/pkg/core/threadmap"
)

// fallbackDir is used when a concept sits exactly on its parent.
var fallbackDir = geom.Vec(1, 0)

// ClusterAroundParents keeps concepts inside their parent's band with the
// default parameters. See [Params.ClusterAroundParents].
func ClusterAroundParents(nodes []threadmap.Node) []threadmap.Node {
	out, _ := DefaultParams().ClusterAroundParents(nodes)
	return out
}

// ClusterAroundParents moves every concept whose ParentID resolves to a node
// in nodes back into the band returned by [Params.ClusterBand], keeping the
// direction from parent to concept. Concepts already inside the band, nodes
// without a parent and nodes with a dangling parent are left alone. A concept
// exactly on its parent is pushed out along +x.
//
// A parent that is itself a clustered concept is settled before its
// children, so children are measured against the parent's final position.
// Parent cycles are cut where they are first revisited. The second return
// value counts the concepts moved.
func (p Params) ClusterAroundParents(nodes []threadmap.Node) ([]threadmap.Node, int) {
	c := clusterer{
		p:     p,
		out:   slices.Clone(nodes),
		idx:   threadmap.Index(nodes),
		state: make([]uint8, len(nodes)),
	}
	for i := range c.out {
		c.visit(i)
	}
	return c.out, c.clamped
}

const (
	unvisited uint8 = iota
	visiting
	settled
)

type clusterer struct {
	p       Params
	out     []threadmap.Node
	idx     map[string]int
	state   []uint8
	clamped int
}

func (c *clusterer) visit(i int) {
	if c.state[i] != unvisited {
		return
	}
	c.state[i] = visiting
	defer func() { c.state[i] = settled }()

	n := c.out[i]
	if !n.HasParent() {
		return
	}
	pi, ok := c.idx[n.ParentID]
	if !ok || pi == i {
		return
	}
	c.visit(pi)

	parent := c.out[pi]
	minD, maxD := c.p.ClusterBand(parent)
	delta := n.Position.Sub(parent.Position)
	d := delta.Len()
	if d >= minD-eps && d <= maxD+eps {
		return
	}
	target := geom.Clamp(d, minD, maxD)
	c.out[i].Position = parent.Position.Add(delta.Unit(fallbackDir).Scale(target))
	c.clamped++
}
