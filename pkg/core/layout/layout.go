package layout

import (
	"github.com/matzehuels/threadmap/pkg/core/geom"
	"github.com/matzehuels/threadmap/pkg/core/threadmap"
)

// Option configures a layout run.
type Option func(*options)

type options struct {
	locked string
	center geom.Point
	params Params
}

// WithLocked exempts the node with the given ID from being pushed by the
// collision stage. It still pushes others. An empty ID locks nothing.
func WithLocked(id string) Option { return func(o *options) { o.locked = id } }

// WithCenter sets the point the finished layout is centered on. The default
// is the origin.
func WithCenter(c geom.Point) Option { return func(o *options) { o.center = c } }

// WithParams replaces the default engine parameters.
func WithParams(p Params) Option { return func(o *options) { o.params = p } }

func newOptions(opts []Option) options {
	o := options{params: DefaultParams()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Stats summarizes a layout run.
type Stats struct {
	Passes    int         `json:"passes"`
	Converged bool        `json:"converged"`
	Clamped   int         `json:"clamped"`
	Shift     geom.Vector `json:"shift"`
	Moved     int         `json:"moved"`
}

// Result is the output of [Run].
type Result struct {
	Nodes []threadmap.Node
	Stats Stats
}

// Layout positions nodes and returns them in input order. Edges are accepted
// for the host's convenience but no stage consults them.
func Layout(nodes []threadmap.Node, edges []threadmap.Edge, opts ...Option) []threadmap.Node {
	return Run(nodes, edges, opts...).Nodes
}

// Run resolves collisions, clusters concepts around their parents, and
// recenters, strictly in that order. The result is a pure function of the
// input order, positions, kinds, parents and labels.
func Run(nodes []threadmap.Node, _ []threadmap.Edge, opts ...Option) Result {
	o := newOptions(opts)
	p := o.params

	out, cs := p.ResolveCollisions(nodes, o.locked)
	out, clamped := p.ClusterAroundParents(out)
	out, shift := p.Recenter(out, o.center)

	moved := 0
	for i := range out {
		if out[i].Position != nodes[i].Position {
			moved++
		}
	}

	return Result{
		Nodes: out,
		Stats: Stats{
			Passes:    cs.Passes,
			Converged: cs.Converged,
			Clamped:   clamped,
			Shift:     shift,
			Moved:     moved,
		},
	}
}

// Apply lays out g in place with the given options and returns the run
// stats.
func Apply(g *threadmap.Graph, opts ...Option) Stats {
	res := Run(g.Nodes(), g.Edges(), opts...)
	for _, n := range res.Nodes {
		g.SetPosition(n.ID, n.Position)
	}
	return res.Stats
}
