package pipeline

import (
	"github.com/matzehuels/threadmap/pkg/core/layout"
	"github.com/matzehuels/threadmap/pkg/graph"
)

// =============================================================================
// Layout Generation
// =============================================================================

// ComputeLayout seeds positions for unplaced nodes and runs the engine over g.
// It returns the layout document and the number of nodes that were seeded.
//
// Node metadata and edge kinds survive the round trip through the core
// model. An unknown locked ID has no effect beyond a warning.
func ComputeLayout(g graph.Graph, opts Options) (graph.Layout, int, error) {
	dec, err := graph.ToThreadmap(g)
	if err != nil {
		return graph.Layout{}, 0, err
	}
	tg := dec.Graph
	params := opts.EngineParams()
	center := opts.CenterPoint()

	if opts.Locked != "" {
		if _, ok := tg.Node(opts.Locked); !ok && opts.Logger != nil {
			opts.Logger.Warn("locked node not found", "id", opts.Locked)
		}
	}

	nodes := tg.Nodes()
	if len(dec.Pending) > 0 {
		nodes = params.Place(nodes, layout.Placement{
			Pending: dec.Pending,
			Drop:    opts.Drop,
			Center:  center,
		})
	}

	res := layout.Run(nodes, tg.Edges(),
		layout.WithLocked(opts.Locked),
		layout.WithCenter(center),
		layout.WithParams(params),
	)
	for _, n := range res.Nodes {
		tg.SetPosition(n.ID, n.Position)
	}

	l := graph.NewLayout(tg, params, center, opts.Locked, res.Stats)
	l.Annotate(g)
	return l, len(dec.Pending), nil
}
