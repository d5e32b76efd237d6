package pipeline

import (
	"github.com/matzehuels/threadmap/pkg/core/geom"
	"github.com/matzehuels/threadmap/pkg/core/layout"
	"github.com/matzehuels/threadmap/pkg/core/threadmap"
	"github.com/matzehuels/threadmap/pkg/graph"
)

// Inspect measures how well g satisfies the layout constraints without
// moving anything. Nodes without a position are left out of the geometry.
func Inspect(g graph.Graph, opts Options) (layout.Report, error) {
	nodes, edges, err := placedNodes(g)
	if err != nil {
		return layout.Report{}, err
	}
	return opts.EngineParams().Inspect(nodes, edges, opts.CenterPoint()), nil
}

// Probe reports whether pt is free for dropping a new node into g.
func Probe(g graph.Graph, pt geom.Point, opts Options) (layout.ProbeResult, error) {
	nodes, _, err := placedNodes(g)
	if err != nil {
		return layout.ProbeResult{}, err
	}
	return opts.EngineParams().Probe(nodes, pt), nil
}

func placedNodes(g graph.Graph) ([]threadmap.Node, []threadmap.Edge, error) {
	dec, err := graph.ToThreadmap(g)
	if err != nil {
		return nil, nil, err
	}
	pending := make(map[string]bool, len(dec.Pending))
	for _, id := range dec.Pending {
		pending[id] = true
	}
	all := dec.Graph.Nodes()
	nodes := make([]threadmap.Node, 0, len(all))
	for _, n := range all {
		if !pending[n.ID] {
			nodes = append(nodes, n)
		}
	}
	return nodes, dec.Graph.Edges(), nil
}
