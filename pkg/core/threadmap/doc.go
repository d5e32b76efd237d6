// Package threadmap defines the data model of a thread map: a concept graph
// of topics and concepts connected by relationships.
//
// # Model
//
// A [Node] is either a [Topic] or a [Concept]. Concepts may name a parent
// topic through ParentID; topics never have one. An [Edge] relates two nodes.
// Neither parent references nor edge endpoints are required to resolve: a
// snapshot taken while the host is mid-edit may contain dangling references,
// and every consumer in this module ignores them.
//
// # Graph
//
// [Graph] is a transient, ordered snapshot. The host owns the lifecycle of
// nodes and edges; the layout engine only repositions. Order matters because
// the collision pass visits pairs in input order.
//
//	g := threadmap.New()
//	_ = g.AddNode(threadmap.Node{ID: "t1", Kind: threadmap.Topic, Label: "Linear Algebra"})
//	_ = g.AddNode(threadmap.Node{ID: "c1", ParentID: "t1", Label: "Eigenvalues"})
//	_ = g.AddEdge(threadmap.Edge{ID: "e1", SourceID: "t1", TargetID: "c1"})
package threadmap
