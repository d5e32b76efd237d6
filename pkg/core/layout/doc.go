// Package layout positions the nodes of a thread map.
//
// # Overview
//
// The engine is a pure, synchronous function of a node snapshot. It never
// creates or removes nodes; it only returns new positions. A run applies
// three stages in fixed order:
//
//  1. [Params.ResolveCollisions]: bounded pairwise relaxation so no two
//     nodes overlap. A locked node (the one being dragged) is never pushed
//     but still pushes others.
//  2. [Params.ClusterAroundParents]: concepts are pulled or pushed into an
//     annulus around their parent, keeping their angle.
//  3. [Params.Recenter]: the whole graph is translated so its centroid is the
//     requested center.
//
// # Geometry
//
// Every node has a layout radius ([Params.Radius]): its kind's base radius,
// plus label clearance for topics, since topics render their name beneath
// the circle. Labels are sized by [Params.EstimateLabelSize], a character
// count estimate that needs no font metrics.
//
// Two nodes must be at least max(rA+rB+RadiusGap, hA+hB+LabelGap) apart,
// where h is half the larger side of the label footprint.
//
// # Determinism
//
// The only tie-breaking rule is the jitter for exactly coincident pairs,
// which depends solely on input order. The same input always yields the same
// output.
//
// # Usage
//
//	out := layout.Layout(nodes, edges, layout.WithLocked(draggedID))
//
// [Run] additionally returns [Stats]. [Params.Place] seeds positions for new
// nodes, [Params.Probe] answers "is this point free" and [Params.Inspect]
// reports any remaining constraint violations.
package layout
