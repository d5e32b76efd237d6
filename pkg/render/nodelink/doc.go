// Package nodelink draws laid-out thread maps as node-link diagrams.
//
// # Overview
//
// Positions come from the layout engine; Graphviz only draws. [ToDOT] pins
// every node with pos="x,y!" and selects neato, which honors pinned
// positions, so the picture matches the layout exactly.
//
// # Usage
//
//	dot := nodelink.ToDOT(l, nodelink.Options{Edges: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output, use [Render]:
//
//	png, err := nodelink.Render(ctx, l, "png", 2.0, nodelink.Options{})
//
// # Shapes
//
// Topics are circles at the topic base radius with their name in a pinned
// plaintext node below. Concepts are smaller circles with the label inside.
// Labels wrap the same way the engine estimates them. No colors are
// computed; styling is left to the host.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
