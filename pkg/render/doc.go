// Package render provides output rendering for laid-out thread maps.
//
// # Overview
//
// The engine only produces positions. This package turns a positioned
// [graph.Layout] into pictures:
//
//   - Generic format conversion (SVG to PDF/PNG)
//   - Node-link drawings with pinned positions (in [nodelink] subpackage)
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg). When the tool is missing
// they fail with ErrCodeRendererUnavailable.
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// [graph.Layout]: github.com/matzehuels/threadmap/pkg/graph#Layout
// [nodelink]: github.com/matzehuels/threadmap/pkg/render/nodelink
package render
