package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/threadmap/pkg/graph"
	"github.com/matzehuels/threadmap/pkg/render"
	"github.com/matzehuels/threadmap/pkg/render/nodelink"
)

// RenderLayout generates output artifacts in the requested formats.
// Graphviz runs at most once; PNG and PDF are converted from that SVG.
func RenderLayout(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var svg []byte

	for _, format := range opts.Formats {
		if format != FormatJSON && svg == nil {
			var err error
			svg, err = nodelink.RenderSVG(ctx, nodelink.ToDOT(l, nodelink.Options{
				Params: opts.Params,
				Edges:  opts.Edges,
			}))
			if err != nil {
				return nil, fmt.Errorf("render svg: %w", err)
			}
		}

		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = svg
		case FormatPNG:
			data, err = render.ToPNG(ctx, svg, opts.Scale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svg)
		case FormatJSON:
			data, err = graph.MarshalLayout(l, graph.FormatJSON)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderFromLayoutData renders output from serialized layout data, for
// layouts computed elsewhere.
func RenderFromLayoutData(ctx context.Context, data []byte, opts Options) (map[string][]byte, error) {
	l, err := graph.UnmarshalLayout(data, graph.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return RenderLayout(ctx, l, opts)
}
