package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/threadmap/pkg/graph"
	"github.com/matzehuels/threadmap/pkg/pipeline"
)

// renderFlags holds the command-line flags for the render command.
type renderFlags struct {
	output  string  // output file (single format) or base path
	formats string  // comma-separated output formats
	scale   float64 // PNG scale factor
	edges   bool    // draw relationship edges
	refresh bool    // skip cache reads
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a layout to SVG, PNG, PDF or JSON",
		Long: `Render a layout document produced by 'layout' to SVG, PNG, PDF or JSON.

Topics are drawn as large circles with the label below, concepts as smaller
circles with the label inside. PNG and PDF need rsvg-convert on PATH.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().Float64Var(&f.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&f.edges, "edges", false, "draw relationship edges")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

// runRender reads the layout at input and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, f renderFlags) error {
	opts := c.baseOptions()
	opts.Formats = parseFormats(f.formats)
	opts.Scale = f.scale
	opts.Edges = f.edges
	opts.Refresh = f.refresh
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spin := startSpinner(ctx, "Rendering", 0)
	artifacts, cached, err := runner.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		spin.fail("Render failed")
		return err
	}
	spin.stop()

	paths := outputPaths(input, f.output, opts.Formats)
	for _, format := range opts.Formats {
		if err := os.WriteFile(paths[format], artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[format], err)
		}
	}

	printSuccess("Rendered %s", input)
	for _, format := range opts.Formats {
		printFile(paths[format])
	}
	printStats(len(l.Nodes), len(l.Edges), l.Stats, cached)
	return nil
}

// outputPaths maps each format to its output file. A single format with an
// explicit output uses it verbatim. Otherwise output, minus any format
// extension, is a base path; without output the input's name is used and
// JSON becomes <name>.render.json so the source graph is never overwritten.
func outputPaths(input, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 {
		paths[formats[0]] = output
		return paths
	}
	for _, f := range formats {
		switch {
		case output != "":
			base := output
			if ext := filepath.Ext(output); pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
				base = strings.TrimSuffix(output, ext)
			}
			paths[f] = base + "." + f
		case f == pipeline.FormatJSON:
			paths[f] = withExt(input, "render.json")
		default:
			paths[f] = withExt(input, f)
		}
	}
	return paths
}
