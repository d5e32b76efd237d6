package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/threadmap/pkg/errors"
	"github.com/matzehuels/threadmap/pkg/graph"
	"github.com/matzehuels/threadmap/pkg/pipeline"
)

// layoutFlags holds the command-line flags for the layout command.
type layoutFlags struct {
	output  string // output file, single input only
	locked  string // node the engine never moves
	center  string // canvas center as x,y
	drop    string // drop point for the first unpositioned node
	render  string // comma-separated artifact formats written next to the layout
	edges   bool   // draw relationship edges in artifacts
	refresh bool   // skip cache reads
	jobs    int    // concurrent files
	watch   bool   // re-layout on change
	pick    bool   // choose the locked node interactively
}

// fileResult is the outcome of laying out one input file.
type fileResult struct {
	input     string
	output    string
	artifacts []string
	nodes     int
	edges     int
	stats     *graph.Stats
	cached    bool
}

// layoutCommand creates the layout command.
func (c *CLI) layoutCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "layout [files or globs...]",
		Short: "Position the nodes of one or more thread map graphs",
		Long: `Position the nodes of one or more thread map graphs.

Each input graph (JSON or YAML) is laid out and written to <input>.layout.json
unless -o is given. Nodes without a position are seeded first. Arguments may be
globs such as 'maps/**/*.json'; files are processed concurrently.

With --watch the inputs are laid out again every time they change. With --pick
the locked node is chosen from an interactive list.

Results are cached, so laying out an unchanged graph again is instant.`,
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeGraphFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := expandInputs(args)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), inputs, f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: <input>.layout.json, single input only)")
	cmd.Flags().StringVar(&f.locked, "locked", "", "ID of the node that must not move")
	cmd.Flags().StringVar(&f.center, "center", "", "canvas center as x,y (default: 0,0)")
	cmd.Flags().StringVar(&f.drop, "drop", "", "position x,y for the first unpositioned node")
	cmd.Flags().StringVarP(&f.render, "render", "r", "", "also render artifacts: svg, png, pdf (comma-separated)")
	cmd.Flags().BoolVar(&f.edges, "edges", false, "draw relationship edges in rendered artifacts")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", runtime.NumCPU(), "files laid out concurrently")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "lay out again whenever an input changes")
	cmd.Flags().BoolVar(&f.pick, "pick", false, "choose the locked node interactively")

	return cmd
}

// layoutOptions builds pipeline options from the flags.
func (c *CLI) layoutOptions(f layoutFlags) (pipeline.Options, error) {
	opts := c.baseOptions()
	opts.Locked = f.locked
	opts.Edges = f.edges
	opts.Refresh = f.refresh

	var err error
	if opts.Center, err = parsePoint(f.center); err != nil {
		return opts, err
	}
	if opts.Drop, err = parsePoint(f.drop); err != nil {
		return opts, err
	}
	if f.render != "" {
		opts.Formats = parseFormats(f.render)
		if slices.Contains(opts.Formats, pipeline.FormatJSON) {
			return opts, errors.New(errors.ErrCodeInvalidInput, "--render json is redundant: the layout is already JSON")
		}
		if err := pipeline.ValidateFormats(opts.Formats); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// runLayout lays out every input and reports the results in input order.
func (c *CLI) runLayout(ctx context.Context, inputs []string, f layoutFlags) error {
	if f.output != "" && len(inputs) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "-o needs a single input, got %d", len(inputs))
	}
	if f.pick && len(inputs) > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "--pick needs a single input, got %d", len(inputs))
	}
	opts, err := c.layoutOptions(f)
	if err != nil {
		return err
	}

	if f.pick {
		id, err := pickLocked(inputs[0], opts.Locked)
		if err != nil {
			return err
		}
		if id == "" {
			printInfo("No node picked")
			return nil
		}
		opts.Locked = id
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if err := c.layoutAll(ctx, runner, inputs, f.output, f.jobs, opts); err != nil {
		return err
	}
	if f.watch {
		return c.watch(ctx, runner, inputs, f.output, opts)
	}
	return nil
}

// layoutAll lays out inputs concurrently, at most jobs at a time.
func (c *CLI) layoutAll(ctx context.Context, runner *pipeline.Runner, inputs []string, output string, jobs int, opts pipeline.Options) error {
	prog := newProgress(c.Logger)
	spin := startSpinner(ctx, "Laying out", len(inputs))

	results := make([]fileResult, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))
	for i, input := range inputs {
		g.Go(func() error {
			res, err := layoutFile(gctx, runner, input, output, opts)
			if err != nil {
				return err
			}
			results[i] = res
			spin.step()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		spin.fail("Layout failed")
		return err
	}
	spin.stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	for _, res := range results {
		printResult(res)
	}
	if len(inputs) > 1 {
		prog.done(fmt.Sprintf("Laid out %d files", len(inputs)))
	}
	if len(inputs) == 1 && len(opts.Formats) == 0 {
		printNewline()
		printNextStep("Render", appName+" render "+results[0].output)
	}
	return nil
}

// layoutFile lays out one graph file and writes the layout document plus
// any requested artifacts.
func layoutFile(ctx context.Context, runner *pipeline.Runner, input, output string, opts pipeline.Options) (fileResult, error) {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fileResult{}, fmt.Errorf("load graph %s: %w", input, err)
	}
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
	}
	res := fileResult{input: input, output: output, nodes: len(g.Nodes), edges: len(g.Edges)}

	var l graph.Layout
	if len(opts.Formats) == 0 {
		l, res.cached, err = runner.LayoutWithCacheInfo(ctx, g, opts)
		if err != nil {
			return fileResult{}, fmt.Errorf("%s: %w", input, err)
		}
	} else {
		out, err := runner.Execute(ctx, g, opts)
		if err != nil {
			return fileResult{}, fmt.Errorf("%s: %w", input, err)
		}
		l, res.cached = out.Layout, out.CacheInfo.LayoutHit
		for _, format := range opts.Formats {
			path := withExt(output, format)
			if err := os.WriteFile(path, out.Artifacts[format], 0o644); err != nil {
				return fileResult{}, fmt.Errorf("write %s: %w", path, err)
			}
			res.artifacts = append(res.artifacts, path)
		}
	}

	if err := graph.WriteLayoutFile(l, output); err != nil {
		return fileResult{}, fmt.Errorf("write output %s: %w", output, err)
	}
	res.stats = l.Stats
	return res, nil
}

func printResult(res fileResult) {
	printSuccess("Laid out %s", res.input)
	printFile(res.output)
	for _, a := range res.artifacts {
		printFile(a)
	}
	printStats(res.nodes, res.edges, res.stats, res.cached)
}

// expandInputs resolves glob arguments to files. Arguments without glob
// metacharacters are kept as given, so a missing file surfaces as a read
// error naming it. The result is sorted and free of duplicates.
func expandInputs(args []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "glob %q", arg)
		}
		if len(matches) == 0 {
			return nil, errors.New(errors.ErrCodeFileNotFound, "no files match %q", arg)
		}
		for _, m := range matches {
			if !isLayoutFile(m) {
				add(m)
			}
		}
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeFileNotFound, "no graph files among %v", args)
	}
	slices.Sort(out)
	return out, nil
}

// isLayoutFile reports whether path is a layout document written by this
// command, so globs like '*.json' skip earlier outputs.
func isLayoutFile(path string) bool {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.HasSuffix(base, ".layout")
}
