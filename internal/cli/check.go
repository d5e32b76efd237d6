package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/threadmap/pkg/core/geom"
	"github.com/matzehuels/threadmap/pkg/core/layout"
	"github.com/matzehuels/threadmap/pkg/graph"
	"github.com/matzehuels/threadmap/pkg/pipeline"
)

// checkCommand creates the check command.
func (c *CLI) checkCommand() *cobra.Command {
	var (
		center  string
		asJSON  bool
		maxRows int
	)

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Report overlaps, cluster violations and centroid drift",
		Long: `Check a graph or layout document against the layout constraints without
moving anything. Exits non-zero when any pair of nodes overlaps, a concept sits
outside its topic's band, or the map is off center.

Layout documents are checked around their recorded center; graphs around
--center.`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeGraphFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.baseOptions()
			g, recorded, err := readCheckInput(args[0])
			if err != nil {
				return err
			}
			opts.Center = recorded
			if center != "" {
				if opts.Center, err = parsePoint(center); err != nil {
					return err
				}
			}

			report, err := pipeline.Inspect(g, opts)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				printReport(args[0], report, maxRows)
			}
			if !report.OK() {
				return fmt.Errorf("%s: %d overlap(s), %d cluster violation(s), centered=%t",
					args[0], len(report.Overlaps), len(report.ClusterViolations), report.Centered)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&center, "center", "", "canvas center as x,y (default: recorded center or 0,0)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	cmd.Flags().IntVar(&maxRows, "max", 10, "list at most this many problems of each kind")

	return cmd
}

// readCheckInput reads a graph, or a layout document together with the
// center it was laid out around.
func readCheckInput(path string) (graph.Graph, *geom.Point, error) {
	if !isLayoutFile(path) {
		g, err := graph.ReadGraphFile(path)
		return g, nil, err
	}
	l, err := graph.ReadLayoutFile(path)
	if err != nil {
		return graph.Graph{}, nil, err
	}
	center := l.Center
	return l.Graph(), &center, nil
}

func printReport(path string, r layout.Report, maxRows int) {
	if r.OK() {
		printSuccess("%s satisfies every layout constraint", path)
	} else {
		printError("%s violates layout constraints", path)
	}

	printKeyValue("overlaps", fmt.Sprint(len(r.Overlaps)))
	for i, o := range r.Overlaps {
		if i == maxRows {
			printDetail("… %d more", len(r.Overlaps)-maxRows)
			break
		}
		printDetail("%s ↔ %s  %.1f < %.1f", o.A, o.B, o.Distance, o.Required)
	}

	printKeyValue("clusters", fmt.Sprint(len(r.ClusterViolations)))
	for i, v := range r.ClusterViolations {
		if i == maxRows {
			printDetail("… %d more", len(r.ClusterViolations)-maxRows)
			break
		}
		printDetail("%s from %s  %.1f outside [%.1f, %.1f]", v.ID, v.ParentID, v.Distance, v.Min, v.Max)
	}

	printKeyValue("drift", fmt.Sprintf("%.2f, %.2f", r.Drift.X, r.Drift.Y))
	if len(r.DanglingParents) > 0 {
		printWarning("unknown parents for %d node(s): %v", len(r.DanglingParents), r.DanglingParents)
	}
	if len(r.DanglingEdges) > 0 {
		printWarning("%d edge(s) reference unknown nodes: %v", len(r.DanglingEdges), r.DanglingEdges)
	}
}
