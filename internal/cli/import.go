package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/threadmap/pkg/errors"
	"github.com/matzehuels/threadmap/pkg/graph"
)

// importCommand creates the import command.
func (c *CLI) importCommand() *cobra.Command {
	var (
		output string
		module string
	)

	cmd := &cobra.Command{
		Use:   "import [nodes.json] [relationships.json]",
		Short: "Build a graph from exported node and relationship records",
		Long: `Build a graph from exported node and relationship records.

nodes.json is an array of {id, type, name, summary, related_topic, module_id}
rows; relationships.json, when given, an array of {id, first_node, second_node,
rs_type} rows. IDs may be numbers or strings. Records with type "topic" become
topics, everything else concepts. Relationships with a missing endpoint are
dropped. Imported nodes have no position; 'layout' seeds them.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := readRecords(args[0], graph.ReadNodeRecords)
			if err != nil {
				return err
			}
			var rels []graph.RelationshipRecord
			if len(args) == 2 {
				if rels, err = readRecords(args[1], graph.ReadRelationshipRecords); err != nil {
					return err
				}
			}

			g, st, err := graph.ImportRecords(nodes, rels, module)
			if err != nil {
				return err
			}
			if output == "" {
				output = "graph.json"
			}
			if err := graph.WriteGraphFile(g, output); err != nil {
				return fmt.Errorf("write output %s: %w", output, err)
			}

			printSuccess("Imported %d nodes, %d edges", st.Nodes, st.Edges)
			printFile(output)
			if st.DroppedEdges > 0 {
				printWarning("dropped %d relationship(s) with a missing endpoint", st.DroppedEdges)
			}
			if st.ClearedParents > 0 {
				printDetail("cleared the parent of %d topic(s)", st.ClearedParents)
			}
			if st.DefaultedModule > 0 && module != "" {
				printDetail("assigned module %s to %d node(s)", module, st.DefaultedModule)
			}
			printNewline()
			printNextStep("Lay out", appName+" layout "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output graph file, .json or .yaml (default: graph.json)")
	cmd.Flags().StringVar(&module, "module", "", "module ID for records without one")

	return cmd
}

func readRecords[T any](path string, read func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, err
	}
	defer f.Close()
	recs, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}
