package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"objreloc/internal/callgraph"
)

func newGraphCmd() *cobra.Command {
	graphCmd := &cobra.Command{
		Use:   "graph [files...]",
		Short: "Write the relocation call graph as DOT",
		Long: `Graph loads the object files and writes a Graphviz DOT graph with one node
per function and one edge per relocation target.`,
		Example: `
# Render the call graph of two objects
objreloc graph a.o b.o -o calls.dot
  `,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, args)
			if err != nil {
				return err
			}
			defer s.Close()

			title, _ := cmd.Flags().GetString("title")
			dot := callgraph.DOT(s.repo, title)

			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), dot)
				return nil
			}
			if err := os.WriteFile(output, []byte(dot), 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			g := callgraph.Build(s.repo)
			s.logger.Info("Wrote call graph", "file", output, "nodes", len(g.Nodes), "edges", len(g.Edges))
			return nil
		},
	}
	graphCmd.Flags().StringP("output", "o", "", "Write DOT to file instead of stdout")
	graphCmd.Flags().String("title", "callgraph", "Graph title")
	return graphCmd
}
