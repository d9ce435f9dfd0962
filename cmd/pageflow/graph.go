package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/pageflow/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the catalog as a Mermaid diagram",
	Long: `Outputs a Mermaid flowchart of the pages and their transitions. With --session,
the pages of a stored session are highlighted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		eng, err := a.engine()
		if err != nil {
			return err
		}

		var overlay *graph.Overlay
		if id, _ := cmd.Flags().GetString("session"); id != "" {
			mgr, err := a.sessions()
			if err != nil {
				return err
			}
			sess, err := mgr.Load(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("session %q: %w", id, err)
			}
			overlay = &graph.Overlay{CurrentPage: sess.Page, VisitedPages: []string{sess.Page}}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(eng.Catalog().Pages(), eng.EntryPage(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Highlight the current page of this session")
}
