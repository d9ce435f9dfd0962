package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/pageflow/internal/presentation/tui"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the catalog for consistency",
	Long: `Loads the catalog and reports dangling targets, ambiguous transitions,
duplicate selection ids and controls without a transition.`,
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

		if n := tui.PrintReport(cmd.OutOrStdout(), len(eng.ListPages()), eng.Report()); n > 0 {
			return fmt.Errorf("validation failed with %d errors", n)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
