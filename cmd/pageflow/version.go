package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/pageflow"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of pageflow",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "pageflow version %s\n", pageflow.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
