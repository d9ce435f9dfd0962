package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/pageflow/internal/compiler"
)

var pagesCmd = &cobra.Command{
	Use:   "pages",
	Short: "Inspect the pages of the catalog",
}

var pagesListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the pages",
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

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "PAGE\tKIND\tTRANSITIONS\tVALID")
		for _, name := range eng.ListPages() {
			d, err := eng.Describe(name)
			if err != nil {
				continue
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%t\n", d.Name, d.Kind, d.TransitionCount, d.Valid)
		}
		return tw.Flush()
	},
}

var pagesShowCmd = &cobra.Command{
	Use:   "show <page>",
	Short: "Print a page in its YAML file format",
	Args:  cobra.ExactArgs(1),
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
		page, ok := eng.Catalog().Get(args[0])
		if !ok {
			return fmt.Errorf("page %q not found", args[0])
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		if err := enc.Encode(compiler.Decompile(page)); err != nil {
			return err
		}
		return enc.Close()
	},
}

func init() {
	rootCmd.AddCommand(pagesCmd)
	pagesCmd.AddCommand(pagesListCmd)
	pagesCmd.AddCommand(pagesShowCmd)
}
