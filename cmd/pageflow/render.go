package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/pageflow/internal/presentation/tui"
	"github.com/aretw0/pageflow/pkg/conversation"
	"github.com/aretw0/pageflow/pkg/domain"
	"github.com/aretw0/pageflow/pkg/runner"
)

var renderCmd = &cobra.Command{
	Use:   "render <page>",
	Short: "Render a page for a user context",
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
		uctx, err := contextFlag(cmd)
		if err != nil {
			return err
		}

		pres, renderErr := eng.Render(cmd.Context(), args[0], uctx)
		if renderErr != nil {
			a.logger.Warn("rendered fallback", "page", args[0], "err", renderErr)
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			return printJSON(cmd, pres)
		}
		f := &runner.ConsoleFormatter{}
		text := f.Format(conversation.Reply{Page: args[0], Presentation: &pres})
		if runner.IsTerminal(cmd.OutOrStdout()) {
			if rendered, err := tui.NewRenderer()(text); err == nil {
				text = rendered
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

var selectCmd = &cobra.Command{
	Use:   "select <page> <selection-id>",
	Short: "Resolve a selection and print the outcome",
	Args:  cobra.ExactArgs(2),
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
		uctx, err := contextFlag(cmd)
		if err != nil {
			return err
		}

		return printJSON(cmd, eng.Select(cmd.Context(), args[0], args[1], uctx))
	},
}

func contextFlag(cmd *cobra.Command) (domain.UserContext, error) {
	raw, _ := cmd.Flags().GetString("context")
	uctx := domain.UserContext{}
	if raw == "" {
		return uctx, nil
	}
	if err := json.Unmarshal([]byte(raw), &uctx); err != nil {
		return nil, fmt.Errorf("invalid --context: %w", err)
	}
	return uctx, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(selectCmd)

	renderCmd.Flags().String("context", "", `User context as JSON, e.g. {"patient_name":"Ana"}`)
	renderCmd.Flags().Bool("json", false, "Print the presentation as JSON")
	selectCmd.Flags().String("context", "", "User context as JSON")
}
