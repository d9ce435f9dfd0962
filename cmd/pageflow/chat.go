package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/aretw0/pageflow/internal/presentation/tui"
	"github.com/aretw0/pageflow/pkg/runner"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the catalog in the terminal",
	Long: `Runs a conversation on stdin/stdout. Answer with the number, id or title of an
option. /menu goes back to the entry page, /restart clears the session and exit quits.

With --json, each reply is printed as one JSON line and input lines may be
{"selection_id": "..."} objects.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		svc, err := a.conversation()
		if err != nil {
			return err
		}

		sessionID, _ := cmd.Flags().GetString("session")
		page, _ := cmd.Flags().GetString("page")
		jsonMode, _ := cmd.Flags().GetBool("json")

		opts := []runner.Option{
			runner.WithLogger(a.logger),
			runner.WithSessionID(sessionID),
			runner.WithStartPage(page),
		}
		if jsonMode {
			opts = append(opts, runner.WithInputHandler(runner.NewJSONHandler(os.Stdin, os.Stdout)))
		} else if runner.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return runner.NewRunner(opts...).Run(ctx, svc)
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().String("session", runner.DefaultSessionID, "Session id, reused across runs with a persistent store")
	chatCmd.Flags().String("page", "", "Start at this page instead of resuming")
	chatCmd.Flags().Bool("json", false, "NDJSON input and output")

	rootCmd.RunE = chatCmd.RunE
	rootCmd.Flags().AddFlagSet(chatCmd.Flags())
}
