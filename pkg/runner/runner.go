package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/pageflow/internal/logging"
	"github.com/aretw0/pageflow/pkg/conversation"
)

// Commands understood by the runner itself.
const (
	CommandRestart = "/restart"
	CommandMenu    = "/menu"
)

// Runner handles the chat loop of a conversation using the provided IO.
// This allows for easy testing and integration with different frontends (CLI, TUI, etc).
type Runner struct {
	// Handler is the strategy for IO. Defaults to a console on Stdin/Stdout.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	SessionID string
	StartPage string
}

// NewRunner creates a new Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger:    logging.NewNop(),
		SessionID: DefaultSessionID,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewConsole(os.Stdin, os.Stdout)
	}
	return r
}

// Run shows the current page and then loops reading selections until the input
// ends, the user types exit or quit, or ctx is cancelled.
func (r *Runner) Run(ctx context.Context, svc Service) error {
	reply, err := svc.Enter(ctx, r.SessionID, r.StartPage)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	if err := r.show(ctx, svc, reply); err != nil {
		return err
	}

	for {
		input, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		switch strings.ToLower(input) {
		case "":
			continue
		case "exit", "quit":
			return nil
		case CommandRestart:
			if err := svc.Reset(ctx, r.SessionID); err != nil {
				return fmt.Errorf("failed to reset session: %w", err)
			}
			reply, err = svc.Enter(ctx, r.SessionID, "")
		case CommandMenu:
			reply, err = svc.Enter(ctx, r.SessionID, "")
		default:
			reply, err = svc.Handle(ctx, r.SessionID, conversation.Event{SelectionID: input})
		}
		if err != nil {
			// Handler failures leave the session as it was; let the user retry.
			r.Logger.Error("selection failed", "session_id", r.SessionID, "selection_id", input, "err", err)
			if serr := r.Handler.SystemOutput(ctx, fmt.Sprintf("Error: %v. Please try again.", err)); serr != nil {
				return serr
			}
			continue
		}

		if err := r.show(ctx, svc, reply); err != nil {
			return err
		}
	}
}

func (r *Runner) show(ctx context.Context, svc Service, reply conversation.Reply) error {
	if err := r.Handler.Output(ctx, reply); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	if reply.Pending == nil {
		return nil
	}

	r.Logger.Debug("pending action", "session_id", r.SessionID, "kind", reply.Pending.Kind, "target", reply.Pending.Target)
	msg := fmt.Sprintf("No handler for %s %q, staying on %s.", reply.Pending.Kind, reply.Pending.Target, reply.Page)
	if err := r.Handler.SystemOutput(ctx, msg); err != nil {
		return err
	}

	// The console has nobody to hand off to: show the page again.
	again, err := svc.Enter(ctx, r.SessionID, "")
	if err != nil {
		return err
	}
	return r.Handler.Output(ctx, again)
}
