package runner

import (
	"context"

	"github.com/aretw0/pageflow/pkg/conversation"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents a reply to the user.
	Output(ctx context.Context, reply conversation.Reply) error

	// Input reads the next selection. Handlers may translate what the user
	// typed (e.g. an option number) into the selection id.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message to the user (e.g. a hand-off notice).
	// This is distinct from content rendering.
	SystemOutput(ctx context.Context, msg string) error
}

// Service is the part of *conversation.Service the runner drives.
type Service interface {
	Enter(ctx context.Context, sessionID, page string) (conversation.Reply, error)
	Handle(ctx context.Context, sessionID string, ev conversation.Event) (conversation.Reply, error)
	Reset(ctx context.Context, sessionID string) error
}

var _ Service = (*conversation.Service)(nil)
