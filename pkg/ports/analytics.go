package ports

import (
	"context"

	"github.com/aretw0/pageflow/pkg/domain"
)

// AnalyticsSink receives events emitted by transitions.
// Delivery is fire-and-forget from the conversation's point of view: errors are logged, not surfaced.
type AnalyticsSink interface {
	Emit(ctx context.Context, event domain.AnalyticsEvent) error
}

// Escalator takes over when a selection could not be resolved.
// It returns the messages to show the user; an empty result lets the caller apply its default.
type Escalator interface {
	Escalate(ctx context.Context, session *domain.Session, outcome domain.Outcome) ([]string, error)
}
