package domain

import (
	"context"
)

// RenderEvent describes a completed page render.
type RenderEvent struct {
	Page     string           `json:"page"`
	Kind     PresentationKind `json:"kind"`
	Fallback bool             `json:"fallback,omitempty"`
	Err      error            `json:"-"`
}

// SelectEvent describes a resolved or unresolved selection.
type SelectEvent struct {
	Page        string  `json:"page"`
	SelectionID string  `json:"selection_id"`
	Outcome     Outcome `json:"outcome"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously on the calling goroutine and must not block.
type LifecycleHooks struct {
	OnRender     func(context.Context, *RenderEvent)
	OnSelect     func(context.Context, *SelectEvent)
	OnUnresolved func(context.Context, *SelectEvent)
}

// Merge combines two hook sets; both callbacks run, h first.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRender:     chain(h.OnRender, other.OnRender),
		OnSelect:     chain(h.OnSelect, other.OnSelect),
		OnUnresolved: chain(h.OnUnresolved, other.OnUnresolved),
	}
}

func chain[E any](a, b func(context.Context, *E)) func(context.Context, *E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e *E) {
		a(ctx, e)
		b(ctx, e)
	}
}
