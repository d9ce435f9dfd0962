// Package registry maps function and flow names used by transitions to host handlers.
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/elliotchance/pie/v2"

	"github.com/aretw0/pageflow/pkg/domain"
)

// Call is what a handler receives when a transition targets it.
type Call struct {
	Name      string
	Params    map[string]any
	SessionID string
	// Context is a copy of the session context after SetParameters were merged.
	Context domain.UserContext
}

// Result tells the conversation where to continue after a handler ran.
type Result struct {
	// NextPage is rendered after the handler. Empty keeps the action pending for the channel.
	NextPage string
	// SetParameters are merged into the session context.
	SetParameters map[string]any
	// Messages are shown before the next page.
	Messages []string
}

// Handler implements a backend function or an external flow.
type Handler func(ctx context.Context, call Call) (Result, error)

// Registry manages the available handlers. Safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	functions map[string]Handler
	flows     map[string]Handler
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		functions: make(map[string]Handler),
		flows:     make(map[string]Handler),
	}
}

// RegisterFunction adds a function handler. An existing one with the same name is overwritten.
func (r *Registry) RegisterFunction(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.functions[name] = h
}

// RegisterFlow adds a flow handler. An existing one with the same name is overwritten.
func (r *Registry) RegisterFlow(name string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flows[name] = h
}

// Lookup returns the handler for a resolved action, if one is registered.
func (r *Registry) Lookup(action domain.Action) (Handler, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	var h Handler
	var ok bool
	switch action.Kind {
	case domain.ActionInvokeFunction:
		h, ok = r.functions[action.Target]
	case domain.ActionNavigateFlow:
		h, ok = r.flows[action.Target]
	}
	return h, ok
}

// Execute runs the handler registered for the action.
// Returns an error if none is registered.
func (r *Registry) Execute(ctx context.Context, action domain.Action, call Call) (Result, error) {
	h, ok := r.Lookup(action)
	if !ok {
		return Result{}, fmt.Errorf("no handler registered for %s %q", action.Kind, action.Target)
	}
	call.Name = action.Target
	if call.Params == nil {
		call.Params = domain.CloneMap(action.Params)
	}
	return h(ctx, call)
}

// Functions returns the registered function names, sorted.
func (r *Registry) Functions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return pie.Sort(pie.Keys(r.functions))
}

// Flows returns the registered flow names, sorted.
func (r *Registry) Flows() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return pie.Sort(pie.Keys(r.flows))
}
