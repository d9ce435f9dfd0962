package domain

// OutcomeKind tells whether a selection could be resolved deterministically.
type OutcomeKind string

const (
	OutcomeResolved   OutcomeKind = "resolved"
	OutcomeUnresolved OutcomeKind = "unresolved"
)

// UnresolvedReason explains why a selection was not resolved.
type UnresolvedReason string

const (
	ReasonUnknownSelection    UnresolvedReason = "unknown_selection"
	ReasonPageNotFound        UnresolvedReason = "page_not_found"
	ReasonMalformedTransition UnresolvedReason = "malformed_transition"
)

// ActionKind is the primary side effect of a resolved selection.
type ActionKind string

const (
	ActionNavigatePage   ActionKind = "navigate_page"
	ActionNavigateFlow   ActionKind = "navigate_flow"
	ActionInvokeFunction ActionKind = "invoke_function"
)

// Action is the single primary action carried by a resolved outcome.
type Action struct {
	Kind   ActionKind     `json:"kind"`
	Target string         `json:"target"`
	Params map[string]any `json:"params,omitempty"`
}

// NavigatePage builds a page navigation action.
func NavigatePage(name string) Action {
	return Action{Kind: ActionNavigatePage, Target: name}
}

// NavigateFlow builds a sub-flow hand-off action.
func NavigateFlow(name string) Action {
	return Action{Kind: ActionNavigateFlow, Target: name}
}

// InvokeFunction builds a backend function call action.
func InvokeFunction(name string, params map[string]any) Action {
	return Action{Kind: ActionInvokeFunction, Target: name, Params: CloneMap(params)}
}

// AnalyticsEvent is emitted when a transition declares an event log entry.
type AnalyticsEvent struct {
	Name        string `json:"event"`
	Page        string `json:"page"`
	SelectionID string `json:"selection_id"`
	SessionID   string `json:"session_id,omitempty"`
}

// Outcome is the result of resolving a selection on a page.
type Outcome struct {
	Kind        OutcomeKind `json:"kind"`
	Page        string      `json:"page,omitempty"`
	SelectionID string      `json:"selection_id,omitempty"`

	// Resolved fields.
	Action          *Action         `json:"action,omitempty"`
	SetParameters   map[string]any  `json:"set_parameters,omitempty"`
	Event           *AnalyticsEvent `json:"event,omitempty"`
	LiteralMessages []string        `json:"literal_messages,omitempty"`

	// Reason is set on unresolved outcomes only.
	Reason UnresolvedReason `json:"reason,omitempty"`
}

// Resolved reports whether the outcome carries an action.
func (o Outcome) Resolved() bool {
	return o.Kind == OutcomeResolved
}

// Unresolved builds an escalation outcome.
func Unresolved(reason UnresolvedReason, page, selectionID string) Outcome {
	return Outcome{
		Kind:        OutcomeUnresolved,
		Reason:      reason,
		Page:        page,
		SelectionID: selectionID,
	}
}
