package domain

// TargetKind names the kind of destination a transition points at.
type TargetKind string

const (
	TargetPage     TargetKind = "page"
	TargetFlow     TargetKind = "flow"
	TargetFunction TargetKind = "function"
)

// FunctionCall names a backend operation and its parameters.
type FunctionCall struct {
	Name   string         `json:"name" yaml:"name" mapstructure:"name"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
}

// Transition describes what happens when a selection id is chosen.
// Exactly one of TargetPage, TargetFlow and FunctionCall is expected to be set;
// use ToPage, ToFlow or CallFunction to build one.
type Transition struct {
	TargetPage   string
	TargetFlow   string
	FunctionCall *FunctionCall

	// SetParameters are merged into the UserContext by the caller before the next render.
	SetParameters map[string]any
	// EventLog is the analytics event emitted when the transition is taken.
	EventLog string
	// LiteralMessages are surfaced verbatim alongside the next page.
	LiteralMessages []string
}

// ToPage builds a transition to another page of the same catalog.
func ToPage(name string) Transition {
	return Transition{TargetPage: name}
}

// ToFlow builds a transition that hands control to a named external flow.
func ToFlow(name string) Transition {
	return Transition{TargetFlow: name}
}

// CallFunction builds a transition that invokes a named backend function.
func CallFunction(name string, params map[string]any) Transition {
	return Transition{FunctionCall: &FunctionCall{Name: name, Params: CloneMap(params)}}
}

// WithParameters returns a copy of t that sets the given context values.
func (t Transition) WithParameters(params map[string]any) Transition {
	t.SetParameters = CloneMap(params)
	return t
}

// WithEvent returns a copy of t that emits the named analytics event.
func (t Transition) WithEvent(name string) Transition {
	t.EventLog = name
	return t
}

// WithMessages returns a copy of t carrying literal messages.
func (t Transition) WithMessages(msgs ...string) Transition {
	t.LiteralMessages = append([]string(nil), msgs...)
	return t
}

// TargetKinds lists the populated targets in priority order (page, flow, function).
// A well-formed transition has exactly one. A function call without a name
// is not a target.
func (t Transition) TargetKinds() []TargetKind {
	var kinds []TargetKind
	if t.TargetPage != "" {
		kinds = append(kinds, TargetPage)
	}
	if t.TargetFlow != "" {
		kinds = append(kinds, TargetFlow)
	}
	if t.FunctionCall != nil && t.FunctionCall.Name != "" {
		kinds = append(kinds, TargetFunction)
	}
	return kinds
}

// Clone returns a deep copy of the transition.
func (t Transition) Clone() Transition {
	out := t
	if t.FunctionCall != nil {
		out.FunctionCall = &FunctionCall{Name: t.FunctionCall.Name, Params: CloneMap(t.FunctionCall.Params)}
	}
	out.SetParameters = CloneMap(t.SetParameters)
	if t.LiteralMessages != nil {
		out.LiteralMessages = append([]string(nil), t.LiteralMessages...)
	}
	return out
}
