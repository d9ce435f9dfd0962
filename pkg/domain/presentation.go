package domain

// Presentation is the channel-agnostic rendering of a page.
// Channel adapters translate it into their platform's message format.
type Presentation struct {
	Kind PresentationKind `json:"kind"`
	Page string           `json:"page,omitempty"`

	Header      string    `json:"header,omitempty"`
	Body        string    `json:"body"`
	ActionLabel string    `json:"action_label,omitempty"`
	Sections    []Section `json:"sections,omitempty"`

	// ButtonRows holds buttons partitioned into rows of at most two.
	ButtonRows [][]Button `json:"button_rows,omitempty"`

	// Fallback is set when the requested page could not be rendered.
	Fallback bool `json:"fallback,omitempty"`
	// RestartAt names the page the caller should restart from after a fallback.
	RestartAt string `json:"restart_at,omitempty"`
}
