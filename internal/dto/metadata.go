package dto

import (
	"github.com/aretw0/pageflow/pkg/domain"
)

// PageMetadata is the serialized shape of a page, as written in YAML, JSON or frontmatter.
// It uses "mapstructure" tags so loose mappings decode into it directly.
type PageMetadata struct {
	Name string `json:"name" yaml:"name" mapstructure:"name"`
	// ID is accepted as an alias of Name (Loam documents carry one).
	ID string `json:"id,omitempty" yaml:"id,omitempty" mapstructure:"id"`

	// MessageType selects the presentation: interactive_list, button or text.
	MessageType string `json:"message_type" yaml:"message_type" mapstructure:"message_type"`

	Header      string           `json:"header,omitempty" yaml:"header,omitempty" mapstructure:"header"`
	Body        string           `json:"body,omitempty" yaml:"body,omitempty" mapstructure:"body"`
	Text        string           `json:"text,omitempty" yaml:"text,omitempty" mapstructure:"text"`
	ActionLabel string           `json:"action_label,omitempty" yaml:"action_label,omitempty" mapstructure:"action_label"`
	Sections    []domain.Section `json:"sections,omitempty" yaml:"sections,omitempty" mapstructure:"sections"`
	Buttons     []domain.Button  `json:"buttons,omitempty" yaml:"buttons,omitempty" mapstructure:"buttons"`

	Placeholders map[string]string             `json:"placeholders,omitempty" yaml:"placeholders,omitempty" mapstructure:"placeholders"`
	Transitions  map[string]TransitionMetadata `json:"transitions,omitempty" yaml:"transitions,omitempty" mapstructure:"transitions"`
}

// TransitionMetadata is the serialized shape of a transition.
// Several targets may be present in malformed data; validation reports it.
type TransitionMetadata struct {
	TargetPage      string                `json:"target_page,omitempty" yaml:"target_page,omitempty" mapstructure:"target_page"`
	TargetFlow      string                `json:"target_flow,omitempty" yaml:"target_flow,omitempty" mapstructure:"target_flow"`
	FunctionCall    *FunctionCallMetadata `json:"function_call,omitempty" yaml:"function_call,omitempty" mapstructure:"function_call"`
	SetParameters   map[string]any        `json:"set_parameters,omitempty" yaml:"set_parameters,omitempty" mapstructure:"set_parameters"`
	EventLog        string                `json:"event_log,omitempty" yaml:"event_log,omitempty" mapstructure:"event_log"`
	LiteralMessages []string              `json:"literal_messages,omitempty" yaml:"literal_messages,omitempty" mapstructure:"literal_messages"`
}

// FunctionCallMetadata is the serialized shape of a function call target.
type FunctionCallMetadata struct {
	Name   string         `json:"name" yaml:"name" mapstructure:"name"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
}
