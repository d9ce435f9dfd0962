package runtime

import "github.com/aretw0/pageflow/pkg/domain"

// Texts are the localized strings the engine needs outside of page content.
type Texts struct {
	// FallbackText is shown when a page cannot be rendered.
	FallbackText string
	// UnresolvedText is shown when a selection could not be understood.
	UnresolvedText string
	// DefaultActionLabel is used by lists that declare no action label.
	DefaultActionLabel string
	// Defaults are catalog-wide placeholder defaults, overridden per page.
	Defaults map[string]string
}

// DefaultTexts returns the built-in English texts.
func DefaultTexts() Texts {
	return Texts{
		FallbackText:       "Sorry, something went wrong on our side. Let's start over from the main menu.",
		UnresolvedText:     "Sorry, I didn't understand that option. Please choose one of the options below.",
		DefaultActionLabel: "Options",
		Defaults: map[string]string{
			domain.PlaceholderPatientName: "patient",
		},
	}
}

// WithDefaults returns a copy of t whose Defaults also contain extra.
// Keys in extra win over existing ones.
func (t Texts) WithDefaults(extra map[string]string) Texts {
	merged := make(map[string]string, len(t.Defaults)+len(extra))
	for k, v := range t.Defaults {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	t.Defaults = merged
	return t
}

// FillFrom returns a copy of t where empty strings are taken from base and
// base.Defaults sit underneath t.Defaults.
func (t Texts) FillFrom(base Texts) Texts {
	if t.FallbackText == "" {
		t.FallbackText = base.FallbackText
	}
	if t.UnresolvedText == "" {
		t.UnresolvedText = base.UnresolvedText
	}
	if t.DefaultActionLabel == "" {
		t.DefaultActionLabel = base.DefaultActionLabel
	}
	t.Defaults = base.WithDefaults(t.Defaults).Defaults
	return t
}
