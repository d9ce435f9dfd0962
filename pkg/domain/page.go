package domain

// PresentationKind identifies the shape of a page's content and of its rendered output.
type PresentationKind string

const (
	// KindList is a list-style menu grouped in sections.
	KindList PresentationKind = "list"
	// KindButtons is a grid of reply buttons.
	KindButtons PresentationKind = "buttons"
	// KindText is a plain text message.
	KindText PresentationKind = "text"
)

// Content is the tagged variant describing what a page presents.
// Only the types declared in this package implement it.
type Content interface {
	Kind() PresentationKind
	isContent()
}

// Row is a selectable entry of an interactive list.
type Row struct {
	ID          string `json:"id" yaml:"id" mapstructure:"id"`
	Title       string `json:"title" yaml:"title" mapstructure:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
}

// Section groups rows under a title.
type Section struct {
	Title string `json:"title" yaml:"title" mapstructure:"title"`
	Rows  []Row  `json:"rows" yaml:"rows" mapstructure:"rows"`
}

// Button is a reply button.
type Button struct {
	ID    string `json:"id" yaml:"id" mapstructure:"id"`
	Label string `json:"label" yaml:"label" mapstructure:"label"`
}

// InteractiveList presents sections of rows behind a single action button.
type InteractiveList struct {
	Header      string
	Body        string
	ActionLabel string
	Sections    []Section
}

// ButtonMenu presents a body followed by reply buttons.
type ButtonMenu struct {
	Body    string
	Buttons []Button
}

// PlainText presents a single text message.
type PlainText struct {
	Text string
}

func (InteractiveList) Kind() PresentationKind { return KindList }
func (ButtonMenu) Kind() PresentationKind      { return KindButtons }
func (PlainText) Kind() PresentationKind       { return KindText }

func (InteractiveList) isContent() {}
func (ButtonMenu) isContent()      {}
func (PlainText) isContent()       {}

// Page is a named node in the conversation graph.
type Page struct {
	Name    string
	Content Content

	// Transitions maps a selection id to the transition taken when it is chosen.
	Transitions map[string]Transition

	// Placeholders enumerates the template placeholders the page may use,
	// mapped to the text used when the context has no value for them.
	Placeholders map[string]string
}

// SelectionIDs returns the ids of the visible controls, in display order.
func (p Page) SelectionIDs() []string {
	var ids []string
	switch c := Normalize(p.Content).(type) {
	case InteractiveList:
		for _, s := range c.Sections {
			for _, r := range s.Rows {
				ids = append(ids, r.ID)
			}
		}
	case ButtonMenu:
		for _, b := range c.Buttons {
			ids = append(ids, b.ID)
		}
	}
	return ids
}

// Clone returns a deep copy of the page definition.
func (p Page) Clone() Page {
	out := Page{
		Name:    p.Name,
		Content: cloneContent(p.Content),
	}
	if p.Transitions != nil {
		out.Transitions = make(map[string]Transition, len(p.Transitions))
		for id, t := range p.Transitions {
			out.Transitions[id] = t.Clone()
		}
	}
	if p.Placeholders != nil {
		out.Placeholders = make(map[string]string, len(p.Placeholders))
		for k, v := range p.Placeholders {
			out.Placeholders[k] = v
		}
	}
	return out
}

// Normalize dereferences pointer variants so callers can switch on value types only.
// A nil pointer normalizes to nil.
func Normalize(c Content) Content {
	switch v := c.(type) {
	case *InteractiveList:
		if v == nil {
			return nil
		}
		return *v
	case *ButtonMenu:
		if v == nil {
			return nil
		}
		return *v
	case *PlainText:
		if v == nil {
			return nil
		}
		return *v
	}
	return c
}

func cloneContent(c Content) Content {
	switch v := Normalize(c).(type) {
	case InteractiveList:
		v.Sections = CloneSections(v.Sections)
		return v
	case ButtonMenu:
		if v.Buttons != nil {
			v.Buttons = append([]Button(nil), v.Buttons...)
		}
		return v
	case PlainText:
		return v
	default:
		return nil
	}
}

// CloneSections deep-copies list sections.
func CloneSections(src []Section) []Section {
	if src == nil {
		return nil
	}
	out := make([]Section, len(src))
	for i, s := range src {
		out[i] = Section{Title: s.Title}
		if s.Rows != nil {
			out[i].Rows = append([]Row(nil), s.Rows...)
		}
	}
	return out
}
