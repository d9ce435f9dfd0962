package dsl

import "github.com/aretw0/pageflow/pkg/domain"

// PageBuilder provides a fluent API for configuring a page.
type PageBuilder struct {
	page    domain.Page
	builder *Builder
}

// Text makes the page a plain text message.
func (p *PageBuilder) Text(text string) *PageBuilder {
	p.page.Content = domain.PlainText{Text: text}
	return p
}

// List makes the page an interactive list with the given header and body.
func (p *PageBuilder) List(header, body string) *PageBuilder {
	p.page.Content = domain.InteractiveList{Header: header, Body: body}
	return p
}

// ActionLabel sets the label of the button that opens a list.
func (p *PageBuilder) ActionLabel(label string) *PageBuilder {
	p.updateList(func(l *domain.InteractiveList) { l.ActionLabel = label })
	return p
}

// Section appends a titled section to a list page.
func (p *PageBuilder) Section(title string) *PageBuilder {
	p.updateList(func(l *domain.InteractiveList) {
		l.Sections = append(l.Sections, domain.Section{Title: title})
	})
	return p
}

// Row appends a row to the last section of a list page, opening an untitled one if needed.
func (p *PageBuilder) Row(id, title, description string) *PageBuilder {
	p.updateList(func(l *domain.InteractiveList) {
		if len(l.Sections) == 0 {
			l.Sections = append(l.Sections, domain.Section{})
		}
		last := &l.Sections[len(l.Sections)-1]
		last.Rows = append(last.Rows, domain.Row{ID: id, Title: title, Description: description})
	})
	return p
}

// Buttons makes the page a button menu with the given body.
func (p *PageBuilder) Buttons(body string) *PageBuilder {
	p.page.Content = domain.ButtonMenu{Body: body}
	return p
}

// Button appends a reply button, turning the page into a button menu if it is not one.
func (p *PageBuilder) Button(id, label string) *PageBuilder {
	menu, _ := domain.Normalize(p.page.Content).(domain.ButtonMenu)
	menu.Buttons = append(menu.Buttons, domain.Button{ID: id, Label: label})
	p.page.Content = menu
	return p
}

// On binds a selection id to a transition.
func (p *PageBuilder) On(selectionID string, t domain.Transition) *PageBuilder {
	if p.page.Transitions == nil {
		p.page.Transitions = make(map[string]domain.Transition)
	}
	p.page.Transitions[selectionID] = t
	return p
}

// Go binds a selection id to another page.
func (p *PageBuilder) Go(selectionID, target string) *PageBuilder {
	return p.On(selectionID, domain.ToPage(target))
}

// Flow binds a selection id to an external flow.
func (p *PageBuilder) Flow(selectionID, flow string) *PageBuilder {
	return p.On(selectionID, domain.ToFlow(flow))
}

// Call binds a selection id to a backend function.
func (p *PageBuilder) Call(selectionID, function string, params map[string]any) *PageBuilder {
	return p.On(selectionID, domain.CallFunction(function, params))
}

// Placeholder declares a template placeholder and its default.
func (p *PageBuilder) Placeholder(name, def string) *PageBuilder {
	if p.page.Placeholders == nil {
		p.page.Placeholders = make(map[string]string)
	}
	p.page.Placeholders[name] = def
	return p
}

// Add starts another page on the same builder, for chaining.
func (p *PageBuilder) Add(name string) *PageBuilder {
	return p.builder.Add(name)
}

func (p *PageBuilder) updateList(fn func(*domain.InteractiveList)) {
	list, _ := domain.Normalize(p.page.Content).(domain.InteractiveList)
	fn(&list)
	p.page.Content = list
}
