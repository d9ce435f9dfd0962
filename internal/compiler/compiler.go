// Package compiler turns serialized page metadata into domain pages.
package compiler

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/pageflow/internal/dto"
	"github.com/aretw0/pageflow/pkg/domain"
)

// Message types accepted in page files.
const (
	MessageList    = "interactive_list"
	MessageButtons = "button"
	MessageText    = "text"
)

var messageAliases = map[string]string{
	MessageList:    MessageList,
	"list":         MessageList,
	MessageButtons: MessageButtons,
	"buttons":      MessageButtons,
	MessageText:    MessageText,
}

// Decode converts a loose mapping into page metadata.
// Unknown keys are rejected so typos surface at load time.
func Decode(raw map[string]any) (dto.PageMetadata, error) {
	var meta dto.PageMetadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &meta,
	})
	if err != nil {
		return meta, err
	}
	if err := dec.Decode(raw); err != nil {
		return meta, fmt.Errorf("failed to decode page: %w", err)
	}
	return meta, nil
}

// Compile builds a page from its metadata. body, when non-empty, is used as the
// text (or body) of pages that do not declare one inline, as with markdown documents.
// Transitions are copied as declared; target exclusivity is left to catalog validation.
func Compile(meta dto.PageMetadata, body string) (domain.Page, error) {
	name := meta.Name
	if name == "" {
		name = meta.ID
	}
	if name == "" {
		return domain.Page{}, fmt.Errorf("page missing name")
	}

	content, err := compileContent(name, meta, body)
	if err != nil {
		return domain.Page{}, err
	}

	page := domain.Page{
		Name:         name,
		Content:      content,
		Placeholders: meta.Placeholders,
	}
	if len(meta.Transitions) > 0 {
		page.Transitions = make(map[string]domain.Transition, len(meta.Transitions))
		for id, t := range meta.Transitions {
			page.Transitions[id] = compileTransition(t)
		}
	}
	return page.Clone(), nil
}

func compileContent(name string, meta dto.PageMetadata, body string) (domain.Content, error) {
	kind := meta.MessageType
	if kind == "" {
		kind = inferMessageType(meta)
	}
	canonical, ok := messageAliases[kind]
	if !ok {
		return nil, fmt.Errorf("page %q: message_type %q: %w", name, kind, domain.ErrUnknownPresentationKind)
	}

	switch canonical {
	case MessageList:
		return domain.InteractiveList{
			Header:      meta.Header,
			Body:        orDefault(meta.Body, body),
			ActionLabel: meta.ActionLabel,
			Sections:    meta.Sections,
		}, nil
	case MessageButtons:
		return domain.ButtonMenu{
			Body:    orDefault(meta.Body, body),
			Buttons: meta.Buttons,
		}, nil
	default:
		text := meta.Text
		if text == "" {
			text = orDefault(meta.Body, body)
		}
		return domain.PlainText{Text: text}, nil
	}
}

func inferMessageType(meta dto.PageMetadata) string {
	switch {
	case len(meta.Sections) > 0:
		return MessageList
	case len(meta.Buttons) > 0:
		return MessageButtons
	default:
		return MessageText
	}
}

func compileTransition(t dto.TransitionMetadata) domain.Transition {
	out := domain.Transition{
		TargetPage:      t.TargetPage,
		TargetFlow:      t.TargetFlow,
		SetParameters:   t.SetParameters,
		EventLog:        t.EventLog,
		LiteralMessages: t.LiteralMessages,
	}
	if t.FunctionCall != nil {
		out.FunctionCall = &domain.FunctionCall{Name: t.FunctionCall.Name, Params: t.FunctionCall.Params}
	}
	return out
}

// Decompile is the inverse of Compile, used when exporting a catalog.
func Decompile(p domain.Page) dto.PageMetadata {
	meta := dto.PageMetadata{Name: p.Name, Placeholders: p.Placeholders}
	switch c := domain.Normalize(p.Content).(type) {
	case domain.InteractiveList:
		meta.MessageType = MessageList
		meta.Header = c.Header
		meta.Body = c.Body
		meta.ActionLabel = c.ActionLabel
		meta.Sections = c.Sections
	case domain.ButtonMenu:
		meta.MessageType = MessageButtons
		meta.Body = c.Body
		meta.Buttons = c.Buttons
	case domain.PlainText:
		meta.MessageType = MessageText
		meta.Text = c.Text
	}
	if len(p.Transitions) > 0 {
		meta.Transitions = make(map[string]dto.TransitionMetadata, len(p.Transitions))
		for id, t := range p.Transitions {
			tm := dto.TransitionMetadata{
				TargetPage:      t.TargetPage,
				TargetFlow:      t.TargetFlow,
				SetParameters:   t.SetParameters,
				EventLog:        t.EventLog,
				LiteralMessages: t.LiteralMessages,
			}
			if t.FunctionCall != nil {
				tm.FunctionCall = &dto.FunctionCallMetadata{Name: t.FunctionCall.Name, Params: t.FunctionCall.Params}
			}
			meta.Transitions[id] = tm
		}
	}
	return meta
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
