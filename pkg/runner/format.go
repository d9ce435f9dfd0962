package runner

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/pageflow/pkg/conversation"
	"github.com/aretw0/pageflow/pkg/domain"
)

// Choice is a numbered option shown to the user.
type Choice struct {
	Number int
	ID     string
	Title  string
}

// ConsoleFormatter renders replies as markdown with numbered options.
type ConsoleFormatter struct {
	choices []Choice
}

// Format returns the markdown for reply and records its options for Resolve.
// A reply without a presentation keeps the previous options.
func (f *ConsoleFormatter) Format(reply conversation.Reply) string {
	var sb strings.Builder
	for _, msg := range reply.Messages {
		sb.WriteString(msg)
		sb.WriteString("\n\n")
	}
	if reply.Presentation == nil {
		return strings.TrimSpace(sb.String())
	}

	p := reply.Presentation
	f.choices = f.choices[:0]
	if p.Header != "" {
		fmt.Fprintf(&sb, "## %s\n\n", p.Header)
	}
	if p.Body != "" {
		sb.WriteString(p.Body)
		sb.WriteString("\n\n")
	}

	switch p.Kind {
	case domain.KindList:
		if p.ActionLabel != "" {
			fmt.Fprintf(&sb, "_%s_\n\n", p.ActionLabel)
		}
		for _, section := range p.Sections {
			if section.Title != "" {
				fmt.Fprintf(&sb, "**%s**\n\n", section.Title)
			}
			for _, row := range section.Rows {
				c := f.add(row.ID, row.Title)
				if row.Description != "" {
					fmt.Fprintf(&sb, "%d. %s - %s\n", c.Number, row.Title, row.Description)
				} else {
					fmt.Fprintf(&sb, "%d. %s\n", c.Number, row.Title)
				}
			}
			sb.WriteString("\n")
		}
	case domain.KindButtons:
		for _, row := range p.ButtonRows {
			cells := make([]string, 0, len(row))
			for _, b := range row {
				c := f.add(b.ID, b.Label)
				cells = append(cells, fmt.Sprintf("[%d] %s", c.Number, b.Label))
			}
			sb.WriteString(strings.Join(cells, "   "))
			sb.WriteString("\n\n")
		}
	}

	return strings.TrimSpace(sb.String())
}

func (f *ConsoleFormatter) add(id, title string) Choice {
	c := Choice{Number: len(f.choices) + 1, ID: id, Title: title}
	f.choices = append(f.choices, c)
	return c
}

// Choices returns the options of the last formatted presentation.
func (f *ConsoleFormatter) Choices() []Choice {
	return append([]Choice(nil), f.choices...)
}

// Resolve maps what the user typed to a selection id: an option number, an id
// or a title (both case-insensitive). Anything else is returned unchanged so the
// engine can report it as unresolved.
func (f *ConsoleFormatter) Resolve(input string) string {
	if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(f.choices) {
		return f.choices[n-1].ID
	}
	for _, c := range f.choices {
		if c.ID == input {
			return c.ID
		}
	}
	for _, c := range f.choices {
		if strings.EqualFold(c.ID, input) || strings.EqualFold(c.Title, input) {
			return c.ID
		}
	}
	return input
}
