package graph

import (
	"fmt"
	"strings"

	"github.com/elliotchance/pie/v2"

	"github.com/aretw0/pageflow/pkg/domain"
)

// Overlay contains session state to highlight on the graph.
type Overlay struct {
	VisitedPages []string
	CurrentPage  string
}

// GenerateMermaid produces a Mermaid flowchart of the pages and their transitions.
// Shapes follow the page content:
// - Entry page: ((Circle))
// - List: [[Subroutine]]
// - Buttons: (Rounded)
// - Text: [Rectangle]
// Flow hand-offs and function calls are dashed edges to ([Stadium]) nodes.
// Targets missing from the catalog are drawn as {{Hexagons}}.
func GenerateMermaid(pages []domain.Page, entry string, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	known := make(map[string]bool, len(pages))
	for _, p := range pages {
		known[p.Name] = true
	}
	external := make(map[string]string)
	missing := make(map[string]bool)

	for _, page := range sortPages(pages) {
		id := sanitizeMermaidID(page.Name)
		opener, closer := shape(page, entry)
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", id, opener, page.Name, closer)

		for _, sel := range pie.Sort(pie.Keys(page.Transitions)) {
			t := page.Transitions[sel]
			label := strings.ReplaceAll(sel, "\"", "'")

			switch kinds := t.TargetKinds(); {
			case len(kinds) != 1:
				fmt.Fprintf(&sb, "    %s -- \"%s (malformed)\" --x %s\n", id, label, id)
			case t.TargetPage != "":
				to := sanitizeMermaidID(t.TargetPage)
				if !known[t.TargetPage] {
					missing[t.TargetPage] = true
				}
				fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", id, label, to)
			case t.TargetFlow != "":
				to := "flow_" + sanitizeMermaidID(t.TargetFlow)
				external[to] = "flow: " + t.TargetFlow
				fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", id, label, to)
			default:
				to := "fn_" + sanitizeMermaidID(t.FunctionCall.Name)
				external[to] = "fn: " + t.FunctionCall.Name
				fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", id, label, to)
			}
		}
	}

	for _, id := range pie.Sort(pie.Keys(external)) {
		fmt.Fprintf(&sb, "    %s([\"%s\"])\n", id, external[id])
	}
	for _, name := range pie.Sort(pie.Keys(missing)) {
		fmt.Fprintf(&sb, "    %s{{\"%s ?\"}}\n", sanitizeMermaidID(name), name)
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		for _, id := range pie.Unique(pie.Map(overlay.VisitedPages, sanitizeMermaidID)) {
			if id != "" {
				fmt.Fprintf(&sb, "    class %s visited;\n", id)
			}
		}
		if overlay.CurrentPage != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentPage))
		}
	}

	return sb.String()
}

func shape(page domain.Page, entry string) (string, string) {
	if page.Name == entry {
		return "((", "))"
	}
	switch domain.Normalize(page.Content).(type) {
	case domain.InteractiveList:
		return "[[", "]]"
	case domain.ButtonMenu:
		return "(", ")"
	default:
		return "[", "]"
	}
}

func sortPages(pages []domain.Page) []domain.Page {
	byName := make(map[string]domain.Page, len(pages))
	for _, p := range pages {
		byName[p.Name] = p
	}
	out := make([]domain.Page, 0, len(byName))
	for _, name := range pie.Sort(pie.Keys(byName)) {
		out = append(out, byName[name])
	}
	return out
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}
