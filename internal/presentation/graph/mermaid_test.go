package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/pageflow/internal/presentation/graph"
	"github.com/aretw0/pageflow/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		pages    []domain.Page
		entry    string
		contains []string
	}{
		{
			name: "Shapes",
			pages: []domain.Page{
				{Name: "main_menu", Content: domain.InteractiveList{Body: "x"}},
				{Name: "list", Content: domain.InteractiveList{Body: "x"}},
				{Name: "menu", Content: domain.ButtonMenu{Body: "x"}},
				{Name: "info", Content: domain.PlainText{Text: "x"}},
			},
			entry: "main_menu",
			contains: []string{
				`main_menu(("main_menu"))`,
				`list[["list"]]`,
				`menu("menu")`,
				`info["info"]`,
			},
		},
		{
			name: "Page Transition",
			pages: []domain.Page{
				{Name: "a", Content: domain.PlainText{Text: "A"}, Transitions: map[string]domain.Transition{"GO": domain.ToPage("b")}},
				{Name: "b", Content: domain.PlainText{Text: "B"}},
			},
			contains: []string{`a -- "GO" --> b`},
		},
		{
			name: "Flow And Function",
			pages: []domain.Page{
				{Name: "a", Content: domain.PlainText{Text: "A"}, Transitions: map[string]domain.Transition{
					"HELP": domain.ToFlow("human-handoff"),
					"PAY":  domain.CallFunction("charge", nil),
				}},
			},
			contains: []string{
				`a -. "HELP" .-> flow_human_handoff`,
				`flow_human_handoff(["flow: human-handoff"])`,
				`a -. "PAY" .-> fn_charge`,
				`fn_charge(["fn: charge"])`,
			},
		},
		{
			name: "Missing Target",
			pages: []domain.Page{
				{Name: "a", Content: domain.PlainText{Text: "A"}, Transitions: map[string]domain.Transition{"GO": domain.ToPage("ghost")}},
			},
			contains: []string{`ghost{{"ghost ?"}}`},
		},
		{
			name: "ID Sanitization",
			pages: []domain.Page{
				{Name: "path/to/file.md", Content: domain.PlainText{Text: "x"}},
				{Name: "hyphen-ated", Content: domain.PlainText{Text: "x"}},
			},
			contains: []string{
				`path_to_file_md["path/to/file.md"]`,
				`hyphen_ated["hyphen-ated"]`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.pages, tt.entry, nil)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	pages := []domain.Page{
		{Name: "a", Content: domain.PlainText{Text: "A"}},
		{Name: "b", Content: domain.PlainText{Text: "B"}},
	}
	got := graph.GenerateMermaid(pages, "a", &graph.Overlay{VisitedPages: []string{"a", "a", "b"}, CurrentPage: "b"})

	assert.Equal(t, 1, strings.Count(got, "class a visited;"))
	assert.Contains(t, got, "class b current;")
}

func TestGenerateMermaid_Deterministic(t *testing.T) {
	pages := []domain.Page{
		{Name: "z", Content: domain.PlainText{Text: "Z"}, Transitions: map[string]domain.Transition{"B": domain.ToPage("a"), "A": domain.ToPage("a")}},
		{Name: "a", Content: domain.PlainText{Text: "A"}},
	}
	assert.Equal(t, graph.GenerateMermaid(pages, "", nil), graph.GenerateMermaid(pages, "", nil))
}
