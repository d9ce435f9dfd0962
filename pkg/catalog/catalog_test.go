package catalog

import (
	"errors"
	"testing"

	"github.com/elliotchance/pie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/pageflow/pkg/domain"
)

func TestNew(t *testing.T) {
	t.Run("rejects empty name", func(t *testing.T) {
		_, err := New(domain.Page{Content: domain.PlainText{Text: "x"}})
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		_, err := New(
			domain.Page{Name: "a", Content: domain.PlainText{}},
			domain.Page{Name: "a", Content: domain.PlainText{}},
		)
		assert.ErrorIs(t, err, ErrDuplicatePage)
	})

	t.Run("accepts semantically broken pages", func(t *testing.T) {
		c, err := New(domain.Page{Name: "broken", Transitions: map[string]domain.Transition{"X": {}}})
		require.NoError(t, err)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("names are sorted", func(t *testing.T) {
		c := MustNew(
			domain.Page{Name: "b", Content: domain.PlainText{}},
			domain.Page{Name: "a", Content: domain.PlainText{}},
		)
		assert.Equal(t, []string{"a", "b"}, c.Names())
	})
}

func TestCatalog_IsolatedFromCaller(t *testing.T) {
	buttons := []domain.Button{{ID: "GO", Label: "Go"}}
	transitions := map[string]domain.Transition{"GO": domain.ToPage("detail")}
	c := MustNew(domain.Page{Name: "menu", Content: domain.ButtonMenu{Body: "b", Buttons: buttons}, Transitions: transitions})

	buttons[0].Label = "changed"
	transitions["GO"] = domain.ToPage("elsewhere")
	transitions["NEW"] = domain.ToPage("x")

	p, ok := c.Get("menu")
	require.True(t, ok)
	assert.Equal(t, "Go", p.Content.(domain.ButtonMenu).Buttons[0].Label)
	assert.Equal(t, "detail", p.Transitions["GO"].TargetPage)
	assert.Len(t, p.Transitions, 1)
}

func TestCatalog_NilSafe(t *testing.T) {
	var c *Catalog
	_, ok := c.Get("x")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
	assert.Empty(t, c.Names())
}

func TestValidate(t *testing.T) {
	c := MustNew(
		domain.Page{
			Name:    "menu",
			Content: domain.ButtonMenu{Body: "b", Buttons: []domain.Button{{ID: "GO"}, {ID: "MISSING"}, {ID: "GO"}}},
			Transitions: map[string]domain.Transition{
				"GO":    domain.ToPage("detail"),
				"AWAY":  domain.ToPage("nowhere"),
				"BOTH":  {TargetPage: "detail", TargetFlow: "triage"},
				"EMPTY": {},
				"FNAME": {FunctionCall: &domain.FunctionCall{}},
			},
		},
		domain.Page{Name: "detail", Content: domain.PlainText{Text: "hi"}},
		domain.Page{Name: "blank"},
	)

	r := Validate(c)

	codes := map[IssueCode]int{}
	for _, i := range r.Issues {
		codes[i.Code]++
	}
	assert.Equal(t, map[IssueCode]int{
		CodeMalformedTransition: 3,
		CodeMissingContent:      1,
		CodeDanglingTarget:      1,
		CodeMissingTransition:   1,
		CodeDuplicateControl:    1,
	}, codes)

	assert.Equal(t, []string{"blank", "menu"}, r.InvalidPages())
	assert.True(t, r.Valid("detail"))
	assert.False(t, r.Valid("menu"))
	assert.Len(t, r.Warnings(), 3)
	assert.Len(t, r.Errors(), 4)

	err := r.Err()
	var agg *AggregateError
	require.ErrorAs(t, err, &agg)
	assert.Len(t, agg.Errors, 4)
	assert.True(t, errors.Is(err, domain.ErrMalformedTransition))
	assert.True(t, errors.Is(err, domain.ErrUnknownPresentationKind))
}

func TestValidate_CleanCatalog(t *testing.T) {
	c := MustNew(
		domain.Page{
			Name:        "menu",
			Content:     domain.ButtonMenu{Buttons: []domain.Button{{ID: "GO"}}},
			Transitions: map[string]domain.Transition{"GO": domain.ToPage("detail"), "GHOST": domain.ToFlow("triage")},
		},
		domain.Page{Name: "detail", Content: domain.PlainText{}},
	)

	r := Validate(c)
	assert.Empty(t, r.Issues)
	assert.NoError(t, r.Err())
	assert.Empty(t, r.InvalidPages())
}

func TestReport_ValidWithoutIndex(t *testing.T) {
	r := Report{Issues: []*Issue{
		{Page: "menu", Code: CodeMalformedTransition, Severity: SeverityError},
		{Page: "detail", Code: CodeDanglingTarget, Severity: SeverityWarning},
	}}

	assert.False(t, r.Valid("menu"))
	assert.True(t, r.Valid("detail"))
	assert.True(t, r.Valid("other"))
}

func TestValidate_IndexesInvalidPages(t *testing.T) {
	c := MustNew(
		domain.Page{Name: "a", Content: domain.PlainText{Text: "a"}},
		domain.Page{Name: "b"},
	)

	r := Validate(c)
	require.NotNil(t, r.invalid)
	assert.Equal(t, map[string]struct{}{"b": {}}, r.invalid)
	for _, name := range c.Names() {
		assert.Equal(t, !pie.Contains(r.InvalidPages(), name), r.Valid(name), name)
	}
}
