package catalog

import (
	"fmt"

	"github.com/elliotchance/pie/v2"

	"github.com/aretw0/pageflow/pkg/domain"
)

// Severity classifies a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// IssueCode identifies the kind of problem found.
type IssueCode string

const (
	CodeMalformedTransition IssueCode = "malformed_transition"
	CodeMissingContent      IssueCode = "missing_content"
	CodeDanglingTarget      IssueCode = "dangling_target"
	CodeMissingTransition   IssueCode = "missing_transition"
	CodeDuplicateControl    IssueCode = "duplicate_control"
)

// Issue is a single finding about a page.
type Issue struct {
	Page        string
	SelectionID string
	Code        IssueCode
	Severity    Severity
	Detail      string
	Err         error
}

func (i *Issue) Error() string {
	where := fmt.Sprintf("page %q", i.Page)
	if i.SelectionID != "" {
		where += fmt.Sprintf(" selection %q", i.SelectionID)
	}
	return fmt.Sprintf("%s %s: %s: %s", i.Severity, i.Code, where, i.Detail)
}

func (i *Issue) Unwrap() error { return i.Err }

// AggregateError represents multiple validation failures.
type AggregateError struct {
	Errors []error
}

func (e *AggregateError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msg := fmt.Sprintf("%d validation errors:\n", len(e.Errors))
	for i, err := range e.Errors {
		msg += fmt.Sprintf("  %d. %s\n", i+1, err.Error())
	}
	return msg
}

func (e *AggregateError) Unwrap() []error { return e.Errors }

// Report is the outcome of validating a catalog.
type Report struct {
	Issues []*Issue

	// invalid indexes the pages with an error-level issue; set by Validate.
	invalid map[string]struct{}
}

// Errors returns the issues that mark a page invalid.
func (r Report) Errors() []*Issue {
	return pie.Filter(r.Issues, func(i *Issue) bool { return i.Severity == SeverityError })
}

// Warnings returns the issues that are logged but do not invalidate a page.
func (r Report) Warnings() []*Issue {
	return pie.Filter(r.Issues, func(i *Issue) bool { return i.Severity == SeverityWarning })
}

// InvalidPages returns the sorted names of pages with at least one error.
func (r Report) InvalidPages() []string {
	names := make([]string, 0)
	for _, i := range r.Errors() {
		names = append(names, i.Page)
	}
	return pie.Sort(pie.Unique(names))
}

// Valid reports whether the named page has no error-level issue.
func (r Report) Valid(page string) bool {
	if r.invalid != nil {
		_, bad := r.invalid[page]
		return !bad
	}
	for _, i := range r.Issues {
		if i.Severity == SeverityError && i.Page == page {
			return false
		}
	}
	return true
}

// Err returns an *AggregateError holding the error-level issues, or nil.
func (r Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	agg := &AggregateError{Errors: make([]error, len(errs))}
	for i, issue := range errs {
		agg.Errors[i] = issue
	}
	return agg
}

// Validate inspects every page of the catalog. It never mutates the catalog.
func Validate(c *Catalog) Report {
	r := Report{invalid: make(map[string]struct{})}
	for _, name := range c.Names() {
		page, _ := c.Get(name)
		r.Issues = append(r.Issues, validatePage(c, page)...)
	}
	for _, i := range r.Errors() {
		r.invalid[i.Page] = struct{}{}
	}
	return r
}

func validatePage(c *Catalog, page domain.Page) []*Issue {
	var issues []*Issue

	if domain.Normalize(page.Content) == nil {
		issues = append(issues, &Issue{
			Page:     page.Name,
			Code:     CodeMissingContent,
			Severity: SeverityError,
			Detail:   "page has no content",
			Err:      domain.ErrUnknownPresentationKind,
		})
	}

	ids := page.SelectionIDs()
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			issues = append(issues, &Issue{
				Page:        page.Name,
				SelectionID: id,
				Code:        CodeDuplicateControl,
				Severity:    SeverityWarning,
				Detail:      "control id appears more than once",
			})
			continue
		}
		seen[id] = true
		if _, ok := page.Transitions[id]; !ok {
			issues = append(issues, &Issue{
				Page:        page.Name,
				SelectionID: id,
				Code:        CodeMissingTransition,
				Severity:    SeverityWarning,
				Detail:      "visible control has no transition",
				Err:         domain.ErrUnknownSelection,
			})
		}
	}

	for _, id := range pie.Sort(pie.Keys(page.Transitions)) {
		t := page.Transitions[id]
		kinds := t.TargetKinds()
		if len(kinds) != 1 {
			issues = append(issues, &Issue{
				Page:        page.Name,
				SelectionID: id,
				Code:        CodeMalformedTransition,
				Severity:    SeverityError,
				Detail:      fmt.Sprintf("transition sets %d targets, want exactly one", len(kinds)),
				Err:         domain.ErrMalformedTransition,
			})
			continue
		}
		if t.TargetPage != "" && !c.Has(t.TargetPage) {
			issues = append(issues, &Issue{
				Page:        page.Name,
				SelectionID: id,
				Code:        CodeDanglingTarget,
				Severity:    SeverityWarning,
				Detail:      fmt.Sprintf("target page %q is not in the catalog", t.TargetPage),
				Err:         domain.ErrPageNotFound,
			})
		}
	}

	return issues
}
