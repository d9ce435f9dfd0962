package runtime

import (
	"github.com/aretw0/pageflow/pkg/domain"
)

// ResolveSelection maps a selection id on a page to an outcome.
// Unknown ids are never guessed: they yield an unresolved outcome for the caller to escalate.
// The context is read-only here; SetParameters is handed back for the caller to merge.
func ResolveSelection(page domain.Page, selectionID string, _ domain.UserContext) domain.Outcome {
	t, ok := page.Transitions[selectionID]
	if !ok {
		return domain.Unresolved(domain.ReasonUnknownSelection, page.Name, selectionID)
	}

	action, ok := primaryAction(t)
	if !ok {
		return domain.Unresolved(domain.ReasonMalformedTransition, page.Name, selectionID)
	}

	out := domain.Outcome{
		Kind:          domain.OutcomeResolved,
		Page:          page.Name,
		SelectionID:   selectionID,
		Action:        &action,
		SetParameters: domain.CloneMap(t.SetParameters),
	}
	if t.EventLog != "" {
		out.Event = &domain.AnalyticsEvent{
			Name:        t.EventLog,
			Page:        page.Name,
			SelectionID: selectionID,
		}
	}
	if len(t.LiteralMessages) > 0 {
		out.LiteralMessages = append([]string(nil), t.LiteralMessages...)
	}
	return out
}

// primaryAction applies the fixed priority page > flow > function.
func primaryAction(t domain.Transition) (domain.Action, bool) {
	switch {
	case t.TargetPage != "":
		return domain.NavigatePage(t.TargetPage), true
	case t.TargetFlow != "":
		return domain.NavigateFlow(t.TargetFlow), true
	case t.FunctionCall != nil && t.FunctionCall.Name != "":
		return domain.InvokeFunction(t.FunctionCall.Name, t.FunctionCall.Params), true
	}
	return domain.Action{}, false
}
