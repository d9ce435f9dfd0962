package domain

import (
	"reflect"
)

// SessionDiff represents the changes between two snapshots of a session.
// It is serialized to JSON so clients can apply partial updates.
type SessionDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	// Page is set when the conversation moved to another page.
	Page *string `json:"page,omitempty"`

	// Context contains only changed, added or deleted keys.
	// Deleted keys are present with a nil value.
	Context map[string]any `json:"context,omitempty"`
}

// Diff calculates the difference between old and next.
// A nil old yields a diff carrying the whole of next (initial load).
// It returns nil when nothing changed.
func Diff(old, next *Session) *SessionDiff {
	if next == nil {
		return nil
	}

	diff := &SessionDiff{SessionID: next.ID}
	if old == nil || old.Page != next.Page {
		diff.Page = &next.Page
	}
	diff.Context = diffContext(old, next)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffContext(old, next *Session) map[string]any {
	delta := make(map[string]any)

	if old == nil {
		for k, v := range next.Context {
			delta[k] = v
		}
	} else {
		for k, v := range next.Context {
			prev, exists := old.Context[k]
			if !exists || !reflect.DeepEqual(prev, v) {
				delta[k] = v
			}
		}
		for k := range old.Context {
			if _, exists := next.Context[k]; !exists {
				delta[k] = nil
			}
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SessionDiff) IsEmpty() bool {
	return d.Page == nil && len(d.Context) == 0
}
