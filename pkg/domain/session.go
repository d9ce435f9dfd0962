package domain

import "time"

// Session is the persisted position of one conversation.
type Session struct {
	ID        string      `json:"id"`
	Page      string      `json:"page"`
	Context   UserContext `json:"context"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewSession creates a session positioned at the given page with an empty context.
func NewSession(id, page string) *Session {
	return &Session{ID: id, Page: page, Context: UserContext{}}
}

// Snapshot returns a deep copy of the session.
func (s *Session) Snapshot() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Context = s.Context.Clone()
	return &out
}
