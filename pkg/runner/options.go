package runner

import (
	"log/slog"
)

// DefaultSessionID is used when no session id is configured.
const DefaultSessionID = "console"

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithSessionID sets the session the conversation is stored under.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithStartPage positions the session at page when the runner starts.
// Without it an existing session resumes where it was.
func WithStartPage(page string) Option {
	return func(r *Runner) {
		r.StartPage = page
	}
}
