package conversation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/pageflow"
	"github.com/aretw0/pageflow/internal/logging"
	"github.com/aretw0/pageflow/pkg/analytics"
	"github.com/aretw0/pageflow/pkg/domain"
	"github.com/aretw0/pageflow/pkg/ports"
	"github.com/aretw0/pageflow/pkg/registry"
	"github.com/aretw0/pageflow/pkg/session"
)

// Engine is the part of *pageflow.Engine the service depends on.
type Engine interface {
	Render(ctx context.Context, pageName string, uctx domain.UserContext) (domain.Presentation, error)
	Select(ctx context.Context, pageName, selectionID string, uctx domain.UserContext) domain.Outcome
	EntryPage() string
	Texts() pageflow.Texts
}

var _ Engine = (*pageflow.Engine)(nil)

// Event is a user input on a channel.
type Event struct {
	// Page the selection was made on. Empty means the session's current page.
	Page        string `json:"page,omitempty"`
	SelectionID string `json:"selection_id"`
}

// Reply is what the channel should send back.
type Reply struct {
	SessionID string `json:"session_id"`
	// Page is the session position after the event.
	Page string `json:"page"`
	// Messages are sent before the presentation, in order.
	Messages     []string             `json:"messages,omitempty"`
	Presentation *domain.Presentation `json:"presentation,omitempty"`
	Outcome      *domain.Outcome      `json:"outcome,omitempty"`
	// Pending is a flow or function action no handler was registered for.
	Pending *domain.Action `json:"pending,omitempty"`
	// Diff is the session change made by this call, nil when nothing changed.
	Diff *domain.SessionDiff `json:"-"`
}

// Service runs conversations. Safe for concurrent use; events of the same
// session are serialized by the session manager.
type Service struct {
	engine    Engine
	sessions  *session.Manager
	registry  *registry.Registry
	sink      ports.AnalyticsSink
	escalator ports.Escalator
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithRegistry sets the handlers for flows and functions.
func WithRegistry(r *registry.Registry) Option {
	return func(s *Service) { s.registry = r }
}

// WithAnalytics sets the sink receiving transition events.
func WithAnalytics(sink ports.AnalyticsSink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithEscalator overrides the handling of unresolved selections.
func WithEscalator(e ports.Escalator) Option {
	return func(s *Service) { s.escalator = e }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// New creates a service over engine and sessions.
func New(engine Engine, sessions *session.Manager, opts ...Option) *Service {
	s := &Service{
		engine:   engine,
		sessions: sessions,
		sink:     analytics.Nop{},
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = registry.NewRegistry()
	}
	if s.escalator == nil {
		s.escalator = TextEscalator(engine.Texts().UnresolvedText)
	}
	return s
}

// Enter positions the session at page and renders it. An empty page renders the
// session's current page, or the entry page for a new session.
func (s *Service) Enter(ctx context.Context, sessionID, page string) (Reply, error) {
	reply := Reply{SessionID: sessionID}
	before, sess, err := s.sessions.Change(ctx, sessionID, s.engine.EntryPage(), func(ctx context.Context, sess *domain.Session) error {
		if page != "" {
			sess.Page = page
		}
		s.present(ctx, sess, &reply)
		return nil
	})
	if err != nil {
		return Reply{}, err
	}
	reply.Page = sess.Page
	reply.Diff = domain.Diff(before, sess)
	return reply, nil
}

// Handle applies a selection to the session.
// Errors come from the session store or from a registered handler; in both
// cases the session is left as it was.
func (s *Service) Handle(ctx context.Context, sessionID string, ev Event) (Reply, error) {
	reply := Reply{SessionID: sessionID}
	selection := strings.TrimSpace(ev.SelectionID)
	var event *domain.AnalyticsEvent

	before, sess, err := s.sessions.Change(ctx, sessionID, s.engine.EntryPage(), func(ctx context.Context, sess *domain.Session) error {
		page := ev.Page
		if page == "" {
			page = sess.Page
		}

		out := s.engine.Select(ctx, page, selection, sess.Context.Clone())
		reply.Outcome = &out

		if !out.Resolved() {
			s.escalate(ctx, sess, out, &reply)
			return nil
		}

		sess.Page = page
		sess.Context.Merge(out.SetParameters)
		reply.Messages = append(reply.Messages, out.LiteralMessages...)
		event = out.Event

		return s.follow(ctx, sess, *out.Action, &reply)
	})
	if err != nil {
		return Reply{}, err
	}
	s.emit(ctx, sessionID, event)
	reply.Page = sess.Page
	reply.Diff = domain.Diff(before, sess)
	return reply, nil
}

// Reset forgets the session.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

func (s *Service) follow(ctx context.Context, sess *domain.Session, action domain.Action, reply *Reply) error {
	if action.Kind == domain.ActionNavigatePage {
		sess.Page = action.Target
		s.present(ctx, sess, reply)
		return nil
	}

	if _, ok := s.registry.Lookup(action); !ok {
		s.logger.Info("action pending for channel", "session_id", sess.ID, "kind", action.Kind, "target", action.Target)
		pending := action
		reply.Pending = &pending
		return nil
	}

	res, err := s.registry.Execute(ctx, action, registry.Call{
		SessionID: sess.ID,
		Context:   sess.Context.Clone(),
	})
	if err != nil {
		return fmt.Errorf("%s %q failed: %w", action.Kind, action.Target, err)
	}

	sess.Context.Merge(res.SetParameters)
	reply.Messages = append(reply.Messages, res.Messages...)
	if res.NextPage == "" {
		return nil
	}
	sess.Page = res.NextPage
	s.present(ctx, sess, reply)
	return nil
}

func (s *Service) escalate(ctx context.Context, sess *domain.Session, out domain.Outcome, reply *Reply) {
	msgs, err := s.escalator.Escalate(ctx, sess.Snapshot(), out)
	if err != nil {
		s.logger.Warn("escalation failed", "session_id", sess.ID, "err", err)
	}
	if len(msgs) == 0 {
		msgs = []string{s.engine.Texts().UnresolvedText}
	}
	reply.Messages = append(reply.Messages, msgs...)
	s.present(ctx, sess, reply)
}

// present renders the session's page. A page that cannot be rendered moves the
// session to the restart page, with the fallback text sent as a message.
func (s *Service) present(ctx context.Context, sess *domain.Session, reply *Reply) {
	pres, err := s.engine.Render(ctx, sess.Page, sess.Context)
	if err != nil && pres.Fallback && pres.RestartAt != "" && pres.RestartAt != sess.Page {
		s.logger.Warn("restarting session", "session_id", sess.ID, "page", sess.Page, "err", err)
		reply.Messages = append(reply.Messages, pres.Body)
		sess.Page = pres.RestartAt
		if restart, rerr := s.engine.Render(ctx, sess.Page, sess.Context); rerr == nil {
			pres = restart
		}
	}
	reply.Presentation = &pres
}

func (s *Service) emit(ctx context.Context, sessionID string, event *domain.AnalyticsEvent) {
	if event == nil {
		return
	}
	e := *event
	e.SessionID = sessionID
	if err := s.sink.Emit(ctx, e); err != nil {
		s.logger.Warn("analytics sink failed", "event", e.Name, "session_id", sessionID, "err", err)
	}
}

// TextEscalator answers every unresolved selection with the same message.
type TextEscalator string

// Escalate implements ports.Escalator.
func (t TextEscalator) Escalate(context.Context, *domain.Session, domain.Outcome) ([]string, error) {
	if t == "" {
		return nil, nil
	}
	return []string{string(t)}, nil
}
