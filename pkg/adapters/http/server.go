// Package http exposes a pageflow engine and its conversations over a JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/pageflow"
	"github.com/aretw0/pageflow/internal/logging"
	"github.com/aretw0/pageflow/pkg/conversation"
	"github.com/aretw0/pageflow/pkg/domain"
	"github.com/aretw0/pageflow/pkg/runner"
	"github.com/aretw0/pageflow/pkg/session"
)

// Engine is the part of *pageflow.Engine the API serves.
type Engine interface {
	Render(ctx context.Context, pageName string, uctx domain.UserContext) (domain.Presentation, error)
	Select(ctx context.Context, pageName, selectionID string, uctx domain.UserContext) domain.Outcome
	ListPages() []string
	Describe(pageName string) (pageflow.Descriptor, error)
	Watch(ctx context.Context) (<-chan struct{}, error)
}

var _ Engine = (*pageflow.Engine)(nil)

// Server holds the handlers of the API.
type Server struct {
	Engine       Engine
	Conversation *conversation.Service
	Sessions     *session.Manager
	Streams      *StreamManager

	metrics  http.Handler
	validate bool
	logger   *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithConversation enables the /sessions endpoints.
func WithConversation(svc *conversation.Service, sessions *session.Manager) Option {
	return func(s *Server) {
		s.Conversation = svc
		s.Sessions = sessions
	}
}

// WithMetrics mounts a Prometheus handler at /metrics.
func WithMetrics(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithRequestValidation validates requests against the OpenAPI document.
func WithRequestValidation(enabled bool) Option {
	return func(s *Server) { s.validate = enabled }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) (http.Handler, error) {
	s := &Server{
		Engine:   engine,
		validate: true,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)
	if s.validate {
		v, err := requestValidator(s)
		if err != nil {
			return nil, err
		}
		r.Use(v)
	}

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(RawSpec())
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Post("/render", s.Render)
	r.Post("/select", s.Select)
	r.Get("/pages", s.ListPages)
	r.Get("/pages/{name}", s.DescribePage)
	r.Get("/events", s.SubscribeEvents)

	if s.Conversation != nil {
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/enter", s.EnterPage)
			r.Post("/events", s.HandleEvent)
		})
	}
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>pageflow API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// RenderRequest is the body of POST /render.
type RenderRequest struct {
	Page    string             `json:"page"`
	Context domain.UserContext `json:"context,omitempty"`
}

// RenderResponse always carries a usable presentation. Error is set when it is the fallback.
type RenderResponse struct {
	Presentation domain.Presentation `json:"presentation"`
	Error        string              `json:"error,omitempty"`
}

// SelectRequest is the body of POST /select.
type SelectRequest struct {
	Page        string             `json:"page"`
	SelectionID string             `json:"selection_id"`
	Context     domain.UserContext `json:"context,omitempty"`
}

// Render handles the POST /render request.
func (s *Server) Render(w http.ResponseWriter, r *http.Request) {
	var body RenderRequest
	if !s.decode(w, r, &body) {
		return
	}

	pres, err := s.Engine.Render(r.Context(), body.Page, body.Context)
	resp := RenderResponse{Presentation: pres}
	if err != nil {
		resp.Error = err.Error()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// Select handles the POST /select request.
func (s *Server) Select(w http.ResponseWriter, r *http.Request) {
	var body SelectRequest
	if !s.decode(w, r, &body) {
		return
	}
	selection, ok := s.sanitize(w, body.SelectionID)
	if !ok {
		return
	}

	out := s.Engine.Select(r.Context(), body.Page, selection, body.Context)
	s.writeJSON(w, http.StatusOK, out)
}

// ListPages handles the GET /pages request.
func (s *Server) ListPages(w http.ResponseWriter, r *http.Request) {
	names := s.Engine.ListPages()
	out := make([]pageflow.Descriptor, 0, len(names))
	for _, name := range names {
		d, err := s.Engine.Describe(name)
		if err != nil {
			continue
		}
		out = append(out, d)
	}
	s.writeJSON(w, http.StatusOK, out)
}

// DescribePage handles the GET /pages/{name} request.
func (s *Server) DescribePage(w http.ResponseWriter, r *http.Request) {
	d, err := s.Engine.Describe(chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, d)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, sess)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Conversation.Reset(r.Context(), chi.URLParam(r, "id")); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		s.writeError(w, statusFor(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// EnterPage handles the POST /sessions/{id}/enter request.
func (s *Server) EnterPage(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Page string `json:"page"`
	}
	if r.ContentLength != 0 && !s.decode(w, r, &body) {
		return
	}

	id := chi.URLParam(r, "id")
	reply, err := s.Conversation.Enter(r.Context(), id, body.Page)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.publishDiff(id, reply.Diff)
	s.writeJSON(w, http.StatusOK, reply)
}

// HandleEvent handles the POST /sessions/{id}/events request.
func (s *Server) HandleEvent(w http.ResponseWriter, r *http.Request) {
	var ev conversation.Event
	if !s.decode(w, r, &ev) {
		return
	}
	selection, ok := s.sanitize(w, ev.SelectionID)
	if !ok {
		return
	}
	ev.SelectionID = selection

	id := chi.URLParam(r, "id")
	reply, err := s.Conversation.Handle(r.Context(), id, ev)
	if err != nil {
		s.logger.Error("HandleEvent failed", "session_id", id, "err", err)
		s.writeError(w, statusFor(err), err)
		return
	}
	s.publishDiff(id, reply.Diff)
	s.writeJSON(w, http.StatusOK, reply)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "pageflow-http",
		"version":     pageflow.Version,
		"api_version": apiVersion,
	})
}

// SubscribeEvents handles the GET /events request (SSE).
// With session_id it streams session diffs, otherwise catalog change notifications.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, errors.New("streaming not supported"))
		return
	}

	sessionID := r.URL.Query().Get("session_id")
	var events <-chan string
	if sessionID == "" {
		changes, err := s.Engine.Watch(r.Context())
		if err != nil {
			s.writeError(w, http.StatusNotImplemented, err)
			return
		}
		events = reloadEvents(r.Context(), changes)
	} else {
		ch, cancel := s.Streams.Subscribe(sessionID)
		defer cancel()
		events = ch
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func reloadEvents(ctx context.Context, changes <-chan struct{}) <-chan string {
	out := make(chan string)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-changes:
				if !ok {
					return
				}
				select {
				case out <- "reload":
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out
}

func (s *Server) publishDiff(id string, diff *domain.SessionDiff) {
	if diff == nil {
		return
	}
	if b, err := json.Marshal(diff); err == nil {
		s.Streams.Broadcast(id, string(b))
	}
}

// -- Helpers --

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.logger.Warn("invalid request body", "path", r.URL.Path, "err", err)
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

func (s *Server) sanitize(w http.ResponseWriter, input string) (string, bool) {
	clean, err := runner.SanitizeInput(input)
	if err != nil {
		s.logger.Warn("input rejected", "err", err, "size", len(input))
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid input: %w", err))
		return "", false
	}
	return clean, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrPageNotFound), errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}
