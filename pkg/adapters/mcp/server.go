// Package mcp exposes a pageflow engine as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/pageflow"
	"github.com/aretw0/pageflow/internal/logging"
	"github.com/aretw0/pageflow/pkg/domain"
	"github.com/aretw0/pageflow/pkg/runner"
)

// CatalogURI is the resource holding the page descriptors.
const CatalogURI = "pageflow://catalog"

// RenderResponse mirrors the HTTP API's render response.
type RenderResponse struct {
	Presentation domain.Presentation `json:"presentation" jsonschema_description:"The rendered page"`
	Error        string              `json:"error,omitempty" jsonschema_description:"Set when the presentation is the fallback text"`
}

// Engine is the part of *pageflow.Engine exposed over MCP.
type Engine interface {
	Render(ctx context.Context, pageName string, uctx domain.UserContext) (domain.Presentation, error)
	Select(ctx context.Context, pageName, selectionID string, uctx domain.UserContext) domain.Outcome
	ListPages() []string
	Describe(pageName string) (pageflow.Descriptor, error)
}

var _ Engine = (*pageflow.Engine)(nil)

// Server wraps the engine and exposes it as an MCP server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a new MCP server for the engine.
func NewServer(engine Engine, opts ...Option) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("pageflow-mcp", pageflow.Version),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio serves on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves over SSE on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	renderTool := mcp.NewTool("render_page",
		mcp.WithDescription("Render a page for a user context. Unknown pages render the fallback text."),
		mcp.WithString("page", mcp.Required(), mcp.Description("Name of the page to render")),
		mcp.WithString("context", mcp.Description("JSON object with the user context (optional)")),
		mcp.WithOutputSchema[RenderResponse](),
	)
	s.mcpServer.AddTool(renderTool, mcp.NewStructuredToolHandler(s.handleRender))

	selectTool := mcp.NewTool("select_option",
		mcp.WithDescription("Resolve a selection made on a page into an outcome."),
		mcp.WithString("page", mcp.Required(), mcp.Description("Page the selection was made on")),
		mcp.WithString("selection_id", mcp.Required(), mcp.Description("Id of the chosen row or button")),
		mcp.WithString("context", mcp.Description("JSON object with the user context (optional)")),
		mcp.WithOutputSchema[domain.Outcome](),
	)
	s.mcpServer.AddTool(selectTool, mcp.NewStructuredToolHandler(s.handleSelect))

	s.mcpServer.AddTool(mcp.NewTool("list_pages",
		mcp.WithDescription("List the pages of the catalog."),
	), s.handleListPages)

	s.mcpServer.AddTool(mcp.NewTool("describe_page",
		mcp.WithDescription("Describe a page: its kind, controls and validity."),
		mcp.WithString("page", mcp.Required(), mcp.Description("Name of the page")),
	), s.handleDescribe)
}

func (s *Server) handleRender(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (RenderResponse, error) {
	page, _ := args["page"].(string)
	uctx, err := userContext(args)
	if err != nil {
		return RenderResponse{}, err
	}

	pres, err := s.engine.Render(ctx, page, uctx)
	resp := RenderResponse{Presentation: pres}
	if err != nil {
		s.logger.Warn("MCP render fell back", "page", page, "err", err)
		resp.Error = err.Error()
	}
	return resp, nil
}

func (s *Server) handleSelect(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (domain.Outcome, error) {
	page, _ := args["page"].(string)
	selection, _ := args["selection_id"].(string)

	clean, err := runner.SanitizeInput(selection)
	if err != nil {
		s.logger.Warn("MCP select: input rejected", "err", err, "size", len(selection))
		return domain.Outcome{}, fmt.Errorf("input rejected: %w", err)
	}
	uctx, err := userContext(args)
	if err != nil {
		return domain.Outcome{}, err
	}
	return s.engine.Select(ctx, page, clean, uctx), nil
}

func (s *Server) handleListPages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(s.descriptors())
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) handleDescribe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	page, _ := request.GetArguments()["page"].(string)
	d, err := s.engine.Describe(page)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(b)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CatalogURI, "Page catalog",
		mcp.WithMIMEType("application/json"),
	), s.readCatalog)
}

func (s *Server) readCatalog(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	b, err := json.Marshal(s.descriptors())
	if err != nil {
		return nil, fmt.Errorf("failed to encode catalog: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      CatalogURI,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}

func (s *Server) descriptors() []pageflow.Descriptor {
	names := s.engine.ListPages()
	out := make([]pageflow.Descriptor, 0, len(names))
	for _, name := range names {
		if d, err := s.engine.Describe(name); err == nil {
			out = append(out, d)
		}
	}
	return out
}

// userContext reads the optional "context" argument, given either as a JSON string or an object.
func userContext(args map[string]any) (domain.UserContext, error) {
	switch v := args["context"].(type) {
	case nil:
		return domain.UserContext{}, nil
	case string:
		if v == "" {
			return domain.UserContext{}, nil
		}
		var uctx domain.UserContext
		if err := json.Unmarshal([]byte(v), &uctx); err != nil {
			return nil, fmt.Errorf("invalid context: %w", err)
		}
		return uctx, nil
	case map[string]any:
		return domain.UserContext(v), nil
	default:
		return nil, fmt.Errorf("invalid context: unexpected %T", v)
	}
}
