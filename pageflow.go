package pageflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/pageflow/catalogs"
	"github.com/aretw0/pageflow/internal/logging"
	"github.com/aretw0/pageflow/internal/runtime"
	"github.com/aretw0/pageflow/pkg/catalog"
	"github.com/aretw0/pageflow/pkg/domain"
	"github.com/aretw0/pageflow/pkg/ports"
)

// Texts are the localized strings used for fallbacks and defaults.
type Texts = runtime.Texts

// DefaultTexts returns the built-in English texts.
func DefaultTexts() Texts { return runtime.DefaultTexts() }

// TextSource provides localized texts, typically a locale.Localizer.
type TextSource interface {
	Texts() Texts
}

// Engine is the high-level entry point of the library.
// It owns an immutable catalog and is safe for concurrent use.
type Engine struct {
	catalog  *catalog.Catalog
	loader   ports.CatalogLoader
	report   catalog.Report
	texts    Texts
	defaults map[string]string
	entry    string
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	Name     string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithCatalog uses an already built catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(e *Engine) {
		e.catalog = c
	}
}

// WithLoader loads the catalog from a CatalogLoader at construction time.
func WithLoader(l ports.CatalogLoader) Option {
	return func(e *Engine) {
		e.loader = l
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithEntryPage configures the page conversations start and restart from (default: "main_menu").
func WithEntryPage(name string) Option {
	return func(e *Engine) {
		e.entry = name
	}
}

// WithTexts sets the fallback and default texts. Empty fields and missing
// placeholder defaults keep their built-in values.
func WithTexts(t Texts) Option {
	return func(e *Engine) {
		e.texts = t.FillFrom(runtime.DefaultTexts())
	}
}

// WithLocalizer takes the fallback and default texts from a TextSource.
func WithLocalizer(src TextSource) Option {
	return func(e *Engine) {
		e.texts = src.Texts().FillFrom(runtime.DefaultTexts())
	}
}

// WithPlaceholderDefaults adds catalog-wide placeholder defaults.
// Page-level defaults still take precedence.
func WithPlaceholderDefaults(defaults map[string]string) Option {
	return func(e *Engine) {
		if e.defaults == nil {
			e.defaults = make(map[string]string, len(defaults))
		}
		for k, v := range defaults {
			e.defaults[k] = v
		}
	}
}

// WithName labels the engine in logs.
func WithName(name string) Option {
	return func(e *Engine) {
		e.Name = name
	}
}

// New initializes a new Engine.
// Without WithCatalog or WithLoader the embedded clinic catalog is used.
// The catalog is validated once; issues are logged and never abort construction.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		entry: domain.DefaultEntryPage,
		texts: runtime.DefaultTexts(),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}
	if eng.Name != "" {
		eng.logger = eng.logger.With("catalog", eng.Name)
	}
	if len(eng.defaults) > 0 {
		eng.texts = eng.texts.WithDefaults(eng.defaults)
	}

	if eng.catalog == nil {
		if eng.loader == nil {
			eng.loader = catalogs.Clinic()
			if eng.Name == "" {
				eng.Name = "clinic"
			}
		}
		pages, err := eng.loader.Load(context.Background())
		if err != nil {
			return nil, fmt.Errorf("failed to load catalog: %w", err)
		}
		c, err := catalog.New(pages...)
		if err != nil {
			return nil, fmt.Errorf("failed to build catalog: %w", err)
		}
		eng.catalog = c
	}

	eng.report = catalog.Validate(eng.catalog)
	eng.logReport()

	if !eng.catalog.Has(eng.entry) {
		eng.logger.Warn("entry page is not in the catalog", "entry_page", eng.entry)
	}

	return eng, nil
}

func (e *Engine) logReport() {
	for _, issue := range e.report.Issues {
		attrs := []any{"page", issue.Page, "code", issue.Code}
		if issue.SelectionID != "" {
			attrs = append(attrs, "selection_id", issue.SelectionID)
		}
		attrs = append(attrs, "detail", issue.Detail)
		if issue.Severity == catalog.SeverityError {
			e.logger.Error("catalog validation failed", attrs...)
		} else {
			e.logger.Warn("catalog validation warning", attrs...)
		}
	}
	e.logger.Info("catalog ready",
		"pages", e.catalog.Len(),
		"invalid_pages", len(e.report.InvalidPages()),
		"warnings", len(e.report.Warnings()))
}

// Render produces the presentation of the named page.
// The returned presentation is always usable: when the page is missing or cannot be
// rendered, a fallback text asking the user to restart at the entry page is returned
// together with an error (*PageNotFoundError or domain.ErrUnknownPresentationKind).
func (e *Engine) Render(ctx context.Context, pageName string, uctx domain.UserContext) (domain.Presentation, error) {
	page, ok := e.catalog.Get(pageName)
	if !ok {
		err := &PageNotFoundError{Page: pageName}
		e.logger.Warn("render of unknown page", "page", pageName)
		return e.fallback(ctx, pageName, err), err
	}

	pres, err := runtime.Render(page, uctx, e.texts)
	if err != nil {
		e.logger.Error("render failed", "page", pageName, "err", err)
		return e.fallback(ctx, pageName, err), err
	}

	e.logger.Debug("page rendered", "page", pageName, "kind", pres.Kind)
	if e.hooks.OnRender != nil {
		e.hooks.OnRender(ctx, &domain.RenderEvent{Page: pageName, Kind: pres.Kind})
	}
	return pres, nil
}

func (e *Engine) fallback(ctx context.Context, pageName string, cause error) domain.Presentation {
	pres := domain.Presentation{
		Kind:      domain.KindText,
		Page:      pageName,
		Body:      e.texts.FallbackText,
		Fallback:  true,
		RestartAt: e.entry,
	}
	if e.hooks.OnRender != nil {
		e.hooks.OnRender(ctx, &domain.RenderEvent{Page: pageName, Kind: pres.Kind, Fallback: true, Err: cause})
	}
	return pres
}

// Select resolves a selection made on the named page.
// It never fails: a missing page or unknown selection yields an unresolved outcome.
func (e *Engine) Select(ctx context.Context, pageName, selectionID string, uctx domain.UserContext) domain.Outcome {
	var out domain.Outcome
	if page, ok := e.catalog.Get(pageName); ok {
		out = runtime.ResolveSelection(page, selectionID, uctx)
	} else {
		out = domain.Unresolved(domain.ReasonPageNotFound, pageName, selectionID)
	}

	evt := &domain.SelectEvent{Page: pageName, SelectionID: selectionID, Outcome: out}
	if e.hooks.OnSelect != nil {
		e.hooks.OnSelect(ctx, evt)
	}

	if !out.Resolved() {
		e.logger.Info("selection unresolved", "page", pageName, "selection_id", selectionID, "reason", out.Reason)
		if e.hooks.OnUnresolved != nil {
			e.hooks.OnUnresolved(ctx, evt)
		}
		return out
	}

	e.logger.Debug("selection resolved", "page", pageName, "selection_id", selectionID,
		"action", out.Action.Kind, "target", out.Action.Target)
	return out
}

// Descriptor summarizes a page for operational tooling.
type Descriptor struct {
	Name            string                  `json:"name"`
	Kind            domain.PresentationKind `json:"kind"`
	TransitionCount int                     `json:"transition_count"`
	Controls        []string                `json:"controls,omitempty"`
	Valid           bool                    `json:"valid"`
}

// ListPages returns the page names in lexical order.
func (e *Engine) ListPages() []string {
	return e.catalog.Names()
}

// Describe summarizes the named page.
func (e *Engine) Describe(pageName string) (Descriptor, error) {
	page, ok := e.catalog.Get(pageName)
	if !ok {
		return Descriptor{}, &PageNotFoundError{Page: pageName}
	}
	d := Descriptor{
		Name:            page.Name,
		TransitionCount: len(page.Transitions),
		Controls:        page.SelectionIDs(),
		Valid:           e.report.Valid(page.Name),
	}
	if c := domain.Normalize(page.Content); c != nil {
		d.Kind = c.Kind()
	}
	return d, nil
}

// Report returns the start-up validation report.
func (e *Engine) Report() catalog.Report {
	return e.report
}

// EntryPage returns the page conversations start from.
func (e *Engine) EntryPage() string {
	return e.entry
}

// Catalog returns the engine's catalog.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// Texts returns the texts in use, including placeholder defaults.
func (e *Engine) Texts() Texts {
	return e.texts
}

// Watch returns a channel that signals when the underlying pages change.
// Returns error if the loader does not support watching.
func (e *Engine) Watch(ctx context.Context) (<-chan struct{}, error) {
	if w, ok := e.loader.(ports.Watchable); ok {
		return w.Watch(ctx)
	}
	return nil, errors.New("current loader does not support watching")
}

// PageNotFoundError reports a page name absent from the catalog.
// It matches domain.ErrPageNotFound with errors.Is.
type PageNotFoundError struct {
	Page string
}

func (e *PageNotFoundError) Error() string {
	return fmt.Sprintf("page %q: %s", e.Page, domain.ErrPageNotFound)
}

func (e *PageNotFoundError) Unwrap() error { return domain.ErrPageNotFound }
