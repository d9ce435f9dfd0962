package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/loam"

	"github.com/aretw0/pageflow/internal/compiler"
	"github.com/aretw0/pageflow/internal/dto"
	"github.com/aretw0/pageflow/pkg/domain"
)

// Loader adapts a Loam repository to the ports.CatalogLoader interface.
// Each document is a page: the frontmatter is the page mapping and the
// document body becomes the text (or body) of the page.
type Loader struct {
	Repo *loam.TypedRepository[dto.PageMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[dto.PageMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// Open initializes a read-only, strict Loam repository at path and wraps it.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	// Strict mode keeps numbers as json.Number; read-only avoids Loam's dev sandbox.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[dto.PageMetadata](repo)), nil
}

// Load reads every document of the repository as a page.
func (l *Loader) Load(ctx context.Context) ([]domain.Page, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string, len(docs))
	pages := make([]domain.Page, 0, len(docs))
	for _, listed := range docs {
		doc, err := l.Repo.Get(ctx, listed.ID)
		if err != nil {
			return nil, fmt.Errorf("loam get failed for %s: %w", listed.ID, err)
		}

		meta := doc.Data
		if meta.Name == "" {
			meta.Name = trimExtension(meta.ID)
		}
		if meta.Name == "" {
			meta.Name = trimExtension(doc.ID)
		}

		if existing, ok := seen[meta.Name]; ok {
			return nil, fmt.Errorf("collision detected: page '%s' is defined in both '%s' and '%s'", meta.Name, existing, doc.ID)
		}
		seen[meta.Name] = doc.ID

		page, err := compiler.Compile(meta, strings.TrimSpace(doc.Content))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", doc.ID, err)
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// Watch implements ports.Watchable.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				// Coalesce bursts: one pending signal is enough to trigger a reload.
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()
	return ch, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
