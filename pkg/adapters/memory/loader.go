package memory

import (
	"context"

	"github.com/aretw0/pageflow/pkg/domain"
)

// Loader implements ports.CatalogLoader over a static list of pages.
type Loader struct {
	pages []domain.Page
}

// NewLoader creates a loader serving copies of the given pages.
func NewLoader(pages ...domain.Page) *Loader {
	l := &Loader{pages: make([]domain.Page, len(pages))}
	for i, p := range pages {
		l.pages[i] = p.Clone()
	}
	return l
}

// Load returns copies of the pages in the order they were given.
func (l *Loader) Load(ctx context.Context) ([]domain.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]domain.Page, len(l.pages))
	for i, p := range l.pages {
		out[i] = p.Clone()
	}
	return out, nil
}
