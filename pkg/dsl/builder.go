package dsl

import (
	"errors"

	"github.com/aretw0/pageflow/pkg/adapters/memory"
	"github.com/aretw0/pageflow/pkg/catalog"
	"github.com/aretw0/pageflow/pkg/domain"
)

// Builder manages the catalog construction. Pages keep the order they were added in.
type Builder struct {
	pages map[string]*PageBuilder
	order []string
}

// New creates a new catalog builder.
func New() *Builder {
	return &Builder{
		pages: make(map[string]*PageBuilder),
	}
}

// Add creates a new page in the catalog.
// If the page already exists, it returns the existing builder.
func (b *Builder) Add(name string) *PageBuilder {
	if pb, ok := b.pages[name]; ok {
		return pb
	}
	pb := &PageBuilder{page: domain.Page{Name: name}, builder: b}
	b.pages[name] = pb
	b.order = append(b.order, name)
	return pb
}

// Pages returns the built pages in insertion order.
func (b *Builder) Pages() []domain.Page {
	out := make([]domain.Page, 0, len(b.order))
	for _, name := range b.order {
		out = append(out, b.pages[name].page.Clone())
	}
	return out
}

// Build compiles the pages into a memory loader.
func (b *Builder) Build() (*memory.Loader, error) {
	if _, ok := b.pages[""]; ok {
		return nil, errors.New("dsl: page with empty name")
	}
	return memory.NewLoader(b.Pages()...), nil
}

// Catalog builds an immutable catalog directly.
func (b *Builder) Catalog() (*catalog.Catalog, error) {
	return catalog.New(b.Pages()...)
}
