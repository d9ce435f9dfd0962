// Package catalog holds the immutable set of pages a conversation can visit.
//
// A Catalog is built once, usually at start-up, and is safe for concurrent reads
// without locking. Definitions are deep-copied on construction so later mutation
// of the caller's values cannot leak in.
package catalog

import (
	"errors"
	"fmt"

	"github.com/elliotchance/pie/v2"

	"github.com/aretw0/pageflow/pkg/domain"
)

// ErrEmptyName is returned when a page has no name.
var ErrEmptyName = errors.New("page name is empty")

// ErrDuplicatePage is returned when two pages share a name.
var ErrDuplicatePage = errors.New("duplicate page")

// Catalog is a read-only collection of pages keyed by name.
type Catalog struct {
	pages map[string]domain.Page
	names []string
}

// New builds a catalog from the given pages.
// It fails only on structural impossibilities: an empty or duplicate page name.
// Semantic problems are reported by Validate instead.
func New(pages ...domain.Page) (*Catalog, error) {
	c := &Catalog{pages: make(map[string]domain.Page, len(pages))}
	for i, p := range pages {
		if p.Name == "" {
			return nil, fmt.Errorf("page #%d: %w", i, ErrEmptyName)
		}
		if _, exists := c.pages[p.Name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicatePage, p.Name)
		}
		c.pages[p.Name] = p.Clone()
	}
	c.names = pie.Sort(pie.Keys(c.pages))
	return c, nil
}

// MustNew is like New but panics on error. Intended for static catalogs in tests and examples.
func MustNew(pages ...domain.Page) *Catalog {
	c, err := New(pages...)
	if err != nil {
		panic(err)
	}
	return c
}

// Get returns the page with the given name.
// The returned value shares backing storage with the catalog and must not be mutated.
func (c *Catalog) Get(name string) (domain.Page, bool) {
	if c == nil {
		return domain.Page{}, false
	}
	p, ok := c.pages[name]
	return p, ok
}

// Has reports whether a page exists.
func (c *Catalog) Has(name string) bool {
	_, ok := c.Get(name)
	return ok
}

// Names returns the page names in lexical order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	return append([]string(nil), c.names...)
}

// Len returns the number of pages.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.pages)
}

// Pages returns deep copies of every page, ordered by name.
func (c *Catalog) Pages() []domain.Page {
	out := make([]domain.Page, 0, c.Len())
	for _, name := range c.Names() {
		out = append(out, c.pages[name].Clone())
	}
	return out
}
