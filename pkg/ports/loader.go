package ports

import (
	"context"

	"github.com/aretw0/pageflow/pkg/domain"
)

// CatalogLoader defines how the engine retrieves page definitions.
// This allows the storage layer (embedded files, Loam, memory) to be decoupled.
type CatalogLoader interface {
	// Load returns every page definition known to the source.
	Load(ctx context.Context) ([]domain.Page, error)
}

// Watchable defines an interface for loaders that can notify about backend changes.
// This is typically used for hot-reload or dev-mode functionality.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying pages change.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
