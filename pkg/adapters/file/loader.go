package file

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/pageflow/internal/compiler"
	"github.com/aretw0/pageflow/pkg/domain"
)

// Loader implements ports.CatalogLoader over YAML and JSON files in an fs.FS.
// A file holds either a single page mapping or a "pages" list of them.
type Loader struct {
	fsys fs.FS
	root string
}

// NewLoader creates a loader reading every page file under root in fsys.
func NewLoader(fsys fs.FS, root string) *Loader {
	if root == "" {
		root = "."
	}
	return &Loader{fsys: fsys, root: root}
}

// NewDirLoader creates a loader for a directory on disk.
func NewDirLoader(dir string) *Loader {
	return NewLoader(os.DirFS(dir), ".")
}

// Load reads the page files in lexical path order.
func (l *Loader) Load(ctx context.Context) ([]domain.Page, error) {
	var pages []domain.Page
	err := fs.WalkDir(l.fsys, l.root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !isPageFile(p) {
			return nil
		}
		filePages, err := l.loadFile(p)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		pages = append(pages, filePages...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load pages: %w", err)
	}
	return pages, nil
}

func (l *Loader) loadFile(p string) ([]domain.Page, error) {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid page file: %w", err)
	}
	if len(doc) == 0 {
		return nil, nil
	}

	raws := []any{doc}
	if list, ok := doc["pages"]; ok {
		items, ok := list.([]any)
		if !ok {
			return nil, fmt.Errorf(`"pages" must be a list, got %T`, list)
		}
		raws = items
	}

	pages := make([]domain.Page, 0, len(raws))
	for i, item := range raws {
		raw, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("page #%d must be a mapping, got %T", i, item)
		}
		meta, err := compiler.Decode(raw)
		if err != nil {
			return nil, err
		}
		page, err := compiler.Compile(meta, "")
		if err != nil {
			return nil, err
		}
		pages = append(pages, page)
	}
	return pages, nil
}

func isPageFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
