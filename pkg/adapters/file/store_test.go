package file_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/pageflow/pkg/adapters/file"
	"github.com/aretw0/pageflow/pkg/domain"
	"github.com/aretw0/pageflow/pkg/ports"
)

func TestFileStore_Contract(t *testing.T) {
	ports.RunContextStoreContract(t, file.NewStore(t.TempDir()))
}

func TestFileStore_RejectsPathTraversal(t *testing.T) {
	store := file.NewStore(t.TempDir())
	ctx := context.Background()

	assert.Error(t, store.Save(ctx, domain.NewSession("../escape", "menu")))
	_, err := store.Load(ctx, "")
	assert.Error(t, err)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.NewStore(t.TempDir() + "/missing")
	ids, err := store.List(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, ids)
}
