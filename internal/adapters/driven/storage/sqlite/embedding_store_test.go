package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
)

func TestEmbeddingStore_SaveAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	es := store.EmbeddingStore()
	ctx := context.Background()

	saveTestContent(t, store, "ct-1", "d-1", "h1", true)

	vec := []float32{0.5, -1.25, 2}
	created, err := es.Save(ctx, &domain.Embedding{
		ID: "e-1", ContentID: "ct-1", Model: "model-a", Dim: 3, Vector: vec,
	})
	require.NoError(t, err)
	assert.True(t, created)

	got, err := es.Get(ctx, "ct-1", "model-a")
	require.NoError(t, err)
	assert.Equal(t, "e-1", got.ID)
	assert.Equal(t, 3, got.Dim)
	assert.Equal(t, vec, got.Vector)

	_, err = es.Get(ctx, "ct-1", "model-b")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEmbeddingStore_DuplicatePairIgnored(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	es := store.EmbeddingStore()
	ctx := context.Background()

	saveTestContent(t, store, "ct-1", "d-1", "h1", true)

	created, err := es.Save(ctx, &domain.Embedding{
		ID: "e-1", ContentID: "ct-1", Model: "model-a", Dim: 1, Vector: []float32{1},
	})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = es.Save(ctx, &domain.Embedding{
		ID: "e-2", ContentID: "ct-1", Model: "model-a", Dim: 1, Vector: []float32{2},
	})
	require.NoError(t, err)
	assert.False(t, created)

	// First write wins
	got, err := es.Get(ctx, "ct-1", "model-a")
	require.NoError(t, err)
	assert.Equal(t, "e-1", got.ID)

	// Same content under another model is a separate row
	created, err = es.Save(ctx, &domain.Embedding{
		ID: "e-3", ContentID: "ct-1", Model: "model-b", Dim: 1, Vector: []float32{3},
	})
	require.NoError(t, err)
	assert.True(t, created)
}

func TestEmbeddingStore_SaveValidation(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	es := store.EmbeddingStore()
	ctx := context.Background()

	_, err := es.Save(ctx, &domain.Embedding{ID: "e-1", Model: "m"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = es.Save(ctx, &domain.Embedding{ID: "e-1", ContentID: "ct-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestEmbeddingStore_DeleteByContent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	es := store.EmbeddingStore()
	ctx := context.Background()

	saveTestContent(t, store, "ct-1", "d-1", "h1", true)

	for _, model := range []string{"model-a", "model-b"} {
		_, err := es.Save(ctx, &domain.Embedding{
			ID: "e-" + model, ContentID: "ct-1", Model: model, Dim: 1, Vector: []float32{1},
		})
		require.NoError(t, err)
	}

	require.NoError(t, es.DeleteByContent(ctx, "ct-1"))

	_, err := es.Get(ctx, "ct-1", "model-a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = es.Get(ctx, "ct-1", "model-b")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
