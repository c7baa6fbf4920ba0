package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
)

func TestContentStore_UpsertIdempotent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	cs := store.ContentStore()
	ctx := context.Background()

	rec := &domain.Content{
		ID:         "ct-1",
		SourceType: domain.SourceUpload,
		SourceID:   "doc-1",
		SHA256:     "h1",
		Title:      "First",
		Body:       "body one",
	}
	require.NoError(t, cs.Upsert(ctx, rec))

	// Same business key, different mutable fields
	require.NoError(t, cs.Upsert(ctx, &domain.Content{
		ID:         "ct-1",
		SourceType: domain.SourceUpload,
		SourceID:   "doc-1",
		SHA256:     "h2",
		Title:      "Second",
		Body:       "body two",
	}))

	var count int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM content_unified").Scan(&count))
	assert.Equal(t, 1, count)

	got, err := cs.Get(ctx, "ct-1")
	require.NoError(t, err)
	assert.Equal(t, "Second", got.Title)
	assert.Equal(t, "h2", got.SHA256)
}

func TestContentStore_UpsertPreservesID(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	cs := store.ContentStore()
	ctx := context.Background()

	require.NoError(t, cs.Upsert(ctx, &domain.Content{
		ID: "original-id", SourceType: domain.SourcePDF, SourceID: "doc-1",
	}))

	// A conflicting upsert with another ID must not re-key the row
	require.NoError(t, cs.Upsert(ctx, &domain.Content{
		ID: "other-id", SourceType: domain.SourcePDF, SourceID: "doc-1",
	}))

	var id string
	require.NoError(t, store.db.QueryRow(
		"SELECT id FROM content_unified WHERE source_type = 'pdf' AND source_id = 'doc-1'").Scan(&id))
	assert.Equal(t, "original-id", id)
}

func TestContentStore_UpsertMetadataRoundTrip(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	cs := store.ContentStore()
	ctx := context.Background()

	require.NoError(t, cs.Upsert(ctx, &domain.Content{
		ID:         "ct-meta",
		SourceType: domain.SourceEmail,
		SourceID:   "msg-1",
		Metadata:   map[string]any{"from": "counsel@example.com", "thread": "t-9"},
	}))

	got, err := cs.Get(ctx, "ct-meta")
	require.NoError(t, err)
	assert.Equal(t, "counsel@example.com", got.Metadata["from"])
	assert.Equal(t, "t-9", got.Metadata["thread"])
}

func TestContentStore_InsertIfAbsent(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	cs := store.ContentStore()
	ctx := context.Background()

	rec := &domain.Content{
		ID: "ct-1", SourceType: domain.SourceUpload, SourceID: "doc-1",
		SHA256: "h1", Title: "Keep", Body: "keep me",
	}

	created, err := cs.InsertIfAbsent(ctx, rec)
	require.NoError(t, err)
	assert.True(t, created)

	// Second insert for the same business key is a silent no-op
	created, err = cs.InsertIfAbsent(ctx, &domain.Content{
		ID: "ct-other", SourceType: domain.SourceUpload, SourceID: "doc-1",
		Title: "Discard",
	})
	require.NoError(t, err)
	assert.False(t, created)

	got, err := cs.Get(ctx, "ct-1")
	require.NoError(t, err)
	assert.Equal(t, "Keep", got.Title)
}

func TestContentStore_GetNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.ContentStore().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestContentStore_Search(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	cs := store.ContentStore()
	ctx := context.Background()

	require.NoError(t, cs.Upsert(ctx, &domain.Content{
		ID: "ct-1", SourceType: domain.SourceUpload, SourceID: "d-1",
		Title: "Lease Agreement", Body: "tenant obligations",
	}))
	require.NoError(t, cs.Upsert(ctx, &domain.Content{
		ID: "ct-2", SourceType: domain.SourceEmail, SourceID: "m-1",
		Title: "Re: hearing", Body: "the lease is disputed",
	}))

	results, err := cs.Search(ctx, domain.ContentQuery{Query: "lease"})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = cs.Search(ctx, domain.ContentQuery{Query: "lease", SourceType: domain.SourceEmail})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "ct-2", results[0].ID)

	// LIKE metacharacters in input are literals, not wildcards
	results, err = cs.Search(ctx, domain.ContentQuery{Query: "%"})
	require.NoError(t, err)
	assert.Empty(t, results)

	// Empty query pages everything
	results, err = cs.Search(ctx, domain.ContentQuery{})
	require.NoError(t, err)
	assert.Len(t, results, 2)

	results, err = cs.Search(ctx, domain.ContentQuery{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestContentStore_MissingSHA256Flow(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	cs := store.ContentStore()
	ctx := context.Background()

	require.NoError(t, cs.Upsert(ctx, &domain.Content{
		ID: "ct-nohash", SourceType: domain.SourceEmail, SourceID: "m-1", Body: "text",
	}))
	require.NoError(t, cs.Upsert(ctx, &domain.Content{
		ID: "ct-hashed", SourceType: domain.SourceUpload, SourceID: "d-1", SHA256: "h1",
	}))

	missing, err := cs.ListMissingSHA256(ctx, "", 10)
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, "ct-nohash", missing[0].ID)

	count, err := cs.CountMissingSHA256(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Source type filter excludes the email row
	count, err = cs.CountMissingSHA256(ctx, domain.SourceUpload)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, cs.SetSHA256(ctx, "ct-nohash", "filled"))

	count, err = cs.CountMissingSHA256(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	got, err := cs.Get(ctx, "ct-nohash")
	require.NoError(t, err)
	assert.Equal(t, "filled", got.SHA256)
}

func TestContentStore_ReadyWithoutEmbedding(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	cs := store.ContentStore()
	es := store.EmbeddingStore()
	ctx := context.Background()

	saveTestContent(t, store, "ct-ready", "d-1", "h1", true)
	saveTestContent(t, store, "ct-idle", "d-2", "h2", false)

	rows, err := cs.ListReadyWithoutEmbedding(ctx, "model-a", 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "ct-ready", rows[0].ID)

	_, err = es.Save(ctx, &domain.Embedding{
		ID: "e-1", ContentID: "ct-ready", Model: "model-a",
		Dim: 2, Vector: []float32{1, 2},
	})
	require.NoError(t, err)

	count, err := cs.CountReadyWithoutEmbedding(ctx, "model-a")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// A different model still counts as uncovered
	count, err = cs.CountReadyWithoutEmbedding(ctx, "model-b")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
