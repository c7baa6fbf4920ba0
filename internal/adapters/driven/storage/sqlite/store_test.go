package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "casechain-test-*")
	require.NoError(t, err)

	store, err := NewStore(filepath.Join(tempDir, "case.db"))
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

// saveTestChunk stores a hashed chunk with sensible defaults.
func saveTestChunk(t *testing.T, store *Store, chunkID, sha string, index int, text string) {
	t.Helper()
	err := store.DocumentStore().SaveChunk(context.Background(), &domain.DocumentChunk{
		ChunkID:     chunkID,
		SourceType:  domain.SourceUpload,
		FileName:    chunkID + ".pdf",
		SHA256:      sha,
		ChunkIndex:  index,
		TextContent: text,
	})
	require.NoError(t, err)
}

// saveTestContent stores a content row with sensible defaults.
func saveTestContent(t *testing.T, store *Store, id, sourceID, sha string, ready bool) {
	t.Helper()
	err := store.ContentStore().Upsert(context.Background(), &domain.Content{
		ID:                id,
		SourceType:        domain.SourceUpload,
		SourceID:          sourceID,
		SHA256:            sha,
		Title:             "Title " + id,
		Body:              "Body " + id,
		ReadyForEmbedding: ready,
	})
	require.NoError(t, err)
}

// ==================== Store Creation Tests ====================

func TestNewStore_Success(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "casechain-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "case.db")
	store, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)

	assert.NoError(t, store.db.Ping())
}

func TestNewStore_CreatesParentDirectories(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "casechain-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "nested", "data", "case.db")
	store, err := NewStore(dbPath)
	require.NoError(t, err)
	defer store.Close()

	assert.FileExists(t, dbPath)
}

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path/case.db")
	assert.Error(t, err)
}

func TestNewStore_MigrationsRecorded(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "casechain-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "case.db")
	store, err := NewStore(dbPath)
	require.NoError(t, err)

	var version int
	err = store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, version, 1)
	require.NoError(t, store.Close())

	// Reopening must not re-run applied migrations
	reopened, err := NewStore(dbPath)
	require.NoError(t, err)
	defer reopened.Close()

	var count int
	err = reopened.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestOpenExisting_MissingFile(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "casechain-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	_, err = OpenExisting(filepath.Join(tempDir, "nope.db"))
	assert.ErrorIs(t, err, domain.ErrDatabaseNotFound)
}

func TestOpenExisting_Success(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	opened, err := OpenExisting(store.Path())
	require.NoError(t, err)
	defer opened.Close()

	assert.NoError(t, opened.db.Ping())
}

func TestOpenReadOnly_MissingFile(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "casechain-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	_, err = OpenReadOnly(filepath.Join(tempDir, "nope.db"))
	assert.ErrorIs(t, err, domain.ErrDatabaseNotFound)
}

func TestOpenReadOnly_RejectsWrites(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	ro, err := OpenReadOnly(store.Path())
	require.NoError(t, err)
	defer ro.Close()

	err = ro.DocumentStore().SaveChunk(context.Background(), &domain.DocumentChunk{
		ChunkID:    "c-1",
		SourceType: domain.SourceUpload,
		CreatedAt:  time.Now(),
	})
	assert.Error(t, err)
}

// ==================== Helper Tests ====================

func TestStore_LockContentionMapsToErrBusy(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "casechain-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, "case.db")
	writer, err := NewStore(path)
	require.NoError(t, err)
	defer writer.Close()

	second, err := NewStore(path)
	require.NoError(t, err)
	defer second.Close()

	// Pin the second store to one connection and make it fail
	// immediately instead of waiting out the busy timeout.
	second.db.SetMaxOpenConns(1)
	_, err = second.db.Exec("PRAGMA busy_timeout = 0")
	require.NoError(t, err)

	// Hold the write lock from the first store.
	tx, err := writer.db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()
	_, err = tx.Exec("INSERT INTO schema_migrations (version) VALUES (999)")
	require.NoError(t, err)

	err = second.ContentStore().SetSHA256(context.Background(), "ct-1", "hash")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBusy)
}

func TestFloat32SliceRoundTrip(t *testing.T) {
	vec := []float32{0, 1.5, -2.25, 3.125e10}
	assert.Equal(t, vec, bytesToFloat32Slice(float32SliceToBytes(vec)))

	assert.Nil(t, float32SliceToBytes(nil))
	assert.Nil(t, bytesToFloat32Slice(nil))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%`, escapeLike(`100%`))
	assert.Equal(t, `a\_b`, escapeLike(`a_b`))
	assert.Equal(t, `back\\slash`, escapeLike(`back\slash`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
