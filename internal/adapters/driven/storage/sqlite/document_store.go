package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
	"github.com/custodia-labs/casechain-cli/internal/core/ports/driven"
)

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

const documentColumns = `chunk_id, source_type, file_name, sha256, chunk_index,
	text_content, created_at`

// unlinkedWhere selects hashed chunks that have no content row matching
// their (sha256, chunk_index) pair.
const unlinkedWhere = `
	d.sha256 IS NOT NULL
	AND NOT EXISTS (
		SELECT 1 FROM content_unified c
		WHERE c.sha256 = d.sha256 AND c.chunk_index = d.chunk_index
	)`

// SaveChunk stores or updates a document chunk. The hash is
// content-addressed and immutable: once set it is never overwritten.
func (s *documentStore) SaveChunk(ctx context.Context, chunk *domain.DocumentChunk) error {
	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = time.Now().UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO documents (chunk_id, source_type, file_name, sha256, chunk_index, text_content, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(chunk_id) DO UPDATE SET
			source_type = excluded.source_type,
			file_name = excluded.file_name,
			sha256 = COALESCE(documents.sha256, excluded.sha256),
			chunk_index = excluded.chunk_index,
			text_content = excluded.text_content
	`, chunk.ChunkID, string(chunk.SourceType), chunk.FileName,
		nullString(chunk.SHA256), chunk.ChunkIndex,
		nullString(chunk.TextContent), chunk.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving document chunk: %w", mapBusy(err))
	}
	return nil
}

// GetChunk retrieves a chunk by ID.
func (s *documentStore) GetChunk(ctx context.Context, chunkID string) (*domain.DocumentChunk, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+documentColumns+`
		FROM documents WHERE chunk_id = ?
	`, chunkID)

	return scanChunkRow(row)
}

// ListUnlinked returns up to limit hashed chunks without a content row.
// Chunks with extracted text sort first so rows that can never be
// backfilled do not occupy the whole window on a bounded pass.
func (s *documentStore) ListUnlinked(
	ctx context.Context,
	sourceType domain.SourceType,
	limit int,
) ([]domain.DocumentChunk, error) {
	query := `SELECT ` + documentColumns + ` FROM documents d WHERE ` + unlinkedWhere
	args := []any{}
	if sourceType != "" {
		query += " AND d.source_type = ?"
		args = append(args, string(sourceType))
	}
	query += " ORDER BY TRIM(COALESCE(d.text_content, '')) = '', d.chunk_id LIMIT ?"
	args = append(args, limit)

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying unlinked chunks: %w", err)
	}
	defer rows.Close()

	return scanChunkRows(rows)
}

// CountUnlinked counts hashed chunks without a content row.
func (s *documentStore) CountUnlinked(ctx context.Context, sourceType domain.SourceType) (int, error) {
	query := "SELECT COUNT(*) FROM documents d WHERE " + unlinkedWhere
	args := []any{}
	if sourceType != "" {
		query += " AND d.source_type = ?"
		args = append(args, string(sourceType))
	}

	var count int
	if err := s.store.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting unlinked chunks: %w", err)
	}
	return count, nil
}

// FindHashForContent looks up a document hash for a content row missing
// one. A chunk whose ID equals the content's source ID is the authoritative
// pairing; otherwise any hashed chunk with the same index is used.
func (s *documentStore) FindHashForContent(ctx context.Context, sourceID string, chunkIndex int) (string, error) {
	var hash string
	err := s.store.db.QueryRowContext(ctx, `
		SELECT sha256 FROM documents
		WHERE chunk_id = ? AND sha256 IS NOT NULL
	`, sourceID).Scan(&hash)
	if err == nil {
		return hash, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("pairing by chunk id: %w", err)
	}

	err = s.store.db.QueryRowContext(ctx, `
		SELECT sha256 FROM documents
		WHERE chunk_index = ? AND sha256 IS NOT NULL
		ORDER BY chunk_id
		LIMIT 1
	`, chunkIndex).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("pairing by chunk index: %w", err)
	}
	return hash, nil
}

// scanChunkRow scans a chunk from *sql.Row.
func scanChunkRow(row *sql.Row) (*domain.DocumentChunk, error) {
	var chunk domain.DocumentChunk
	var sourceType string
	var sha, text sql.NullString
	var createdAt sql.NullTime

	if err := row.Scan(&chunk.ChunkID, &sourceType, &chunk.FileName, &sha,
		&chunk.ChunkIndex, &text, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning document chunk: %w", err)
	}

	chunk.SourceType = domain.SourceType(sourceType)
	chunk.SHA256 = sha.String
	chunk.TextContent = text.String
	if createdAt.Valid {
		chunk.CreatedAt = createdAt.Time
	}

	return &chunk, nil
}

// scanChunkRows scans chunks from *sql.Rows.
func scanChunkRows(rows *sql.Rows) ([]domain.DocumentChunk, error) {
	var chunks []domain.DocumentChunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.DocumentChunk
		var sourceType string
		var sha, text sql.NullString
		var createdAt sql.NullTime

		if err := rows.Scan(&chunk.ChunkID, &sourceType, &chunk.FileName, &sha,
			&chunk.ChunkIndex, &text, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning document chunk: %w", err)
		}

		chunk.SourceType = domain.SourceType(sourceType)
		chunk.SHA256 = sha.String
		chunk.TextContent = text.String
		if createdAt.Valid {
			chunk.CreatedAt = createdAt.Time
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating document chunks: %w", err)
	}

	return chunks, nil
}
