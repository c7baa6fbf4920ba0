package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
	"github.com/custodia-labs/casechain-cli/internal/core/ports/driven"
)

// contentStore implements driven.ContentStore.
type contentStore struct {
	store *Store
}

var _ driven.ContentStore = (*contentStore)(nil)

const contentColumns = `id, source_type, source_id, sha256, chunk_index,
	title, body, ready_for_embedding, metadata, created_at, updated_at`

// Upsert inserts or updates a content row keyed on the business key.
// On conflict the ID column stays untouched so it remains stable across
// re-ingestion.
func (s *contentStore) Upsert(ctx context.Context, rec *domain.Content) error {
	metadataJSON, err := json.Marshal(rec.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO content_unified
			(id, source_type, source_id, sha256, chunk_index, title, body,
			 ready_for_embedding, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source_type, source_id) DO UPDATE SET
			sha256 = excluded.sha256,
			chunk_index = excluded.chunk_index,
			title = excluded.title,
			body = excluded.body,
			ready_for_embedding = excluded.ready_for_embedding,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at
	`, rec.ID, string(rec.SourceType), rec.SourceID, nullString(rec.SHA256),
		rec.ChunkIndex, rec.Title, rec.Body, rec.ReadyForEmbedding,
		string(metadataJSON), rec.CreatedAt, rec.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upserting content: %w", mapBusy(err))
	}
	return nil
}

// InsertIfAbsent inserts a content row unless its business key exists.
func (s *contentStore) InsertIfAbsent(ctx context.Context, rec *domain.Content) (bool, error) {
	metadataJSON, err := json.Marshal(rec.Metadata)
	if err != nil {
		return false, fmt.Errorf("marshalling metadata: %w", err)
	}

	now := time.Now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = now
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO content_unified
			(id, source_type, source_id, sha256, chunk_index, title, body,
			 ready_for_embedding, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, string(rec.SourceType), rec.SourceID, nullString(rec.SHA256),
		rec.ChunkIndex, rec.Title, rec.Body, rec.ReadyForEmbedding,
		string(metadataJSON), rec.CreatedAt, rec.UpdatedAt)

	if err != nil {
		return false, fmt.Errorf("inserting content: %w", mapBusy(err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}
	return affected > 0, nil
}

// Get retrieves a content row by ID.
func (s *contentStore) Get(ctx context.Context, id string) (*domain.Content, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+contentColumns+`
		FROM content_unified WHERE id = ?
	`, id)

	return scanContentRow(row)
}

// Search returns content matching the query. The match is a parameterised
// LIKE over title and body, so arbitrary user input cannot break the
// statement; an empty query degrades to a bounded page of everything.
func (s *contentStore) Search(ctx context.Context, q domain.ContentQuery) ([]domain.Content, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	var conds []string
	var args []any

	if q.Query != "" {
		pattern := "%" + escapeLike(q.Query) + "%"
		conds = append(conds, `(title LIKE ? ESCAPE '\' OR body LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern)
	}
	if q.SourceType != "" {
		conds = append(conds, "source_type = ?")
		args = append(args, string(q.SourceType))
	}

	query := `SELECT ` + contentColumns + ` FROM content_unified`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying content: %w", err)
	}
	defer rows.Close()

	return scanContentRows(rows)
}

// ListMissingSHA256 returns up to limit rows without a content hash.
func (s *contentStore) ListMissingSHA256(
	ctx context.Context,
	sourceType domain.SourceType,
	limit int,
) ([]domain.Content, error) {
	query := `SELECT ` + contentColumns + ` FROM content_unified WHERE sha256 IS NULL`
	args := []any{}
	if sourceType != "" {
		query += " AND source_type = ?"
		args = append(args, string(sourceType))
	}
	query += " ORDER BY id LIMIT ?"
	args = append(args, limit)

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying content missing hash: %w", err)
	}
	defer rows.Close()

	return scanContentRows(rows)
}

// CountMissingSHA256 counts rows without a content hash.
func (s *contentStore) CountMissingSHA256(ctx context.Context, sourceType domain.SourceType) (int, error) {
	query := "SELECT COUNT(*) FROM content_unified WHERE sha256 IS NULL"
	args := []any{}
	if sourceType != "" {
		query += " AND source_type = ?"
		args = append(args, string(sourceType))
	}

	var count int
	if err := s.store.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting content missing hash: %w", err)
	}
	return count, nil
}

// SetSHA256 fills the content hash of one row.
func (s *contentStore) SetSHA256(ctx context.Context, id, sha256 string) error {
	_, err := s.store.db.ExecContext(ctx, `
		UPDATE content_unified SET sha256 = ?, updated_at = ? WHERE id = ?
	`, sha256, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("setting content hash: %w", mapBusy(err))
	}
	return nil
}

// ListReadyWithoutEmbedding returns up to limit ready rows lacking an
// embedding for the given model.
func (s *contentStore) ListReadyWithoutEmbedding(
	ctx context.Context,
	model string,
	limit int,
) ([]domain.Content, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+contentColumns+`
		FROM content_unified c
		WHERE c.ready_for_embedding = 1
		  AND NOT EXISTS (
			SELECT 1 FROM embeddings e
			WHERE e.content_id = c.id AND e.model = ?
		  )
		ORDER BY c.created_at, c.id
		LIMIT ?
	`, model, limit)
	if err != nil {
		return nil, fmt.Errorf("querying content without embedding: %w", err)
	}
	defer rows.Close()

	return scanContentRows(rows)
}

// CountReadyWithoutEmbedding counts ready rows lacking an embedding.
func (s *contentStore) CountReadyWithoutEmbedding(ctx context.Context, model string) (int, error) {
	var count int
	err := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM content_unified c
		WHERE c.ready_for_embedding = 1
		  AND NOT EXISTS (
			SELECT 1 FROM embeddings e
			WHERE e.content_id = c.id AND e.model = ?
		  )
	`, model).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting content without embedding: %w", err)
	}
	return count, nil
}

// escapeLike escapes LIKE metacharacters in user input.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// scanContentRow scans a single content row.
func scanContentRow(row *sql.Row) (*domain.Content, error) {
	var rec domain.Content
	var sourceType string
	var sha sql.NullString
	var metadataJSON sql.NullString
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&rec.ID, &sourceType, &rec.SourceID, &sha, &rec.ChunkIndex,
		&rec.Title, &rec.Body, &rec.ReadyForEmbedding, &metadataJSON,
		&createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning content: %w", err)
	}

	rec.SourceType = domain.SourceType(sourceType)
	rec.SHA256 = sha.String
	if err := unmarshalMetadata(metadataJSON, &rec.Metadata); err != nil {
		return nil, err
	}
	if createdAt.Valid {
		rec.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		rec.UpdatedAt = updatedAt.Time
	}

	return &rec, nil
}

// scanContentRows scans multiple content rows.
func scanContentRows(rows *sql.Rows) ([]domain.Content, error) {
	var recs []domain.Content //nolint:prealloc // size unknown from query
	for rows.Next() {
		var rec domain.Content
		var sourceType string
		var sha sql.NullString
		var metadataJSON sql.NullString
		var createdAt, updatedAt sql.NullTime

		if err := rows.Scan(&rec.ID, &sourceType, &rec.SourceID, &sha, &rec.ChunkIndex,
			&rec.Title, &rec.Body, &rec.ReadyForEmbedding, &metadataJSON,
			&createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scanning content: %w", err)
		}

		rec.SourceType = domain.SourceType(sourceType)
		rec.SHA256 = sha.String
		if err := unmarshalMetadata(metadataJSON, &rec.Metadata); err != nil {
			return nil, err
		}
		if createdAt.Valid {
			rec.CreatedAt = createdAt.Time
		}
		if updatedAt.Valid {
			rec.UpdatedAt = updatedAt.Time
		}
		recs = append(recs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating content: %w", err)
	}

	return recs, nil
}

// unmarshalMetadata decodes the metadata column when present.
func unmarshalMetadata(col sql.NullString, dst *map[string]any) error {
	if !col.Valid || col.String == "" || col.String == "null" {
		return nil
	}
	if err := json.Unmarshal([]byte(col.String), dst); err != nil {
		return fmt.Errorf("unmarshaling metadata: %w", err)
	}
	return nil
}
