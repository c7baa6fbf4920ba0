package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
	"github.com/custodia-labs/casechain-cli/internal/core/ports/driven"
)

// embeddingStore implements driven.EmbeddingStore.
type embeddingStore struct {
	store *Store
}

var _ driven.EmbeddingStore = (*embeddingStore)(nil)

// Save stores an embedding unless its (content_id, model) pair exists.
func (s *embeddingStore) Save(ctx context.Context, emb *domain.Embedding) (bool, error) {
	if emb.ContentID == "" || emb.Model == "" {
		return false, domain.ErrInvalidInput
	}
	if emb.CreatedAt.IsZero() {
		emb.CreatedAt = time.Now().UTC()
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO embeddings (id, content_id, model, dim, vector, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, emb.ID, emb.ContentID, emb.Model, emb.Dim,
		float32SliceToBytes(emb.Vector), emb.CreatedAt)

	if err != nil {
		return false, fmt.Errorf("saving embedding: %w", mapBusy(err))
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reading rows affected: %w", err)
	}
	return affected > 0, nil
}

// Get retrieves the embedding for a content row under one model.
func (s *embeddingStore) Get(ctx context.Context, contentID, model string) (*domain.Embedding, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, content_id, model, dim, vector, created_at
		FROM embeddings WHERE content_id = ? AND model = ?
	`, contentID, model)

	var emb domain.Embedding
	var vectorBlob []byte
	var createdAt sql.NullTime
	if err := row.Scan(&emb.ID, &emb.ContentID, &emb.Model, &emb.Dim,
		&vectorBlob, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning embedding: %w", err)
	}

	emb.Vector = bytesToFloat32Slice(vectorBlob)
	if createdAt.Valid {
		emb.CreatedAt = createdAt.Time
	}

	return &emb, nil
}

// DeleteByContent removes all embeddings owned by a content row.
func (s *embeddingStore) DeleteByContent(ctx context.Context, contentID string) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM embeddings WHERE content_id = ?", contentID)
	if err != nil {
		return fmt.Errorf("deleting embeddings: %w", mapBusy(err))
	}
	return nil
}
