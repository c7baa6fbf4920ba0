// Package memory provides in-memory implementations of the driven storage
// ports, used by service tests and as a reference for store semantics.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
	"github.com/custodia-labs/casechain-cli/internal/core/ports/driven"
)

// Ensure ContentStore implements the interface.
var _ driven.ContentStore = (*ContentStore)(nil)

// ContentStore is an in-memory implementation of driven.ContentStore.
// Rows are indexed by the business key, exactly like the unique
// constraint in the SQLite schema.
type ContentStore struct {
	mu    sync.RWMutex
	byKey map[string]domain.Content
	emb   *EmbeddingStore
}

// NewContentStore creates a new in-memory content store. The embedding
// store is consulted for the "ready without embedding" lookups; it may
// be nil when those are not exercised.
func NewContentStore(emb *EmbeddingStore) *ContentStore {
	return &ContentStore{
		byKey: make(map[string]domain.Content),
		emb:   emb,
	}
}

func businessKey(sourceType domain.SourceType, sourceID string) string {
	return string(sourceType) + "\x00" + sourceID
}

// Upsert inserts or updates a row keyed on the business key.
func (s *ContentStore) Upsert(_ context.Context, rec *domain.Content) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := businessKey(rec.SourceType, rec.SourceID)
	if existing, ok := s.byKey[key]; ok {
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
	}
	s.byKey[key] = *rec
	return nil
}

// InsertIfAbsent inserts a row unless its business key exists.
func (s *ContentStore) InsertIfAbsent(_ context.Context, rec *domain.Content) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := businessKey(rec.SourceType, rec.SourceID)
	if _, ok := s.byKey[key]; ok {
		return false, nil
	}
	s.byKey[key] = *rec
	return true, nil
}

// Get retrieves a content row by ID.
func (s *ContentStore) Get(_ context.Context, id string) (*domain.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.byKey {
		if rec.ID == id {
			out := rec
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Search returns rows matching the query.
func (s *ContentStore) Search(_ context.Context, q domain.ContentQuery) ([]domain.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}

	needle := strings.ToLower(q.Query)
	var out []domain.Content
	for _, rec := range s.byKey {
		if q.SourceType != "" && rec.SourceType != q.SourceType {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(rec.Title), needle) &&
			!strings.Contains(strings.ToLower(rec.Body), needle) {
			continue
		}
		out = append(out, rec)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListMissingSHA256 returns up to limit rows without a content hash.
func (s *ContentStore) ListMissingSHA256(
	_ context.Context,
	sourceType domain.SourceType,
	limit int,
) ([]domain.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Content
	for _, rec := range s.byKey {
		if rec.SHA256 != "" {
			continue
		}
		if sourceType != "" && rec.SourceType != sourceType {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountMissingSHA256 counts rows without a content hash.
func (s *ContentStore) CountMissingSHA256(_ context.Context, sourceType domain.SourceType) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, rec := range s.byKey {
		if rec.SHA256 != "" {
			continue
		}
		if sourceType != "" && rec.SourceType != sourceType {
			continue
		}
		count++
	}
	return count, nil
}

// SetSHA256 fills the content hash of one row.
func (s *ContentStore) SetSHA256(_ context.Context, id, sha256 string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, rec := range s.byKey {
		if rec.ID == id {
			rec.SHA256 = sha256
			s.byKey[key] = rec
			return nil
		}
	}
	return domain.ErrNotFound
}

// ListReadyWithoutEmbedding returns ready rows lacking an embedding.
func (s *ContentStore) ListReadyWithoutEmbedding(
	_ context.Context,
	model string,
	limit int,
) ([]domain.Content, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Content
	for _, rec := range s.byKey {
		if !rec.ReadyForEmbedding {
			continue
		}
		if s.emb != nil && s.emb.has(rec.ID, model) {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountReadyWithoutEmbedding counts ready rows lacking an embedding.
func (s *ContentStore) CountReadyWithoutEmbedding(_ context.Context, model string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, rec := range s.byKey {
		if !rec.ReadyForEmbedding {
			continue
		}
		if s.emb != nil && s.emb.has(rec.ID, model) {
			continue
		}
		count++
	}
	return count, nil
}

// All returns every stored row, for test assertions.
func (s *ContentStore) All() []domain.Content {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Content, 0, len(s.byKey))
	for _, rec := range s.byKey {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
