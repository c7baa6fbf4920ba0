package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
	"github.com/custodia-labs/casechain-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// The content store is consulted for the unlinked checks; it may be nil
// when those are not exercised.
type DocumentStore struct {
	mu      sync.RWMutex
	chunks  map[string]domain.DocumentChunk
	content *ContentStore
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore(content *ContentStore) *DocumentStore {
	return &DocumentStore{
		chunks:  make(map[string]domain.DocumentChunk),
		content: content,
	}
}

// SaveChunk stores or updates a document chunk. An existing hash is
// never overwritten.
func (s *DocumentStore) SaveChunk(_ context.Context, chunk *domain.DocumentChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *chunk
	if existing, ok := s.chunks[c.ChunkID]; ok && existing.SHA256 != "" {
		c.SHA256 = existing.SHA256
	}
	s.chunks[c.ChunkID] = c
	return nil
}

// GetChunk retrieves a chunk by ID.
func (s *DocumentStore) GetChunk(_ context.Context, chunkID string) (*domain.DocumentChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	chunk, ok := s.chunks[chunkID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &chunk, nil
}

// hasContentFor reports whether a content row matches the chunk's
// (sha256, chunk_index) pair.
func (s *DocumentStore) hasContentFor(chunk domain.DocumentChunk) bool {
	if s.content == nil {
		return false
	}
	s.content.mu.RLock()
	defer s.content.mu.RUnlock()

	for _, rec := range s.content.byKey {
		if rec.SHA256 == chunk.SHA256 && rec.ChunkIndex == chunk.ChunkIndex {
			return true
		}
	}
	return false
}

// ListUnlinked returns up to limit hashed chunks without a content row.
func (s *DocumentStore) ListUnlinked(
	_ context.Context,
	sourceType domain.SourceType,
	limit int,
) ([]domain.DocumentChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.DocumentChunk
	for _, chunk := range s.chunks {
		if chunk.SHA256 == "" {
			continue
		}
		if sourceType != "" && chunk.SourceType != sourceType {
			continue
		}
		if s.hasContentFor(chunk) {
			continue
		}
		out = append(out, chunk)
	}
	// Chunks with extracted text sort first, as in the sqlite store.
	sort.Slice(out, func(i, j int) bool {
		ei := strings.TrimSpace(out[i].TextContent) == ""
		ej := strings.TrimSpace(out[j].TextContent) == ""
		if ei != ej {
			return ej
		}
		return out[i].ChunkID < out[j].ChunkID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// CountUnlinked counts hashed chunks without a content row.
func (s *DocumentStore) CountUnlinked(_ context.Context, sourceType domain.SourceType) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, chunk := range s.chunks {
		if chunk.SHA256 == "" {
			continue
		}
		if sourceType != "" && chunk.SourceType != sourceType {
			continue
		}
		if s.hasContentFor(chunk) {
			continue
		}
		count++
	}
	return count, nil
}

// FindHashForContent looks up a document hash for a content row.
func (s *DocumentStore) FindHashForContent(_ context.Context, sourceID string, chunkIndex int) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if chunk, ok := s.chunks[sourceID]; ok && chunk.SHA256 != "" {
		return chunk.SHA256, nil
	}

	var ids []string
	for id := range s.chunks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		chunk := s.chunks[id]
		if chunk.ChunkIndex == chunkIndex && chunk.SHA256 != "" {
			return chunk.SHA256, nil
		}
	}
	return "", nil
}
