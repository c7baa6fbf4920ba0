package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
	"github.com/custodia-labs/casechain-cli/internal/core/ports/driven"
)

// Ensure EmbeddingStore implements the interface.
var _ driven.EmbeddingStore = (*EmbeddingStore)(nil)

// EmbeddingStore is an in-memory implementation of driven.EmbeddingStore.
type EmbeddingStore struct {
	mu     sync.RWMutex
	byPair map[string]domain.Embedding
}

// NewEmbeddingStore creates a new in-memory embedding store.
func NewEmbeddingStore() *EmbeddingStore {
	return &EmbeddingStore{
		byPair: make(map[string]domain.Embedding),
	}
}

func pairKey(contentID, model string) string {
	return contentID + "\x00" + model
}

func (s *EmbeddingStore) has(contentID, model string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byPair[pairKey(contentID, model)]
	return ok
}

// Save stores an embedding unless its (content_id, model) pair exists.
func (s *EmbeddingStore) Save(_ context.Context, emb *domain.Embedding) (bool, error) {
	if emb.ContentID == "" || emb.Model == "" {
		return false, domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey(emb.ContentID, emb.Model)
	if _, ok := s.byPair[key]; ok {
		return false, nil
	}
	s.byPair[key] = *emb
	return true, nil
}

// Get retrieves the embedding for a content row under one model.
func (s *EmbeddingStore) Get(_ context.Context, contentID, model string) (*domain.Embedding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	emb, ok := s.byPair[pairKey(contentID, model)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &emb, nil
}

// DeleteByContent removes all embeddings owned by a content row.
func (s *EmbeddingStore) DeleteByContent(_ context.Context, contentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, emb := range s.byPair {
		if emb.ContentID == contentID {
			delete(s.byPair, key)
		}
	}
	return nil
}

// Count returns the number of stored embeddings, for test assertions.
func (s *EmbeddingStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byPair)
}
