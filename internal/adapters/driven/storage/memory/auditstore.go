package memory

import (
	"context"
	"strconv"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
	"github.com/custodia-labs/casechain-cli/internal/core/ports/driven"
)

// Ensure AuditStore implements the interface.
var _ driven.AuditStore = (*AuditStore)(nil)

// AuditStore computes chain counts over the in-memory stores.
// It mirrors the SQL checks of the sqlite adapter closely enough for
// verifier service tests. The in-memory content store cannot hold
// duplicate business keys, so that count is always zero here.
type AuditStore struct {
	content *ContentStore
	docs    *DocumentStore
	emb     *EmbeddingStore
}

// NewAuditStore creates an audit store over the given fakes.
func NewAuditStore(content *ContentStore, docs *DocumentStore, emb *EmbeddingStore) *AuditStore {
	return &AuditStore{
		content: content,
		docs:    docs,
		emb:     emb,
	}
}

// ChainCounts returns the per-check counts for the given model.
func (s *AuditStore) ChainCounts(_ context.Context, model string) (*domain.VerifyCounts, error) {
	var counts domain.VerifyCounts

	s.docs.mu.RLock()
	docHashKeys := make(map[string]int)
	docHashes := make(map[string]bool)
	var anchors []domain.DocumentChunk
	for _, chunk := range s.docs.chunks {
		if chunk.SHA256 == "" {
			counts.DocsNullSHA256++
			continue
		}
		docHashKeys[hashKey(chunk.SHA256, chunk.ChunkIndex)]++
		docHashes[chunk.SHA256] = true
		if chunk.Anchor() {
			anchors = append(anchors, chunk)
		}
	}
	s.docs.mu.RUnlock()

	for _, n := range docHashKeys {
		if n > 1 {
			counts.DocDupeKeys++
		}
	}

	s.content.mu.RLock()
	contentHashKeys := make(map[string]int)
	for _, rec := range s.content.byKey {
		if rec.SHA256 == "" {
			continue
		}
		contentHashKeys[hashKey(rec.SHA256, rec.ChunkIndex)]++
		if rec.SourceType != domain.SourceEmail && !docHashes[rec.SHA256] {
			counts.ContentWithoutDoc++
		}
	}
	for _, chunk := range anchors {
		if contentHashKeys[hashKey(chunk.SHA256, chunk.ChunkIndex)] == 0 {
			counts.DocsWithoutContent++
		}
	}
	if model != "" {
		for _, rec := range s.content.byKey {
			if rec.ReadyForEmbedding && (s.emb == nil || !s.emb.has(rec.ID, model)) {
				counts.ContentWithoutEmbedding++
			}
		}
	}
	s.content.mu.RUnlock()

	for _, n := range contentHashKeys {
		if n > 1 {
			counts.ContentDupeSHAKeys++
		}
	}

	return &counts, nil
}

func hashKey(sha256 string, chunkIndex int) string {
	return sha256 + "\x00" + strconv.Itoa(chunkIndex)
}
