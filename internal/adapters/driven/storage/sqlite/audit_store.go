package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/casechain-cli/internal/core/domain"
	"github.com/custodia-labs/casechain-cli/internal/core/ports/driven"
)

// auditStore implements driven.AuditStore with pure read queries.
type auditStore struct {
	store *Store
}

var _ driven.AuditStore = (*auditStore)(nil)

// ChainCounts runs every chain check and returns the counts.
func (s *auditStore) ChainCounts(ctx context.Context, model string) (*domain.VerifyCounts, error) {
	var counts domain.VerifyCounts

	checks := []struct {
		name  string
		query string
		args  []any
		dest  *int
	}{
		{
			name:  "docs_null_sha256",
			query: `SELECT COUNT(*) FROM documents WHERE sha256 IS NULL`,
			dest:  &counts.DocsNullSHA256,
		},
		{
			name: "doc_sha256_dupe_keys",
			query: `SELECT COUNT(*) FROM (
				SELECT sha256, chunk_index FROM documents
				WHERE sha256 IS NOT NULL
				GROUP BY sha256, chunk_index
				HAVING COUNT(*) > 1
			)`,
			dest: &counts.DocDupeKeys,
		},
		{
			name: "content_dupe_business_keys",
			query: `SELECT COUNT(*) FROM (
				SELECT source_type, source_id FROM content_unified
				GROUP BY source_type, source_id
				HAVING COUNT(*) > 1
			)`,
			dest: &counts.ContentDupeBusinessKeys,
		},
		{
			name: "content_sha256_dupe_keys",
			query: `SELECT COUNT(*) FROM (
				SELECT sha256, chunk_index FROM content_unified
				WHERE sha256 IS NOT NULL
				GROUP BY sha256, chunk_index
				HAVING COUNT(*) > 1
			)`,
			dest: &counts.ContentDupeSHAKeys,
		},
		{
			// Anchor chunks only: document-level existence, not per-chunk.
			name: "docs_without_content",
			query: `SELECT COUNT(*) FROM documents d
				WHERE d.chunk_index = 0
				  AND d.sha256 IS NOT NULL
				  AND NOT EXISTS (
					SELECT 1 FROM content_unified c
					WHERE c.sha256 = d.sha256 AND c.chunk_index = d.chunk_index
				  )`,
			dest: &counts.DocsWithoutContent,
		},
		{
			// Emails are legitimately created without a backing document.
			name: "content_without_doc",
			query: `SELECT COUNT(*) FROM content_unified c
				WHERE c.sha256 IS NOT NULL
				  AND c.source_type != ?
				  AND NOT EXISTS (
					SELECT 1 FROM documents d WHERE d.sha256 = c.sha256
				  )`,
			args: []any{string(domain.SourceEmail)},
			dest: &counts.ContentWithoutDoc,
		},
		{
			name: "content_without_embedding",
			query: `SELECT COUNT(*) FROM content_unified c
				WHERE c.ready_for_embedding = 1
				  AND NOT EXISTS (
					SELECT 1 FROM embeddings e
					WHERE e.content_id = c.id AND e.model = ?
				  )`,
			args: []any{model},
			dest: &counts.ContentWithoutEmbedding,
		},
	}

	for _, check := range checks {
		// Embedding coverage is only expected once a model is configured.
		if check.name == "content_without_embedding" && model == "" {
			continue
		}
		if err := s.store.db.QueryRowContext(ctx, check.query, check.args...).Scan(check.dest); err != nil {
			return nil, fmt.Errorf("running check %s: %w", check.name, err)
		}
	}

	return &counts, nil
}
