package domain

import "time"

// SourceType identifies the kind of source record a content row came from.
type SourceType string

// Known source types. The store accepts unknown values so new ingestion
// adapters do not require a schema change.
const (
	SourceUpload     SourceType = "upload"
	SourcePDF        SourceType = "pdf"
	SourceEmail      SourceType = "email"
	SourceTranscript SourceType = "transcript"
)

// Content is the canonical, deduplicated representation of one piece of
// ingested text. Rows are keyed by the business key (SourceType, SourceID):
// at most one row may exist per key, independent of the surrogate ID.
type Content struct {
	// ID is the deterministic identifier, derived from the business key.
	// Re-ingesting the same source record always yields the same ID.
	ID string

	// SourceType identifies which adapter produced this row.
	SourceType SourceType

	// SourceID is the business identifier within the source type,
	// e.g. a document chunk ID or an email message hash.
	SourceID string

	// SHA256 is the content hash used to cross-reference document chunks.
	// Empty until derived; a backfill pass pairs it with a document hash
	// or synthesizes a stable placeholder from the body.
	SHA256 string

	// ChunkIndex is the ordinal position within a multi-chunk document.
	// Zero for single-unit content such as emails.
	ChunkIndex int

	// Title is the human-readable title. May be empty.
	Title string

	// Body is the extracted text. May be empty; validation is the
	// caller's responsibility, not the store's.
	Body string

	// ReadyForEmbedding marks the row as eligible for the embedding
	// pipeline. Never set for rows with an empty body.
	ReadyForEmbedding bool

	// Metadata contains arbitrary key-value pairs from the adapter.
	Metadata map[string]any

	// CreatedAt is when the row was first written.
	CreatedAt time.Time

	// UpdatedAt is when the row was last upserted.
	UpdatedAt time.Time
}

// ContentQuery describes a content search.
type ContentQuery struct {
	// Query is a substring to match against title and body.
	// Empty matches everything (bounded by Limit).
	Query string

	// SourceType restricts results to one source type when non-empty.
	SourceType SourceType

	// Limit caps the number of results. Non-positive means the
	// store's default page size.
	Limit int
}
