package domain

import "time"

// DocumentChunk represents one hashed chunk of an ingested source document.
// A single physical document may be split into several ordered chunks; the
// chunk with index zero is the anchor used for document-level existence
// checks.
type DocumentChunk struct {
	// ChunkID is the unique identifier for the chunk.
	ChunkID string

	// SourceType identifies the ingestion path (upload, pdf, ...).
	SourceType SourceType

	// FileName is the original file name, if known.
	FileName string

	// SHA256 is the hash of the chunk's file bytes. Empty until the
	// hashing backfill has run; immutable once set.
	SHA256 string

	// ChunkIndex is the ordinal position within the document.
	ChunkIndex int

	// TextContent is the extracted text. Empty when extraction failed;
	// such chunks cannot be backfilled into content rows.
	TextContent string

	// CreatedAt is when the chunk was ingested.
	CreatedAt time.Time
}

// Anchor reports whether this chunk is the document's anchor chunk.
func (c DocumentChunk) Anchor() bool {
	return c.ChunkIndex == 0
}

// Hashed reports whether the chunk has a content hash.
func (c DocumentChunk) Hashed() bool {
	return c.SHA256 != ""
}
