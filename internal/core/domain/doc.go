// Package domain defines the core business entities for Casechain.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Content: A canonical, deduplicated content record
//   - DocumentChunk: One hashed chunk of an ingested source document
//   - Embedding: A vector representation of a content record under one model
//   - BackfillReport / VerifyReport / EmbedReport: Typed batch results
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
