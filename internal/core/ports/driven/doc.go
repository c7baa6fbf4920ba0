// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ContentStore: Canonical content persistence and business-key upserts
//   - DocumentStore: Source document chunk persistence
//   - EmbeddingStore: Embedding row persistence
//   - AuditStore: Read-only chain-integrity counts
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, the
//     embedding linker is disabled.
//   - VectorIndex: Mirror of stored embeddings for similarity search.
//     Without it, embeddings are stored locally only.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
