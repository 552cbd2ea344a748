// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Extractor: Pulls raw text and metadata out of one document format
//   - ExtractorRegistry: Dispatches extraction by file extension
//   - EmbeddingService: Generates vector embeddings
//   - VectorIndex: Stores embedded chunks and answers nearest-neighbour queries
//   - ChunkStore: Persists chunk records between pipeline stages
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
