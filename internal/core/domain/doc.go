// Package domain defines the core business entities for specdex.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ExtractionResult: Raw text and metadata pulled out of one document
//   - Chunk: An overlapping slice of normalized document text, the unit
//     that is embedded, indexed and retrieved
//   - RetrievedDocument: A scored chunk returned for a query
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
