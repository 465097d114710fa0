// Package domain defines the core retrieval entities for kbase.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A markdown file read from the knowledge base
//   - Chunk: A bounded, provenance-tagged span of a document
//   - Record: A chunk with its embedding, as held by a collection
//   - VectorHit: A nearest-neighbour match with distance and relevance
//   - RetrievalResult: A hit materialised for retrieval callers
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
