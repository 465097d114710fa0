// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The retrieval path is VectorStore (embed and store chunks), IngestService
// (walk, chunk and batch documents) and RetrieverService (threshold
// filtering and context assembly). Services are pure Go with no CGO.
package services
