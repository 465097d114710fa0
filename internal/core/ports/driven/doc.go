// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - EmbeddingService: Turns text into vectors (Ollama, OpenAI, local hashing)
//   - Collection: Record persistence with cosine nearest-neighbour queries (SQLite, memory)
//   - VectorStore: Chunk-level store that embeds on write and on query
//   - DocumentSource: Lists and reads knowledge-base markdown files
//   - PostProcessor: Chunking and chunk refinement steps
//   - ConfigStore: Persistent key/value configuration (TOML)
//
// None of these are optional: retrieval cannot run without an embedding
// service and a collection.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or postprocessor package
package driven
