// Package driven provides interfaces for external services called by the core.
package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// The model behind it has an explicit lifecycle: Initialize loads or
// connects to it once, Close releases it. Embed and EmbedBatch fail with
// domain.ErrEmbeddingNotInitialized outside that window. Initialize is safe
// to call concurrently and more than once; after it returns, Embed and
// EmbedBatch are safe for concurrent use.
type EmbeddingService interface {
	// Initialize loads the model. A load failure wraps
	// domain.ErrEmbeddingUnavailable.
	Initialize(ctx context.Context) error

	// Embed generates a vector embedding for a single query text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size. It is constant for
	// the lifetime of the service.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable and properly configured.
	// This is a lightweight check that does not generate embeddings.
	Ping(ctx context.Context) error

	// Close releases the model.
	Close() error
}
