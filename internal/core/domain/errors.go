package domain

import "errors"

// Domain errors represent retrieval failures.
// These are distinct from infrastructure errors, which adapters wrap.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding model could not be loaded
	// or reached. Every operation that needs vectors fails with it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrEmbeddingNotInitialized indicates Embed was called outside the
	// Initialize/Close window.
	ErrEmbeddingNotInitialized = errors.New("embedding service not initialized")

	// ErrDimensionMismatch indicates a vector does not match the collection dimension.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrStoreClosed indicates the vector collection has been closed.
	ErrStoreClosed = errors.New("vector store closed")

	// ErrVectorStoreUnavailable indicates no vector store is configured.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")
)
