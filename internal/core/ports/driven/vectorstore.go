package driven

import (
	"context"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// VectorStore stores chunks with their embeddings and searches them by text.
// It owns the embedding step, so callers deal in chunks and query strings.
type VectorStore interface {
	// AddChunks embeds and upserts chunks in batches of batchSize.
	// Returns the number of chunks added; an empty slice adds nothing.
	AddChunks(ctx context.Context, chunks []domain.Chunk, batchSize int) (int, error)

	// Search embeds query and returns up to n hits ordered by increasing
	// distance, optionally restricted to a category.
	Search(ctx context.Context, query string, n int, category string) ([]domain.VectorHit, error)

	// DeleteAll removes every stored record.
	DeleteAll(ctx context.Context) (int, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Stats returns collection name, record count and embedding details.
	Stats(ctx context.Context) (domain.StoreStats, error)
}
