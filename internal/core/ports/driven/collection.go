package driven

import (
	"context"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// Collection is a named set of records indexed for cosine nearest-neighbour
// search. Implementations must be safe for concurrent use.
type Collection interface {
	// Name returns the collection name.
	Name() string

	// Upsert inserts records, overwriting any with the same ID.
	// All embeddings in a collection share one dimension.
	Upsert(ctx context.Context, records []domain.Record) error

	// Query returns up to n records nearest to vector by cosine distance,
	// ordered by increasing distance. A non-empty category restricts the
	// candidates to records with that category. An empty collection yields
	// an empty slice.
	Query(ctx context.Context, vector []float32, n int, category string) ([]domain.VectorHit, error)

	// DeleteAll removes every record and returns how many were removed.
	DeleteAll(ctx context.Context) (int, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}
