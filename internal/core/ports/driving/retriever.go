package driving

import (
	"context"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// Retriever answers queries against the knowledge base.
type Retriever interface {
	// Search returns results ranked by relevance. Results below the
	// relevance threshold are dropped unless opts.IncludeLowRelevance is set.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.RetrievalResult, error)

	// GetContext assembles a length-bounded context string from the search
	// results, for a text generator to ground on. Returns "" when nothing
	// relevant was found.
	GetContext(ctx context.Context, query string, opts domain.ContextOptions) (string, error)

	// IsRelevantQuery reports whether the best match for query reaches threshold.
	// A threshold of zero or less uses the retriever default.
	IsRelevantQuery(ctx context.Context, query string, threshold float64) (bool, error)

	// Stats returns the underlying store statistics.
	Stats(ctx context.Context) (domain.StoreStats, error)
}
