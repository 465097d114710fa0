package driving

import (
	"context"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// Ingestor loads the knowledge base into the vector store.
type Ingestor interface {
	// Ingest walks the knowledge base, chunks every document and stores the
	// chunks. Per-file errors abort the run and are returned.
	Ingest(ctx context.Context, opts domain.IngestOptions) (*domain.IngestStats, error)

	// Clear removes every stored record and returns how many were removed.
	Clear(ctx context.Context) (int, error)
}
