package driven

import (
	"context"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// DocumentSource lists and reads knowledge-base documents.
type DocumentSource interface {
	// Root returns the knowledge-base root the source reads from.
	Root() string

	// List returns the slash-separated paths, relative to Root, of every
	// markdown document under subtree. A missing subtree yields no paths.
	List(ctx context.Context, subtree string) ([]string, error)

	// Read loads one document by the path List returned.
	Read(ctx context.Context, path string) (*domain.Document, error)
}
