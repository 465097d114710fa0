package driving

import (
	"context"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// ResultActionService performs user actions on a retrieval result.
type ResultActionService interface {
	// CopyToClipboard copies the result content to the system clipboard.
	CopyToClipboard(ctx context.Context, result *domain.RetrievalResult) error

	// OpenSource opens the result's source document with the default application.
	OpenSource(ctx context.Context, result *domain.RetrievalResult) error
}
