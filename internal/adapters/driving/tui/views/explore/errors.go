package explore

import "errors"

// Error definitions for the explore view.
var (
	// ErrNoRetriever indicates that no retriever was provided.
	ErrNoRetriever = errors.New("retriever is required")

	// ErrNoActions indicates that result actions are unavailable.
	ErrNoActions = errors.New("result actions not available")
)
