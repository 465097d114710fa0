// Package messages defines Bubbletea message types for the explorer.
package messages

import (
	"github.com/custodia-labs/kbase/internal/core/domain"
)

// SearchCompleted carries the results and assembled context for a query.
type SearchCompleted struct {
	Query   string
	Results []domain.RetrievalResult
	Context string
	Err     error
}

// ActionCompleted reports the outcome of a result action such as copy or open.
type ActionCompleted struct {
	Message string
	Err     error
}

// ErrorOccurred is sent when an error needs to be displayed.
type ErrorOccurred struct {
	Err error
}

// Quit is sent when the explorer should exit.
type Quit struct{}
