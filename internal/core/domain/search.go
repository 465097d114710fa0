package domain

import (
	"fmt"
	"unicode/utf8"
)

// SearchOptions configures a retrieval query.
type SearchOptions struct {
	// Limit is the maximum number of results. Zero means the retriever default.
	Limit int

	// Category restricts results to chunks with this category. Empty means all.
	Category string

	// IncludeLowRelevance keeps results below the relevance threshold.
	IncludeLowRelevance bool
}

// ContextOptions configures context assembly.
type ContextOptions struct {
	// Limit is the number of results to consider. Zero means the retriever default.
	Limit int

	// MaxLength is the context budget in characters. Zero means the retriever default.
	MaxLength int
}

// RetrievalResult is a single search hit materialised for callers.
// It is not persisted.
type RetrievalResult struct {
	Content   string  `json:"content" yaml:"content"`
	Title     string  `json:"title" yaml:"title"`
	Section   string  `json:"section" yaml:"section"`
	Category  string  `json:"category" yaml:"category"`
	Source    string  `json:"source" yaml:"source"`
	Relevance float64 `json:"relevance" yaml:"relevance"`
}

// previewLength is the number of content characters shown by String.
const previewLength = 200

// String renders the result as a header line and a content preview.
func (r RetrievalResult) String() string {
	preview := r.Content
	if utf8.RuneCountInString(preview) > previewLength {
		preview = string([]rune(preview)[:previewLength])
	}
	return fmt.Sprintf("[%s - %s] (%.2f%%)\n%s...", r.Title, r.Section, r.Relevance*100, preview)
}
