// Package category tags chunks with a topical category inferred from the
// document's location in the knowledge base.
package category

import (
	"context"
	"path"
	"slices"
	"strings"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// Category values used when no tools category applies.
const (
	General = "general"
	Unknown = "unknown"
)

// Processor sets Category on every chunk it receives.
// It implements the PostProcessor interface.
type Processor struct{}

// New creates a category processor.
func New() *Processor {
	return &Processor{}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "category"
}

// Process tags each chunk with the category of doc.
func (p *Processor) Process(_ context.Context, doc *domain.Document, chunks []domain.Chunk) ([]domain.Chunk, error) {
	cat := FromPath(doc.Path)
	for i := range chunks {
		chunks[i].Category = cat
	}
	return chunks, nil
}

// FromPath infers a category from a slash-separated path.
//
// For tools/<category>/<file> the category is the directory after "tools",
// provided it is not the file itself. Otherwise any "general" segment yields
// "general", and everything else is "unknown".
func FromPath(p string) string {
	parts := strings.Split(path.Clean(strings.ReplaceAll(p, "\\", "/")), "/")

	if idx := slices.Index(parts, domain.SubtreeTools); idx >= 0 {
		if idx+1 < len(parts)-1 {
			return parts[idx+1]
		}
	}

	if slices.Contains(parts, domain.SubtreeGeneral) {
		return General
	}

	return Unknown
}
