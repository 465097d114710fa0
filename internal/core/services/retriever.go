package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
	"github.com/custodia-labs/kbase/internal/logger"
)

// Ensure RetrieverService implements the interface.
var _ driving.Retriever = (*RetrieverService)(nil)

// Retriever defaults.
const (
	DefaultResults                = 5
	DefaultRelevanceThreshold     = 0.3
	DefaultRelevantQueryThreshold = 0.4
	DefaultMaxContextLength       = 4000
)

const (
	// minTruncatedBlock is the smallest remaining budget worth a cut block.
	minTruncatedBlock = 200

	// truncationSlack is the least a cut block gives up from the remaining
	// budget. Long headers take more.
	truncationSlack = 50

	truncationMarker = "..."
)

// Fallbacks for chunks stored without metadata.
const (
	unknownHeading = "Unknown"
	unknownValue   = "unknown"
)

// RetrieverConfig tunes a RetrieverService. Zero fields take the defaults.
type RetrieverConfig struct {
	DefaultResults         int
	RelevanceThreshold     float64
	RelevantQueryThreshold float64
	MaxContextLength       int
}

func (c RetrieverConfig) withDefaults() RetrieverConfig {
	if c.DefaultResults <= 0 {
		c.DefaultResults = DefaultResults
	}
	if c.RelevanceThreshold <= 0 {
		c.RelevanceThreshold = DefaultRelevanceThreshold
	}
	if c.RelevantQueryThreshold <= 0 {
		c.RelevantQueryThreshold = DefaultRelevantQueryThreshold
	}
	if c.MaxContextLength <= 0 {
		c.MaxContextLength = DefaultMaxContextLength
	}
	return c
}

// RetrieverService answers queries from a vector store.
// It holds no state besides the store and its settings.
type RetrieverService struct {
	store driven.VectorStore
	cfg   RetrieverConfig
}

// NewRetrieverService creates a retriever over store.
func NewRetrieverService(store driven.VectorStore, cfg RetrieverConfig) *RetrieverService {
	return &RetrieverService{
		store: store,
		cfg:   cfg.withDefaults(),
	}
}

// Config returns the effective settings.
func (s *RetrieverService) Config() RetrieverConfig {
	return s.cfg
}

// Search returns relevant results for query, best first.
func (s *RetrieverService) Search(
	ctx context.Context, query string, opts domain.SearchOptions,
) ([]domain.RetrievalResult, error) {
	logger.Section("Search")
	logger.Debug("Query: %q", query)

	if s.store == nil {
		return nil, domain.ErrVectorStoreUnavailable
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = s.cfg.DefaultResults
	}
	logger.Debug("Limit: %d, category: %q", limit, opts.Category)

	hits, err := s.store.Search(ctx, query, limit, opts.Category)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	results := make([]domain.RetrievalResult, 0, len(hits))
	for _, hit := range hits {
		if !opts.IncludeLowRelevance && hit.Relevance < s.cfg.RelevanceThreshold {
			logger.Debug("Dropping %s (relevance %.3f)", hit.ID, hit.Relevance)
			continue
		}
		results = append(results, toResult(hit))
	}

	logger.Debug("Returning %d of %d hits", len(results), len(hits))
	return results, nil
}

func toResult(hit domain.VectorHit) domain.RetrievalResult {
	return domain.RetrievalResult{
		Content:   hit.Content,
		Title:     orDefault(hit.Metadata.Title, unknownHeading),
		Section:   orDefault(hit.Metadata.Section, unknownHeading),
		Category:  orDefault(hit.Metadata.Category, unknownValue),
		Source:    orDefault(hit.Metadata.Source, unknownValue),
		Relevance: hit.Relevance,
	}
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// GetContext assembles the relevant results into one markdown string no
// longer than the budget, measured in characters.
func (s *RetrieverService) GetContext(ctx context.Context, query string, opts domain.ContextOptions) (string, error) {
	results, err := s.Search(ctx, query, domain.SearchOptions{Limit: opts.Limit})
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "", nil
	}

	maxLength := opts.MaxLength
	if maxLength <= 0 {
		maxLength = s.cfg.MaxContextLength
	}

	parts := make([]string, 0, len(results))
	current := 0
	for _, r := range results {
		part := formatBlock(r.Title, r.Section, r.Content)
		length := utf8.RuneCountInString(part)
		if len(parts) > 0 {
			length++ // joining newline
		}

		if current+length > maxLength {
			sep := length - utf8.RuneCountInString(part)
			remaining := maxLength - current - sep
			if remaining > minTruncatedBlock {
				// The cut block, header and marker included, fits in what remains.
				overhead := utf8.RuneCountInString(formatBlock(r.Title, r.Section, truncationMarker))
				if n := min(remaining-truncationSlack, remaining-overhead); n > 0 {
					block := formatBlock(r.Title, r.Section, truncateRunes(r.Content, n)+truncationMarker)
					parts = append(parts, block)
					current += sep + utf8.RuneCountInString(block)
				}
			}
			break
		}

		parts = append(parts, part)
		current += length
	}

	logger.Debug("Context: %d blocks, %d characters", len(parts), current)
	return strings.Join(parts, "\n"), nil
}

func formatBlock(title, section, content string) string {
	return fmt.Sprintf("## %s - %s\n\n%s\n", title, section, content)
}

func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// IsRelevantQuery reports whether the best match reaches threshold.
func (s *RetrieverService) IsRelevantQuery(ctx context.Context, query string, threshold float64) (bool, error) {
	if threshold <= 0 {
		threshold = s.cfg.RelevantQueryThreshold
	}

	results, err := s.Search(ctx, query, domain.SearchOptions{Limit: 1, IncludeLowRelevance: true})
	if err != nil {
		return false, err
	}
	if len(results) == 0 {
		return false, nil
	}

	logger.Debug("Top relevance %.3f, threshold %.3f", results[0].Relevance, threshold)
	return results[0].Relevance >= threshold, nil
}

// Stats returns the store statistics.
func (s *RetrieverService) Stats(ctx context.Context) (domain.StoreStats, error) {
	if s.store == nil {
		return domain.StoreStats{}, domain.ErrVectorStoreUnavailable
	}
	return s.store.Stats(ctx)
}
