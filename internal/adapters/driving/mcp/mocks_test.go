package mcp

import (
	"context"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// mockRetriever is a mock implementation of driving.Retriever.
type mockRetriever struct {
	results  []domain.RetrievalResult
	context  string
	relevant bool
	stats    domain.StoreStats
	err      error

	lastQuery     string
	lastSearch    domain.SearchOptions
	lastContext   domain.ContextOptions
	lastThreshold float64
}

func (m *mockRetriever) Search(
	_ context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.RetrievalResult, error) {
	m.lastQuery = query
	m.lastSearch = opts
	return m.results, m.err
}

func (m *mockRetriever) GetContext(_ context.Context, query string, opts domain.ContextOptions) (string, error) {
	m.lastQuery = query
	m.lastContext = opts
	return m.context, m.err
}

func (m *mockRetriever) IsRelevantQuery(_ context.Context, query string, threshold float64) (bool, error) {
	m.lastQuery = query
	m.lastThreshold = threshold
	return m.relevant, m.err
}

func (m *mockRetriever) Stats(_ context.Context) (domain.StoreStats, error) {
	return m.stats, m.err
}
