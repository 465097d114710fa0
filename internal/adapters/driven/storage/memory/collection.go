// Package memory provides an ephemeral in-memory vector collection.
// It backs the "memory" store backend and is handy in tests.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/kbase/internal/adapters/driven/storage/cosine"
	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
)

// Ensure Collection implements the interface.
var _ driven.Collection = (*Collection)(nil)

// Collection holds records in a map and ranks them by exact cosine distance.
type Collection struct {
	mu        sync.RWMutex
	name      string
	records   map[string]domain.Record
	dimension int
	closed    bool
}

// NewCollection creates an empty collection.
func NewCollection(name string) *Collection {
	return &Collection{
		name:    name,
		records: make(map[string]domain.Record),
	}
}

// Name returns the collection name.
func (c *Collection) Name() string {
	return c.name
}

// Upsert stores records, replacing any with the same ID.
// The batch is validated before anything is written.
func (c *Collection) Upsert(_ context.Context, records []domain.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return domain.ErrStoreClosed
	}
	if len(records) == 0 {
		return nil
	}

	dim := c.dimension
	if dim == 0 {
		dim = len(records[0].Embedding)
		if dim == 0 {
			return fmt.Errorf("record %s: %w: empty embedding", records[0].ID, domain.ErrInvalidInput)
		}
	}
	for _, rec := range records {
		if len(rec.Embedding) != dim {
			return fmt.Errorf("record %s has %d dimensions, collection %s has %d: %w",
				rec.ID, len(rec.Embedding), c.name, dim, domain.ErrDimensionMismatch)
		}
	}

	c.dimension = dim
	for _, rec := range records {
		// Copy the vector so later caller mutations do not leak in.
		rec.Embedding = append([]float32(nil), rec.Embedding...)
		c.records[rec.ID] = rec
	}
	return nil
}

// Query returns up to n records nearest to vector.
func (c *Collection) Query(_ context.Context, vector []float32, n int, category string) ([]domain.VectorHit, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, domain.ErrStoreClosed
	}
	if len(c.records) == 0 || n <= 0 {
		return []domain.VectorHit{}, nil
	}
	if len(vector) != c.dimension {
		return nil, fmt.Errorf("query has %d dimensions, collection %s has %d: %w",
			len(vector), c.name, c.dimension, domain.ErrDimensionMismatch)
	}

	ranker := cosine.NewRanker(vector, n)
	for _, rec := range c.records {
		if category != "" && rec.Metadata.Category != category {
			continue
		}
		ranker.Add(rec)
	}
	return ranker.Hits(), nil
}

// DeleteAll removes every record and forgets the dimension.
func (c *Collection) DeleteAll(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, domain.ErrStoreClosed
	}
	n := len(c.records)
	c.records = make(map[string]domain.Record)
	c.dimension = 0
	return n, nil
}

// Count returns the number of records.
func (c *Collection) Count(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return 0, domain.ErrStoreClosed
	}
	return len(c.records), nil
}

// Close drops all records.
func (c *Collection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	c.records = nil
	return nil
}
