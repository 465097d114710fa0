package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
	"github.com/custodia-labs/kbase/internal/logger"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// DefaultBatchSize is the number of chunks embedded and upserted together
// when the caller does not choose one.
const DefaultBatchSize = 100

// recordNamespace scopes the name-based UUIDs used as record IDs.
var recordNamespace = uuid.MustParse("5c4b2f1e-8d7a-4e3b-9f60-1a2b3c4d5e6f")

// RecordID returns the stable ID for the chunk at index within source.
// Re-ingesting the same chunk therefore overwrites it.
func RecordID(source string, index int) string {
	return uuid.NewSHA1(recordNamespace, fmt.Appendf(nil, "%s_%d", source, index)).String()
}

// VectorStore embeds chunks and stores them in a collection.
type VectorStore struct {
	collection driven.Collection
	embedder   driven.EmbeddingService
}

// NewVectorStore creates a vector store over collection.
// The embedder must already be initialized.
func NewVectorStore(collection driven.Collection, embedder driven.EmbeddingService) *VectorStore {
	return &VectorStore{
		collection: collection,
		embedder:   embedder,
	}
}

// AddChunks embeds and upserts chunks in batches of batchSize.
func (s *VectorStore) AddChunks(ctx context.Context, chunks []domain.Chunk, batchSize int) (int, error) {
	if len(chunks) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	added := 0
	for start := 0; start < len(chunks); start += batchSize {
		end := min(start+batchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}

		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return added, fmt.Errorf("embed batch %d-%d: %w", start, end, err)
		}
		if len(vectors) != len(batch) {
			return added, fmt.Errorf("embed batch %d-%d: got %d vectors for %d chunks",
				start, end, len(vectors), len(batch))
		}

		records := make([]domain.Record, len(batch))
		for i, c := range batch {
			records[i] = domain.Record{
				ID:        RecordID(c.Source, c.ChunkIndex),
				Document:  c.Content,
				Metadata:  c.Metadata(),
				Embedding: vectors[i],
			}
		}

		if err := s.collection.Upsert(ctx, records); err != nil {
			return added, fmt.Errorf("upsert batch %d-%d: %w", start, end, err)
		}
		added += len(batch)
		logger.Debug("Stored chunks %d-%d of %d", start, end, len(chunks))
	}

	return added, nil
}

// Search embeds query and returns the nearest records.
func (s *VectorStore) Search(ctx context.Context, query string, n int, category string) ([]domain.VectorHit, error) {
	if strings.TrimSpace(query) == "" || n <= 0 {
		return []domain.VectorHit{}, nil
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	hits, err := s.collection.Query(ctx, vector, n, category)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.collection.Name(), err)
	}
	for i := range hits {
		hits[i].Relevance = domain.RelevanceFromDistance(hits[i].Distance)
	}
	if hits == nil {
		hits = []domain.VectorHit{}
	}
	return hits, nil
}

// DeleteAll removes every record from the collection.
func (s *VectorStore) DeleteAll(ctx context.Context) (int, error) {
	n, err := s.collection.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear %s: %w", s.collection.Name(), err)
	}
	return n, nil
}

// Count returns the number of stored records.
func (s *VectorStore) Count(ctx context.Context) (int, error) {
	return s.collection.Count(ctx)
}

// Stats describes the collection and the embedding model.
func (s *VectorStore) Stats(ctx context.Context) (domain.StoreStats, error) {
	n, err := s.collection.Count(ctx)
	if err != nil {
		return domain.StoreStats{}, fmt.Errorf("stats: %w", err)
	}
	return domain.StoreStats{
		CollectionName:     s.collection.Name(),
		DocumentCount:      n,
		EmbeddingDimension: s.embedder.Dimensions(),
		EmbeddingModel:     s.embedder.ModelName(),
	}, nil
}
