package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/kbase/internal/core/domain"
)

func chunk(source string, index int, content, category string) domain.Chunk {
	return domain.Chunk{
		Content:    content,
		Source:     source,
		Title:      "Title " + source,
		Section:    "Section",
		ChunkIndex: index,
		Category:   category,
		FileName:   source + ".md",
	}
}

func newTestVectorStore() (*VectorStore, *mockEmbeddingService) {
	embedder := &mockEmbeddingService{
		vectors: map[string][]float32{
			"goggles": {1, 0, 0},
			"drill":   {0, 1, 0},
		},
	}
	return NewVectorStore(memory.NewCollection("kb"), embedder), embedder
}

func TestRecordID(t *testing.T) {
	assert.Equal(t, RecordID("a.md", 0), RecordID("a.md", 0))
	assert.NotEqual(t, RecordID("a.md", 0), RecordID("a.md", 1))
	assert.NotEqual(t, RecordID("a.md", 0), RecordID("b.md", 0))
	assert.Len(t, RecordID("a.md", 0), 36)
}

func TestVectorStore_AddChunks(t *testing.T) {
	store, embedder := newTestVectorStore()
	ctx := context.Background()

	chunks := make([]domain.Chunk, 7)
	for i := range chunks {
		chunks[i] = chunk("doc", i, fmt.Sprintf("text %d", i), "general")
	}

	n, err := store.AddChunks(ctx, chunks, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, []int{3, 3, 1}, embedder.batchSizes)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestVectorStore_AddChunks_Empty(t *testing.T) {
	store, embedder := newTestVectorStore()

	n, err := store.AddChunks(context.Background(), nil, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, embedder.batchSizes)
}

func TestVectorStore_AddChunks_DefaultBatchSize(t *testing.T) {
	store, embedder := newTestVectorStore()

	chunks := make([]domain.Chunk, DefaultBatchSize+1)
	for i := range chunks {
		chunks[i] = chunk("doc", i, "text", "")
	}

	_, err := store.AddChunks(context.Background(), chunks, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{DefaultBatchSize, 1}, embedder.batchSizes)
}

func TestVectorStore_AddChunks_Idempotent(t *testing.T) {
	store, _ := newTestVectorStore()
	ctx := context.Background()
	chunks := []domain.Chunk{chunk("a", 0, "one", ""), chunk("a", 1, "two", "")}

	_, err := store.AddChunks(ctx, chunks, 10)
	require.NoError(t, err)
	_, err = store.AddChunks(ctx, chunks, 10)
	require.NoError(t, err)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestVectorStore_AddChunks_EmbedError(t *testing.T) {
	store, embedder := newTestVectorStore()
	embedder.batchErr = domain.ErrEmbeddingNotInitialized

	n, err := store.AddChunks(context.Background(), []domain.Chunk{chunk("a", 0, "x", "")}, 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingNotInitialized)
	assert.Equal(t, 0, n)
}

func TestVectorStore_Search(t *testing.T) {
	store, _ := newTestVectorStore()
	ctx := context.Background()

	_, err := store.AddChunks(ctx, []domain.Chunk{
		chunk("safety", 0, "Wear goggles.", "general"),
		chunk("drill", 0, "Hold the drill firmly.", "power"),
	}, 10)
	require.NoError(t, err)

	hits, err := store.Search(ctx, "goggles", 1, "")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Wear goggles.", hits[0].Content)
	assert.Equal(t, "safety", hits[0].Metadata.Source)
	assert.InDelta(t, 0, hits[0].Distance, 1e-9)
	assert.InDelta(t, 1, hits[0].Relevance, 1e-9)

	hits, err = store.Search(ctx, "goggles", 5, "power")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "drill", hits[0].Metadata.Source)
	assert.InDelta(t, 0, hits[0].Relevance, 1e-9)
}

func TestVectorStore_Search_OrderedByDistance(t *testing.T) {
	embedder := &mockEmbeddingService{
		vectors: map[string][]float32{
			"query": {1, 0, 0},
			"close": {0.9, 0.1, 0},
			"mid":   {0.5, 0.5, 0},
			"far":   {0, 0, 1},
		},
	}
	store := NewVectorStore(memory.NewCollection("kb"), embedder)
	ctx := context.Background()

	_, err := store.AddChunks(ctx, []domain.Chunk{
		chunk("far", 0, "far", ""),
		chunk("close", 0, "close", ""),
		chunk("mid", 0, "mid", ""),
	}, 10)
	require.NoError(t, err)

	hits, err := store.Search(ctx, "query", 3, "")
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "close", hits[0].Content)
	assert.Equal(t, "mid", hits[1].Content)
	assert.Equal(t, "far", hits[2].Content)
	for i := 1; i < len(hits); i++ {
		assert.LessOrEqual(t, hits[i-1].Distance, hits[i].Distance)
		assert.GreaterOrEqual(t, hits[i-1].Relevance, hits[i].Relevance)
	}
}

func TestVectorStore_Search_Empty(t *testing.T) {
	store, embedder := newTestVectorStore()
	ctx := context.Background()

	hits, err := store.Search(ctx, "goggles", 5, "")
	require.NoError(t, err)
	assert.NotNil(t, hits)
	assert.Empty(t, hits)

	hits, err = store.Search(ctx, "   ", 5, "")
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.Equal(t, 1, embedder.embedCalls)
}

func TestVectorStore_Search_EmbedError(t *testing.T) {
	store, embedder := newTestVectorStore()
	embedder.embedErr = domain.ErrEmbeddingUnavailable

	_, err := store.Search(context.Background(), "goggles", 5, "")
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestVectorStore_DeleteAllAndStats(t *testing.T) {
	store, _ := newTestVectorStore()
	ctx := context.Background()

	_, err := store.AddChunks(ctx, []domain.Chunk{chunk("a", 0, "x", ""), chunk("b", 0, "y", "")}, 10)
	require.NoError(t, err)

	stats, err := store.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StoreStats{
		CollectionName:     "kb",
		DocumentCount:      2,
		EmbeddingDimension: 3,
		EmbeddingModel:     "mock-model",
	}, stats)

	n, err := store.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestVectorStore_Closed(t *testing.T) {
	collection := memory.NewCollection("kb")
	store := NewVectorStore(collection, &mockEmbeddingService{})
	require.NoError(t, collection.Close())

	_, err := store.AddChunks(context.Background(), []domain.Chunk{chunk("a", 0, "x", "")}, 10)
	assert.ErrorIs(t, err, domain.ErrStoreClosed)

	_, err = store.Stats(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
}
