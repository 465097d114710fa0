package services

import (
	"context"
	"errors"
	"strings"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
)

// --- Mock implementations ---

var errMock = errors.New("mock failure")

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Texts containing a key of vectors get that vector; others get fallback.
type mockEmbeddingService struct {
	vectors  map[string][]float32
	fallback []float32

	embedErr error
	batchErr error

	embedCalls int
	batchSizes []int
}

var _ driven.EmbeddingService = (*mockEmbeddingService)(nil)

func (m *mockEmbeddingService) vectorFor(text string) []float32 {
	for key, vec := range m.vectors {
		if strings.Contains(text, key) {
			return vec
		}
	}
	if m.fallback != nil {
		return m.fallback
	}
	return []float32{0, 0, 1}
}

func (m *mockEmbeddingService) Initialize(context.Context) error { return nil }

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vectorFor(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.batchSizes = append(m.batchSizes, len(texts))
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vectorFor(t)
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int { return 3 }

func (m *mockEmbeddingService) ModelName() string { return "mock-model" }

func (m *mockEmbeddingService) Ping(context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

// mockVectorStore implements driven.VectorStore for testing.
type mockVectorStore struct {
	hits      []domain.VectorHit
	searchErr error

	added      []domain.Chunk
	addErr     error
	batchSizes []int

	deleted   int
	deleteErr error
	calls     []string

	lastLimit    int
	lastCategory string
}

var _ driven.VectorStore = (*mockVectorStore)(nil)

func (m *mockVectorStore) AddChunks(_ context.Context, chunks []domain.Chunk, _ int) (int, error) {
	m.calls = append(m.calls, "add")
	m.batchSizes = append(m.batchSizes, len(chunks))
	if m.addErr != nil {
		return 0, m.addErr
	}
	m.added = append(m.added, chunks...)
	return len(chunks), nil
}

func (m *mockVectorStore) Search(_ context.Context, _ string, n int, category string) ([]domain.VectorHit, error) {
	m.lastLimit = n
	m.lastCategory = category
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if n < len(m.hits) {
		return m.hits[:n], nil
	}
	return m.hits, nil
}

func (m *mockVectorStore) DeleteAll(context.Context) (int, error) {
	m.calls = append(m.calls, "delete")
	if m.deleteErr != nil {
		return 0, m.deleteErr
	}
	n := m.deleted + len(m.added)
	m.added = nil
	return n, nil
}

func (m *mockVectorStore) Count(context.Context) (int, error) {
	return len(m.added), nil
}

func (m *mockVectorStore) Stats(context.Context) (domain.StoreStats, error) {
	return domain.StoreStats{
		CollectionName:     "mock",
		DocumentCount:      len(m.added),
		EmbeddingDimension: 3,
		EmbeddingModel:     "mock-model",
	}, nil
}

// mockDocumentSource implements driven.DocumentSource for testing.
type mockDocumentSource struct {
	files   map[string][]string // subtree -> paths
	docs    map[string]string   // path -> content
	listErr error
	readErr map[string]error
}

var _ driven.DocumentSource = (*mockDocumentSource)(nil)

func (m *mockDocumentSource) Root() string { return "/kb" }

func (m *mockDocumentSource) List(_ context.Context, subtree string) ([]string, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.files[subtree], nil
}

func (m *mockDocumentSource) Read(_ context.Context, path string) (*domain.Document, error) {
	if err, ok := m.readErr[path]; ok {
		return nil, err
	}
	content, ok := m.docs[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &domain.Document{
		Path:     path,
		Source:   "/kb/" + path,
		FileName: path[strings.LastIndex(path, "/")+1:],
		Content:  content,
	}, nil
}

// mockPipeline implements driven.PostProcessorPipeline for testing.
// Each document yields chunksPerDoc chunks.
type mockPipeline struct {
	chunksPerDoc int
	err          error
}

var _ driven.PostProcessorPipeline = (*mockPipeline)(nil)

func (m *mockPipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	chunks := make([]domain.Chunk, m.chunksPerDoc)
	for i := range chunks {
		chunks[i] = domain.Chunk{
			Content:    doc.Content,
			Source:     doc.Source,
			ChunkIndex: i,
			FileName:   doc.FileName,
		}
	}
	return chunks, nil
}
