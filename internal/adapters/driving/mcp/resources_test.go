package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

func TestExtractQuery(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "plain query",
			uri:      "kbase://context/goggles",
			expected: "goggles",
		},
		{
			name:     "encoded query",
			uri:      "kbase://context/how%20do%20I%20oil%20the%20blade",
			expected: "how do I oil the blade",
		},
		{
			name:     "invalid prefix",
			uri:      "file://context/goggles",
			expected: "",
		},
		{
			name:     "bad escape",
			uri:      "kbase://context/%zz",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractQuery(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleStatsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns stats as JSON", func(t *testing.T) {
		retriever := &mockRetriever{
			stats: domain.StoreStats{
				CollectionName:     "knowledge_base",
				DocumentCount:      10,
				EmbeddingDimension: 384,
				EmbeddingModel:     "all-minilm",
			},
		}
		server, err := NewServer(&Ports{Retriever: retriever})
		require.NoError(t, err)

		result, err := server.handleStatsResource(ctx, makeReadResourceRequest("kbase://stats"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Equal(t, "kbase://stats", result.Contents[0].URI)
		assert.Contains(t, result.Contents[0].Text, `"collection_name": "knowledge_base"`)
		assert.Contains(t, result.Contents[0].Text, `"document_count": 10`)
		assert.Contains(t, result.Contents[0].Text, `"embedding_model": "all-minilm"`)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		server, err := NewServer(&Ports{Retriever: &mockRetriever{err: errors.New("database error")}})
		require.NoError(t, err)

		_, err = server.handleStatsResource(ctx, makeReadResourceRequest("kbase://stats"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "reading stats")
	})
}

func TestServer_handleContextResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns context for decoded query", func(t *testing.T) {
		retriever := &mockRetriever{context: "## Widget - Safety\n\nWear safety goggles.\n"}
		server, err := NewServer(&Ports{Retriever: retriever})
		require.NoError(t, err)

		result, err := server.handleContextResource(ctx, makeReadResourceRequest("kbase://context/wear%20goggles"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "text/plain", result.Contents[0].MIMEType)
		assert.Equal(t, "## Widget - Safety\n\nWear safety goggles.\n", result.Contents[0].Text)
		assert.Equal(t, "wear goggles", retriever.lastQuery)
	})

	t.Run("invalid URI returns not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Retriever: &mockRetriever{}})
		require.NoError(t, err)

		_, err = server.handleContextResource(ctx, makeReadResourceRequest("kbase://invalid"))

		require.Error(t, err)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		server, err := NewServer(&Ports{Retriever: &mockRetriever{err: errors.New("embed failed")}})
		require.NoError(t, err)

		_, err = server.handleContextResource(ctx, makeReadResourceRequest("kbase://context/oil"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "assembling context")
	})
}
