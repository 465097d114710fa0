package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query               string `json:"query" jsonschema:"the question or keywords to search the knowledge base for"`
	Limit               int    `json:"limit,omitempty" jsonschema:"maximum number of results (default from configuration)"`
	Category            string `json:"category,omitempty" jsonschema:"restrict results to this category, e.g. power or general"`
	IncludeLowRelevance bool   `json:"include_low_relevance,omitempty" jsonschema:"keep results below the relevance threshold"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput is a single ranked chunk.
type SearchResultOutput struct {
	Title     string  `json:"title"`
	Section   string  `json:"section"`
	Category  string  `json:"category"`
	Source    string  `json:"source"`
	Relevance float64 `json:"relevance"`
	Content   string  `json:"content"`
}

// ContextInput is the input schema for the get_context tool.
type ContextInput struct {
	Query     string `json:"query" jsonschema:"the question to assemble grounding context for"`
	Limit     int    `json:"limit,omitempty" jsonschema:"number of results to draw from (default from configuration)"`
	MaxLength int    `json:"max_length,omitempty" jsonschema:"context budget in characters (default from configuration)"`
}

// ContextOutput is the output schema for the get_context tool.
type ContextOutput struct {
	Context string `json:"context"`
	Found   bool   `json:"found"`
}

// RelevanceInput is the input schema for the is_relevant tool.
type RelevanceInput struct {
	Query     string  `json:"query" jsonschema:"the question to check against the knowledge base"`
	Threshold float64 `json:"threshold,omitempty" jsonschema:"minimum relevance of the best match (default from configuration)"`
}

// RelevanceOutput is the output schema for the is_relevant tool.
type RelevanceOutput struct {
	Relevant bool `json:"relevant"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Search the knowledge base and return chunks ranked by relevance",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_context",
		Description: "Assemble a length-bounded context block for answering a question",
	}, s.handleGetContext)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "is_relevant",
		Description: "Report whether the knowledge base covers a question",
	}, s.handleIsRelevant)
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	opts := domain.SearchOptions{
		Limit:               input.Limit,
		Category:            input.Category,
		IncludeLowRelevance: input.IncludeLowRelevance,
	}
	results, err := s.ports.Retriever.Search(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Results: make([]SearchResultOutput, len(results)),
		Count:   len(results),
	}
	for i, r := range results {
		output.Results[i] = SearchResultOutput{
			Title:     r.Title,
			Section:   r.Section,
			Category:  r.Category,
			Source:    r.Source,
			Relevance: r.Relevance,
			Content:   r.Content,
		}
	}

	return nil, output, nil
}

// handleGetContext handles the get_context tool invocation.
func (s *Server) handleGetContext(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ContextInput,
) (*mcp.CallToolResult, ContextOutput, error) {
	opts := domain.ContextOptions{Limit: input.Limit, MaxLength: input.MaxLength}
	text, err := s.ports.Retriever.GetContext(ctx, input.Query, opts)
	if err != nil {
		return nil, ContextOutput{}, err
	}
	return nil, ContextOutput{Context: text, Found: text != ""}, nil
}

// handleIsRelevant handles the is_relevant tool invocation.
func (s *Server) handleIsRelevant(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RelevanceInput,
) (*mcp.CallToolResult, RelevanceOutput, error) {
	ok, err := s.ports.Retriever.IsRelevantQuery(ctx, input.Query, input.Threshold)
	if err != nil {
		return nil, RelevanceOutput{}, err
	}
	return nil, RelevanceOutput{Relevant: ok}, nil
}
