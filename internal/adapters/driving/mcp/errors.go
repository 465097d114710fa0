// Package mcp exposes kbase retrieval to AI assistants over the Model
// Context Protocol.
package mcp

import "errors"

// ErrMissingRetriever is returned when the retriever is not provided.
var ErrMissingRetriever = errors.New("mcp: retriever is required")
