// Package openai embeds text through an OpenAI-compatible /embeddings endpoint.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/custodia-labs/kbase/internal/adapters/driven/embedding"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
	"github.com/custodia-labs/kbase/internal/logger"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultModel      = "text-embedding-3-small"
	DefaultTimeout    = 60 * time.Second
	DefaultMaxRetries = 3

	fallbackDimensions = 1536
	baseRetryDelay     = 200 * time.Millisecond
	maxRetryDelay      = 5 * time.Second
)

var knownDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Config configures the client. Only APIKey is required.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration

	// Dimensions shortens text-embedding-3 vectors; other models ignore it.
	Dimensions int

	// MaxRetries bounds retries on 429 and 5xx responses. Negative disables them.
	MaxRetries int
}

// EmbeddingService embeds batches of chunks in a single request each.
type EmbeddingService struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	model      string
	dimensions int
	retries    int

	life embedding.Lifecycle
}

type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewEmbeddingService validates cfg and fills in defaults.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required (set embedding.api_key or OPENAI_API_KEY)")
	}

	svc := &EmbeddingService{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		retries:    cfg.MaxRetries,
	}
	if svc.baseURL == "" {
		svc.baseURL = DefaultBaseURL
	}
	if svc.model == "" {
		svc.model = DefaultModel
	}
	if svc.dimensions <= 0 {
		svc.dimensions = knownDimensions[svc.model]
		if svc.dimensions == 0 {
			svc.dimensions = fallbackDimensions
		}
	}
	switch {
	case svc.retries == 0:
		svc.retries = DefaultMaxRetries
	case svc.retries < 0:
		svc.retries = 0
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	svc.client = &http.Client{Timeout: timeout}
	return svc, nil
}

// Initialize checks the key against /models.
func (s *EmbeddingService) Initialize(ctx context.Context) error {
	return s.life.Initialize(ctx, s.Ping)
}

// Embed embeds a single query.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch returns one vector per text, in input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	var vecs [][]float32
	err := s.life.Do(func() error {
		if len(texts) == 0 {
			return nil
		}
		var err error
		vecs, err = s.embedWithRetry(ctx, texts)
		return err
	})
	return vecs, err
}

func (s *EmbeddingService) embedWithRetry(ctx context.Context, texts []string) ([][]float32, error) {
	payload := embeddingRequest{Model: s.model, Input: texts}
	if _, ok := knownDimensions[s.model]; ok && s.model != "text-embedding-ada-002" {
		payload.Dimensions = s.dimensions
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	for attempt := 0; ; attempt++ {
		vecs, wait, err := s.post(ctx, body, len(texts), attempt)
		if err == nil || wait < 0 || attempt >= s.retries {
			return vecs, err
		}

		logger.Debug("openai: %v, retrying in %s", err, wait)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// post sends one request. A non-negative wait marks the error as retryable.
func (s *EmbeddingService) post(ctx context.Context, body []byte, n, attempt int) ([][]float32, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/embeddings", bytes.NewReader(body))
	if err != nil {
		return nil, -1, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, -1, fmt.Errorf("send request: %w", err)
		}
		return nil, backoff(attempt), fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, -1, fmt.Errorf("read response: %w", err)
	}

	var out embeddingResponse
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode != http.StatusOK {
		msg := string(raw)
		if decodeErr == nil && out.Error != nil {
			msg = out.Error.Message
		}
		err := fmt.Errorf("openai error (status %d): %s", resp.StatusCode, msg)
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return nil, retryAfter(resp.Header.Get("Retry-After"), attempt), err
		}
		return nil, -1, err
	}
	if decodeErr != nil {
		return nil, -1, fmt.Errorf("decode response: %w", decodeErr)
	}

	vecs := make([][]float32, n)
	for _, d := range out.Data {
		if d.Index < 0 || d.Index >= n {
			return nil, -1, fmt.Errorf("openai: embedding index %d out of range", d.Index)
		}
		vecs[d.Index] = embedding.ToFloat32(d.Embedding)
	}
	for i, v := range vecs {
		if len(v) == 0 {
			return nil, -1, fmt.Errorf("openai: no embedding returned for text %d", i)
		}
	}
	return vecs, 0, nil
}

// retryAfter honours a Retry-After header given in seconds.
func retryAfter(header string, attempt int) time.Duration {
	if secs, err := strconv.Atoi(header); err == nil && secs >= 0 {
		return min(time.Duration(secs)*time.Second, maxRetryDelay)
	}
	return backoff(attempt)
}

func backoff(attempt int) time.Duration {
	return min(baseRetryDelay<<attempt, maxRetryDelay)
}

// Dimensions returns the configured vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the model identifier.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping lists models, which checks the key without spending tokens.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("openai: create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("openai: ping %s: %w", s.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("openai error (status %d): %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close unloads the model and drops idle connections.
func (s *EmbeddingService) Close() error {
	s.life.Close()
	s.client.CloseIdleConnections()
	return nil
}
