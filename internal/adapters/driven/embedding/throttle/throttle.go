// Package throttle rate-limits calls to a remote embedding service.
package throttle

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/kbase/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Config holds rate limiting configuration.
type Config struct {
	// RequestsPerSecond is the sustained rate. Zero or less disables limiting.
	RequestsPerSecond float64

	// BurstSize is the maximum burst size (default: 1 per request per second, minimum 1).
	BurstSize int
}

// EmbeddingService wraps another EmbeddingService with a token bucket.
// Each text costs one token; batches larger than the burst cost the burst.
type EmbeddingService struct {
	next    driven.EmbeddingService
	limiter *rate.Limiter
}

// Wrap returns next unchanged when cfg disables limiting.
func Wrap(next driven.EmbeddingService, cfg Config) driven.EmbeddingService {
	if cfg.RequestsPerSecond <= 0 {
		return next
	}
	return New(next, cfg)
}

// New creates a rate-limited embedding service.
func New(next driven.EmbeddingService, cfg Config) *EmbeddingService {
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = max(1, int(cfg.RequestsPerSecond))
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &EmbeddingService{
		next:    next,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Initialize initialises the wrapped service.
func (s *EmbeddingService) Initialize(ctx context.Context) error {
	return s.next.Initialize(ctx)
}

// Embed waits for one token, then embeds.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return s.next.Embed(ctx, text)
}

// EmbedBatch waits for one token per text, capped at the burst size.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	n := min(max(len(texts), 1), s.limiter.Burst())
	if err := s.limiter.WaitN(ctx, n); err != nil {
		return nil, err
	}
	return s.next.EmbedBatch(ctx, texts)
}

// Dimensions returns the wrapped service's vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.next.Dimensions()
}

// ModelName returns the wrapped service's model name.
func (s *EmbeddingService) ModelName() string {
	return s.next.ModelName()
}

// Ping checks the wrapped service. It is not rate limited.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// Close closes the wrapped service.
func (s *EmbeddingService) Close() error {
	return s.next.Close()
}
