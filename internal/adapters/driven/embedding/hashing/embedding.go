// Package hashing provides an offline embedding service based on feature hashing.
//
// Text is normalised (NFKC, case folded), split into word unigrams and
// bigrams, and each feature is hashed into a fixed number of signed buckets.
// The result is L2-normalised so cosine similarity reduces to a dot product.
// Texts that share no words have similarity close to zero.
package hashing

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/custodia-labs/kbase/internal/adapters/driven/embedding"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultDimensions = 384
	ModelName         = "hashing-bow"
)

// Config holds configuration for the hashing embedding service.
type Config struct {
	// Dimensions is the number of hash buckets (default: 384).
	Dimensions int
}

// EmbeddingService embeds text locally without a model server.
type EmbeddingService struct {
	dimensions int

	life embedding.Lifecycle
}

// NewEmbeddingService creates a hashing embedding service.
func NewEmbeddingService(cfg Config) *EmbeddingService {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}
	return &EmbeddingService{
		dimensions: cfg.Dimensions,
	}
}

// Initialize marks the service ready. There is nothing to load.
func (s *EmbeddingService) Initialize(ctx context.Context) error {
	return s.life.Initialize(ctx, nil)
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	var vec []float32
	err := s.life.Do(func() error {
		vec = s.vector(text)
		return nil
	})
	return vec, err
}

// EmbedBatch generates embeddings for multiple texts, in input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	err := s.life.Do(func() error {
		for i, text := range texts {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = s.vector(text)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return ModelName
}

// Ping always succeeds.
func (s *EmbeddingService) Ping(context.Context) error {
	return nil
}

// Close releases the model.
func (s *EmbeddingService) Close() error {
	s.life.Close()
	return nil
}

// vector hashes the features of text into a unit-length vector.
// Empty or punctuation-only text yields the zero vector.
func (s *EmbeddingService) vector(text string) []float32 {
	vec := make([]float64, s.dimensions)

	words := s.tokenize(text)
	for i, w := range words {
		s.add(vec, w, 1)
		if i > 0 {
			s.add(vec, words[i-1]+" "+w, 0.5)
		}
	}

	var norm2 float64
	for _, v := range vec {
		norm2 += v * v
	}

	out := make([]float32, s.dimensions)
	if norm2 == 0 {
		return out
	}
	scale := 1 / math.Sqrt(norm2)
	for i, v := range vec {
		out[i] = float32(v * scale)
	}
	return out
}

// add hashes feature into a bucket with a hash-derived sign.
func (s *EmbeddingService) add(vec []float64, feature string, weight float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()

	idx := int(sum % uint64(s.dimensions))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	vec[idx] += weight
}

// tokenize normalises text and splits it into words of letters and digits.
// A Caser is stateful, so each call gets its own.
func (s *EmbeddingService) tokenize(text string) []string {
	text = cases.Fold().String(norm.NFKC.String(text))
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
