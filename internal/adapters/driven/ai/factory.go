// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/kbase/internal/adapters/driven/embedding/hashing"
	ollamaembed "github.com/custodia-labs/kbase/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/kbase/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/kbase/internal/adapters/driven/embedding/throttle"
	"github.com/custodia-labs/kbase/internal/config"
	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
)

// initTimeout bounds model loading, which includes a probe embedding.
const initTimeout = 30 * time.Second

// CreateEmbeddingService creates the embedding service named by cfg.Provider.
// Remote providers are rate limited when cfg.RequestsPerSecond is positive.
// The returned service is not yet initialised.
func CreateEmbeddingService(cfg config.EmbeddingConfig) (driven.EmbeddingService, error) {
	switch cfg.Provider {
	case config.ProviderOllama, "":
		svc := ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
		return throttled(svc, cfg), nil

	case config.ProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
		})
		if err != nil {
			return nil, err
		}
		return throttled(svc, cfg), nil

	case config.ProviderHashing:
		return hashing.NewEmbeddingService(hashing.Config{
			Dimensions: cfg.Dimensions,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}

// CreateAndInitializeEmbeddingService creates an embedding service and loads its model.
// Any failure is wrapped with domain.ErrEmbeddingUnavailable.
func CreateAndInitializeEmbeddingService(ctx context.Context, cfg config.EmbeddingConfig) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	ctx, cancel := context.WithTimeout(ctx, initTimeout)
	defer cancel()

	if err := svc.Initialize(ctx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%s embedding model %q: %w", providerName(cfg), svc.ModelName(), err)
	}

	return svc, nil
}

func throttled(svc driven.EmbeddingService, cfg config.EmbeddingConfig) driven.EmbeddingService {
	return throttle.Wrap(svc, throttle.Config{RequestsPerSecond: cfg.RequestsPerSecond})
}

func providerName(cfg config.EmbeddingConfig) string {
	if cfg.Provider == "" {
		return config.ProviderOllama
	}
	return cfg.Provider
}
