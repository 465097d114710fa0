package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/kbase/internal/adapters/driven/ai"
	"github.com/custodia-labs/kbase/internal/adapters/driven/config/file"
	"github.com/custodia-labs/kbase/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/kbase/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/kbase/internal/adapters/driving/cli"
	"github.com/custodia-labs/kbase/internal/config"
	"github.com/custodia-labs/kbase/internal/connectors/filesystem"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
	"github.com/custodia-labs/kbase/internal/core/services"
	"github.com/custodia-labs/kbase/internal/logger"
	"github.com/custodia-labs/kbase/internal/postprocessors"
)

// openEngine wires the embedding service, the collection and the services
// on top of them, as described by cfg.
func openEngine(ctx context.Context, cfg *config.Config) (*cli.Engine, error) {
	embedder, err := ai.CreateAndInitializeEmbeddingService(ctx, cfg.Embedding)
	if err != nil {
		return nil, err
	}

	collection, err := openCollection(cfg.Store)
	if err != nil {
		_ = embedder.Close()
		return nil, err
	}
	logger.Debug("Collection %q (%s), embedding model %s", collection.Name(), cfg.Store.Backend, embedder.ModelName())

	store := services.NewVectorStore(collection, embedder)
	pipeline := postprocessors.DefaultPipeline(cfg.Chunking.MaxSize, cfg.Chunking.MinSize)

	return &cli.Engine{
		Ingestor: services.NewIngestService(filesystem.NewOs(cfg.KBPath), pipeline, store),
		Retriever: services.NewRetrieverService(store, services.RetrieverConfig{
			DefaultResults:         cfg.Retrieval.DefaultResults,
			RelevanceThreshold:     cfg.Retrieval.RelevanceThreshold,
			RelevantQueryThreshold: cfg.Retrieval.RelevantQueryThreshold,
			MaxContextLength:       cfg.Retrieval.MaxContextLength,
		}),
		Close: func() error {
			return errors.Join(collection.Close(), embedder.Close())
		},
	}, nil
}

func openCollection(cfg config.StoreConfig) (driven.Collection, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.NewCollection(cfg.Collection), nil
	case config.BackendSQLite, "":
		c, err := sqlite.OpenCollection(cfg.Path, cfg.Collection)
		if err != nil {
			return nil, fmt.Errorf("opening vector store: %w", err)
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Backend)
	}
}

// openSettings opens the configuration file at path for editing.
func openSettings(path string) (driving.SettingsService, error) {
	store, err := file.NewConfigStoreAt(path)
	if err != nil {
		return nil, err
	}
	return services.NewSettingsService(store), nil
}
