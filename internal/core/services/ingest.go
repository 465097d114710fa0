package services

import (
	"context"
	"fmt"
	"iter"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
	"github.com/custodia-labs/kbase/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// ProgressFunc is called after each file is chunked.
// done counts files so far; total is the number of files listed.
type ProgressFunc func(path string, done, total int)

// IngestService loads knowledge-base documents into the vector store.
type IngestService struct {
	source   driven.DocumentSource
	pipeline driven.PostProcessorPipeline
	store    driven.VectorStore
	progress ProgressFunc
}

// NewIngestService creates an ingest service.
func NewIngestService(
	source driven.DocumentSource,
	pipeline driven.PostProcessorPipeline,
	store driven.VectorStore,
) *IngestService {
	return &IngestService{
		source:   source,
		pipeline: pipeline,
		store:    store,
	}
}

// SetProgress registers a callback for per-file progress.
func (s *IngestService) SetProgress(fn ProgressFunc) {
	s.progress = fn
}

// Ingest walks the configured subtrees and stores every chunk.
func (s *IngestService) Ingest(ctx context.Context, opts domain.IngestOptions) (*domain.IngestStats, error) {
	logger.Section("Ingestion")
	logger.Debug("Root: %s", s.source.Root())

	if opts.ClearExisting {
		removed, err := s.store.DeleteAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("ingest: %w", err)
		}
		logger.Debug("Cleared %d existing records", removed)
	}

	subtrees := opts.Subtrees
	if len(subtrees) == 0 {
		subtrees = domain.DefaultSubtrees()
	}
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	var paths []string
	for _, subtree := range subtrees {
		found, err := s.source.List(ctx, subtree)
		if err != nil {
			return nil, fmt.Errorf("ingest: %w", err)
		}
		logger.Debug("Found %d markdown files under %s", len(found), subtree)
		paths = append(paths, found...)
	}

	stats := &domain.IngestStats{}
	batch := make([]domain.Chunk, 0, batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := s.store.AddChunks(ctx, batch, batchSize)
		stats.ChunksStored += n
		batch = batch[:0]
		return err
	}

	for chunk, err := range s.chunks(ctx, paths, stats) {
		if err != nil {
			return stats, fmt.Errorf("ingest: %w", err)
		}
		stats.ChunksCreated++
		batch = append(batch, chunk)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return stats, fmt.Errorf("ingest: %w", err)
			}
		}
	}
	if err := flush(); err != nil {
		return stats, fmt.Errorf("ingest: %w", err)
	}

	storeStats, err := s.store.Stats(ctx)
	if err != nil {
		return stats, fmt.Errorf("ingest: %w", err)
	}
	stats.Store = storeStats

	logger.Info("Ingested %d files into %d chunks (%d stored)",
		stats.FilesProcessed, stats.ChunksCreated, stats.ChunksStored)
	return stats, nil
}

// chunks reads and chunks each file lazily, so only the current document
// and the pending batch are held in memory.
func (s *IngestService) chunks(
	ctx context.Context, paths []string, stats *domain.IngestStats,
) iter.Seq2[domain.Chunk, error] {
	return func(yield func(domain.Chunk, error) bool) {
		for _, p := range paths {
			if err := ctx.Err(); err != nil {
				yield(domain.Chunk{}, err)
				return
			}

			doc, err := s.source.Read(ctx, p)
			if err != nil {
				yield(domain.Chunk{}, fmt.Errorf("read %s: %w", p, err))
				return
			}
			chunks, err := s.pipeline.Process(ctx, doc)
			if err != nil {
				yield(domain.Chunk{}, fmt.Errorf("process %s: %w", p, err))
				return
			}

			stats.FilesProcessed++
			logger.Debug("%s: %d chunks", p, len(chunks))
			if s.progress != nil {
				s.progress(p, stats.FilesProcessed, len(paths))
			}

			for _, c := range chunks {
				if !yield(c, nil) {
					return
				}
			}
		}
	}
}

// Clear removes every stored record.
func (s *IngestService) Clear(ctx context.Context) (int, error) {
	n, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("clear: %w", err)
	}
	return n, nil
}
