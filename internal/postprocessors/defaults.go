package postprocessors

import (
	"github.com/custodia-labs/kbase/internal/core/ports/driven"
	"github.com/custodia-labs/kbase/internal/postprocessors/category"
	"github.com/custodia-labs/kbase/internal/postprocessors/chunker"
)

// DefaultProcessors lists the processors of the ingestion pipeline, in order.
var DefaultProcessors = []string{"chunker", "category"}

// RegisterDefaults registers all built-in processors with the registry.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
	r.Register("category", buildCategory)
}

// DefaultPipeline builds the chunker then category pipeline.
// A non-positive maximum falls back to the chunker default; a zero
// minimum keeps every chunk.
func DefaultPipeline(maxChunkSize, minChunkSize int) *Pipeline {
	r := NewRegistry()
	RegisterDefaults(r)

	p, err := r.BuildPipeline(DefaultProcessors, map[string]map[string]any{
		"chunker": {
			"max_chunk_size": maxChunkSize,
			"min_chunk_size": minChunkSize,
		},
	})
	if err != nil {
		// Only reachable if a default processor is unregistered.
		panic(err)
	}
	return p
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - max_chunk_size (int): Maximum characters per chunk (default: 1500)
//   - min_chunk_size (int): Chunks shorter than this are dropped (default: 100)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "max_chunk_size"); size > 0 {
			opts = append(opts, chunker.WithMaxChunkSize(size))
		}
		if _, ok := cfg["min_chunk_size"]; ok {
			opts = append(opts, chunker.WithMinChunkSize(getIntFromConfig(cfg, "min_chunk_size")))
		}
	}

	return chunker.New(opts...), nil
}

func buildCategory(_ map[string]any) (driven.PostProcessor, error) {
	return category.New(), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
