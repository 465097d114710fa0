package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/kbase/internal/config"
	"github.com/custodia-labs/kbase/internal/core/domain"
)

const drillUsage = "Hold the drill firmly with both hands and let the bit do the work."

func writeKB(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"tools/power/drill.md": "# Drill\n\n## Usage\n" + drillUsage + "\n\n## Storage\nKeep batteries charged and dry.",
		"general/safety.md":    "# Safety\n\n## Eyes\nAlways wear goggles in the workshop.",
		"notes/ignored.md":     "# Ignored\n\nNot part of any subtree.",
	}
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return root
}

func engineConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	v.Set("kb_path", writeKB(t))
	v.Set("store.backend", backend)
	v.Set("store.path", t.TempDir())
	v.Set("embedding.provider", config.ProviderHashing)
	v.Set("chunking.min_size", 0)

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	return cfg
}

func TestOpenEngine_IngestAndSearch(t *testing.T) {
	for _, backend := range []string{config.BackendMemory, config.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			engine, err := openEngine(ctx, engineConfig(t, backend))
			require.NoError(t, err)
			defer func() { assert.NoError(t, engine.Close()) }()

			stats, err := engine.Ingestor.Ingest(ctx, domain.IngestOptions{ClearExisting: true})
			require.NoError(t, err)
			assert.Equal(t, 2, stats.FilesProcessed)
			assert.Positive(t, stats.ChunksStored)
			assert.Equal(t, stats.ChunksCreated, stats.ChunksStored)
			assert.Equal(t, stats.ChunksStored, stats.Store.DocumentCount)
			assert.Equal(t, "knowledge_base", stats.Store.CollectionName)

			results, err := engine.Retriever.Search(ctx, drillUsage, domain.SearchOptions{Limit: 1})
			require.NoError(t, err)
			require.Len(t, results, 1)
			assert.Equal(t, "Drill", results[0].Title)
			assert.Equal(t, "Usage", results[0].Section)
			assert.Equal(t, "power", results[0].Category)
			assert.InDelta(t, 1.0, results[0].Relevance, 1e-4)

			relevant, err := engine.Retriever.IsRelevantQuery(ctx, drillUsage, 0)
			require.NoError(t, err)
			assert.True(t, relevant)

			removed, err := engine.Ingestor.Clear(ctx)
			require.NoError(t, err)
			assert.Equal(t, stats.ChunksStored, removed)
		})
	}
}

func TestOpenEngine_SQLitePersists(t *testing.T) {
	ctx := context.Background()
	cfg := engineConfig(t, config.BackendSQLite)

	engine, err := openEngine(ctx, cfg)
	require.NoError(t, err)
	stats, err := engine.Ingestor.Ingest(ctx, domain.IngestOptions{})
	require.NoError(t, err)
	require.NoError(t, engine.Close())

	assert.FileExists(t, filepath.Join(cfg.Store.Path, sqlite.DBFileName))

	reopened, err := openEngine(ctx, cfg)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Retriever.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.ChunksStored, got.DocumentCount)
	assert.Equal(t, 384, got.EmbeddingDimension)
}

func TestOpenCollection_UnknownBackend(t *testing.T) {
	_, err := openCollection(config.StoreConfig{Backend: "chroma", Collection: "kb"})
	assert.Error(t, err)
}

func TestOpenSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	svc, err := openSettings(path)
	require.NoError(t, err)
	assert.Equal(t, path, svc.Path())

	require.NoError(t, svc.Set("store.backend", "memory"))
	v, err := svc.Get("store.backend")
	require.NoError(t, err)
	assert.Equal(t, "memory", v.Value)
	assert.FileExists(t, path)
}
