package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbase/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/kbase/internal/config"
	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/services"
)

var (
	ingestKBPath    string
	ingestStorePath string
	ingestNoClear   bool
	ingestBatchSize int
	ingestSubtrees  []string
)

// progressReporter is implemented by ingestors that report per-file progress.
type progressReporter interface {
	SetProgress(fn services.ProgressFunc)
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Chunk, embed and store the knowledge base",
	Long: `Walk the knowledge base, split every markdown file into chunks, embed
them and store them in the vector collection.

By default the collection is cleared first so that the store mirrors the
directory. Use --no-clear to append instead.`,
	Args: cobra.NoArgs,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestKBPath, "kb-path", "", "knowledge-base root (overrides kb_path)")
	ingestCmd.Flags().StringVar(&ingestStorePath, "store-path", "", "vector store directory (overrides store.path)")
	ingestCmd.Flags().BoolVar(&ingestNoClear, "no-clear", false, "keep existing chunks")
	ingestCmd.Flags().IntVar(&ingestBatchSize, "batch-size", 0, "chunks per batch (0 uses ingest.batch_size)")
	ingestCmd.Flags().StringSliceVar(&ingestSubtrees, "subtree", nil, "subtree to walk, repeatable (default tools and general)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	if appConfig == nil {
		return errors.New("configuration not loaded")
	}
	if ingestBatchSize < 0 {
		return fmt.Errorf("--batch-size must not be negative, got %d", ingestBatchSize)
	}
	if err := applyIngestOverrides(); err != nil {
		return err
	}
	if err := ensureEngine(cmd.Context()); err != nil {
		return err
	}
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	printIngestHeader(cmd)

	if reporter, ok := ingestService.(progressReporter); ok && isTerminal(cmd) {
		reporter.SetProgress(func(path string, done, total int) {
			cmd.Printf("\r\033[K[%d/%d] %s", done, total, path)
			if done == total {
				cmd.Println()
			}
		})
	}

	batchSize := ingestBatchSize
	if batchSize == 0 {
		batchSize = appConfig.Ingest.BatchSize
	}

	stats, err := ingestService.Ingest(cmd.Context(), domain.IngestOptions{
		ClearExisting: !ingestNoClear,
		BatchSize:     batchSize,
		Subtrees:      ingestSubtrees,
	})
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	printIngestReport(cmd, stats)
	return nil
}

// applyIngestOverrides copies path flags into the loaded configuration
// so the engine is opened on them.
func applyIngestOverrides() error {
	if ingestKBPath != "" {
		p, err := config.ExpandHome(ingestKBPath)
		if err != nil {
			return err
		}
		appConfig.KBPath = p
	}
	if ingestStorePath != "" {
		p, err := config.ExpandHome(ingestStorePath)
		if err != nil {
			return err
		}
		appConfig.Store.Path = p
	}
	return nil
}

func printIngestHeader(cmd *cobra.Command) {
	rule := strings.Repeat("=", 60)
	cmd.Println(rule)
	cmd.Println("KNOWLEDGE BASE INGESTION")
	cmd.Println(rule)
	cmd.Printf("Knowledge base: %s\n", appConfig.KBPath)
	cmd.Printf("Vector store: %s\n", storeLocation())
	cmd.Println()
}

func printIngestReport(cmd *cobra.Command, stats *domain.IngestStats) {
	rule := strings.Repeat("=", 60)
	cmd.Println()
	cmd.Println(rule)
	cmd.Println("INGESTION COMPLETE")
	cmd.Println(rule)
	cmd.Printf("Files processed: %d\n", stats.FilesProcessed)
	cmd.Printf("Chunks created: %d\n", stats.ChunksCreated)
	cmd.Printf("Chunks stored: %d\n", stats.ChunksStored)
	cmd.Printf("Vector store size: %d\n", stats.Store.DocumentCount)
	cmd.Printf("Embedding dimension: %d\n", stats.Store.EmbeddingDimension)
}

// storeLocation describes where the collection lives.
func storeLocation() string {
	if appConfig.Store.Backend == config.BackendMemory {
		return "in-memory (" + appConfig.Store.Collection + ")"
	}
	return fmt.Sprintf("%s (%s)", filepath.Join(appConfig.Store.Path, sqlite.DBFileName), appConfig.Store.Collection)
}
