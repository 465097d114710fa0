package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	statsJSON bool
	statsYAML bool
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show vector store statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	statsCmd.Flags().BoolVar(&statsYAML, "yaml", false, "output statistics as YAML")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat(statsJSON, statsYAML)
	if err != nil {
		return err
	}
	if err := ensureEngine(cmd.Context()); err != nil {
		return err
	}
	if retrieverService == nil {
		return errors.New("retriever not configured")
	}

	stats, err := retrieverService.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("reading stats: %w", err)
	}

	if format != formatText {
		return writeStructured(cmd, stats, format)
	}

	cmd.Printf("Collection:          %s\n", stats.CollectionName)
	cmd.Printf("Chunks stored:       %d\n", stats.DocumentCount)
	cmd.Printf("Embedding dimension: %d\n", stats.EmbeddingDimension)
	cmd.Printf("Embedding model:     %s\n", stats.EmbeddingModel)
	return nil
}
