package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

var (
	searchLimit    int
	searchCategory string
	searchAll      bool
	searchJSON     bool
	searchYAML     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the knowledge base",
	Long: `Search the knowledge base for chunks relevant to a question.

Results below the configured relevance threshold are hidden unless --all
is given. Use --category to restrict results to one tool category.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (0 uses retrieval.default_results)")
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "only return chunks from this category")
	searchCmd.Flags().BoolVar(&searchAll, "all", false, "include results below the relevance threshold")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	searchCmd.Flags().BoolVar(&searchYAML, "yaml", false, "output results as YAML")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	format, err := outputFormat(searchJSON, searchYAML)
	if err != nil {
		return err
	}
	if err := ensureEngine(cmd.Context()); err != nil {
		return err
	}
	if retrieverService == nil {
		return errors.New("retriever not configured")
	}

	query := args[0]
	results, err := retrieverService.Search(cmd.Context(), query, domain.SearchOptions{
		Limit:               searchLimit,
		Category:            searchCategory,
		IncludeLowRelevance: searchAll,
	})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if format != formatText {
		if results == nil {
			results = []domain.RetrievalResult{}
		}
		return writeStructured(cmd, results, format)
	}

	outputSearchTable(cmd, query, results)
	return nil
}

// outputSearchTable prints one block per result, best first.
func outputSearchTable(cmd *cobra.Command, query string, results []domain.RetrievalResult) {
	if len(results) == 0 {
		cmd.Println("No relevant results found")
		return
	}

	cmd.Printf("Found %d results for %q:\n\n", len(results), query)
	for i, r := range results {
		cmd.Printf("--- Result %d ---\n", i+1)
		cmd.Println(r.String())
		cmd.Printf("Category: %s\n", r.Category)
		cmd.Printf("Source: %s\n\n", r.Source)
	}
}
