package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

var (
	contextLimit     int
	contextMaxLength int
)

var contextCmd = &cobra.Command{
	Use:   "context [query]",
	Short: "Assemble grounding context for a question",
	Long: `Assemble the relevant chunks for a question into one markdown block.

Each chunk is rendered as a "## Title - Section" heading followed by its
text. The block never exceeds --max-length characters; nothing is printed
when no chunk is relevant.`,
	Args: cobra.ExactArgs(1),
	RunE: runContext,
}

func init() {
	contextCmd.Flags().IntVarP(&contextLimit, "limit", "n", 0, "maximum number of chunks (0 uses retrieval.default_results)")
	contextCmd.Flags().IntVar(&contextMaxLength, "max-length", 0, "context budget in characters (0 uses retrieval.max_context_length)")
	rootCmd.AddCommand(contextCmd)
}

func runContext(cmd *cobra.Command, args []string) error {
	if err := ensureEngine(cmd.Context()); err != nil {
		return err
	}
	if retrieverService == nil {
		return errors.New("retriever not configured")
	}

	text, err := retrieverService.GetContext(cmd.Context(), args[0], domain.ContextOptions{
		Limit:     contextLimit,
		MaxLength: contextMaxLength,
	})
	if err != nil {
		return fmt.Errorf("assembling context: %w", err)
	}
	if text == "" {
		cmd.PrintErrln("No relevant context found")
		return nil
	}

	cmd.Print(text)
	return nil
}
