package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	relevantThreshold float64
	relevantExitCode  bool
)

var relevantCmd = &cobra.Command{
	Use:   "relevant [query]",
	Short: "Check whether the knowledge base can answer a question",
	Long: `Print true when the best matching chunk reaches the threshold, false otherwise.

With --exit-code the answer is also reported through the exit status:
0 when relevant, 1 when not. This is useful in shell scripts:

  if kbase relevant --exit-code "how do I sharpen a chisel"; then ...`,
	Args: cobra.ExactArgs(1),
	RunE: runRelevant,
}

func init() {
	relevantCmd.Flags().Float64Var(&relevantThreshold, "threshold", 0,
		"minimum relevance of the best match (0 uses retrieval.relevant_query_threshold)")
	relevantCmd.Flags().BoolVar(&relevantExitCode, "exit-code", false, "exit with status 1 when the query is not relevant")
	rootCmd.AddCommand(relevantCmd)
}

func runRelevant(cmd *cobra.Command, args []string) error {
	if relevantThreshold < 0 || relevantThreshold > 1 {
		return fmt.Errorf("--threshold must be between 0 and 1, got %g", relevantThreshold)
	}
	if err := ensureEngine(cmd.Context()); err != nil {
		return err
	}
	if retrieverService == nil {
		return errors.New("retriever not configured")
	}

	ok, err := retrieverService.IsRelevantQuery(cmd.Context(), args[0], relevantThreshold)
	if err != nil {
		return fmt.Errorf("checking relevance: %w", err)
	}

	cmd.Println(ok)
	if !ok && relevantExitCode {
		return &ExitCodeError{Code: 1}
	}
	return nil
}
