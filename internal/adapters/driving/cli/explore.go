package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbase/internal/adapters/driving/tui"
)

// runProgram runs a bubbletea model. Tests replace it to avoid a terminal.
var runProgram = func(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

var exploreCmd = &cobra.Command{
	Use:   "explore",
	Short: "Query the knowledge base interactively",
	Long: `Launch an interactive terminal session for testing retrieval.

Each question shows the three best matches and the context that would be
handed to a text generator.

Controls:
  Enter    - Search
  ↑/k, ↓/j - Navigate results
  n        - New question
  y        - Copy the selected chunk
  o        - Open the selected source
  Esc, q   - Quit`,
	Args: cobra.NoArgs,
	RunE: runExplore,
}

func init() {
	rootCmd.AddCommand(exploreCmd)
}

func runExplore(cmd *cobra.Command, _ []string) error {
	if err := ensureEngine(cmd.Context()); err != nil {
		return err
	}
	if retrieverService == nil {
		return errors.New("retriever not configured")
	}

	app, err := tui.NewApp(&tui.Ports{
		Retriever:    retrieverService,
		ResultAction: resultActionService,
	})
	if err != nil {
		return fmt.Errorf("failed to create explorer: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := runProgram(app); err != nil {
		return fmt.Errorf("explorer error: %w", err)
	}
	return nil
}
