package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every chunk from the vector store",
	Args:  cobra.NoArgs,
	RunE:  runClear,
}

func init() {
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if err := ensureEngine(cmd.Context()); err != nil {
		return err
	}
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	removed, err := ingestService.Clear(cmd.Context())
	if err != nil {
		return fmt.Errorf("clearing store: %w", err)
	}

	cmd.Printf("Removed %d chunks\n", removed)
	return nil
}
