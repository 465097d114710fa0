package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Structured output formats.
const (
	formatText = ""
	formatJSON = "json"
	formatYAML = "yaml"
)

var errFormatConflict = errors.New("--json and --yaml cannot be combined")

// outputFormat resolves the --json and --yaml flags into a format.
func outputFormat(asJSON, asYAML bool) (string, error) {
	switch {
	case asJSON && asYAML:
		return "", errFormatConflict
	case asJSON:
		return formatJSON, nil
	case asYAML:
		return formatYAML, nil
	default:
		return formatText, nil
	}
}

// writeStructured prints v as indented JSON or YAML.
func writeStructured(cmd *cobra.Command, v any, format string) error {
	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("marshalling JSON: %w", err)
		}
		cmd.Println(string(data))
	case formatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshalling YAML: %w", err)
		}
		cmd.Print(string(data))
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}

// isTerminal reports whether the command writes to an interactive terminal.
func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// ExitCodeError asks main to exit with Code without printing anything.
type ExitCodeError struct {
	Code int
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}
