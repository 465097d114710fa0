package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/logger"
)

// stdin is read when `config set` is given no value. Tests replace it.
var stdin io.Reader = os.Stdin

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and edit the configuration file",
	Long: `View and edit the kbase configuration file.

Values set here are written to the file given with --config, or to
$HOME/.kbase/config.toml. Environment variables prefixed with KBASE_
(for example KBASE_EMBEDDING_PROVIDER) override the file.`,
	// Editing the file must work even when the current file is invalid.
	PersistentPreRunE: func(*cobra.Command, []string) error {
		logger.SetVerbose(verbose)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print the value of a setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a setting",
	Long: `Set a setting in the configuration file.

If the value is omitted it is read from standard input. Secret settings
such as embedding.api_key are read without echo on a terminal.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Remove a setting so the default applies",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every setting with its effective value",
	Args:  cobra.NoArgs,
	RunE:  runConfigList,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if err := ensureSettings(); err != nil {
		return err
	}

	v, err := settingsService.Get(args[0])
	if err != nil {
		return err
	}
	cmd.Println(displayValue(v))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if err := ensureSettings(); err != nil {
		return err
	}

	key := args[0]
	var raw string
	if len(args) == 2 {
		raw = args[1]
	} else {
		setting, ok := domain.LookupSetting(key)
		if !ok {
			return fmt.Errorf("%w: unknown setting %q", domain.ErrNotFound, key)
		}
		value, err := promptValue(cmd, setting)
		if err != nil {
			return err
		}
		raw = value
	}

	if err := settingsService.Set(key, raw); err != nil {
		return err
	}

	v, err := settingsService.Get(key)
	if err != nil {
		return err
	}
	cmd.Printf("%s = %s\n", key, displayValue(v))
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	if err := ensureSettings(); err != nil {
		return err
	}

	if err := settingsService.Unset(args[0]); err != nil {
		return err
	}
	cmd.Printf("%s reset to default\n", args[0])
	return nil
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	if err := ensureSettings(); err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE\tSOURCE\tDESCRIPTION")
	for _, v := range settingsService.List() {
		source := "default"
		if v.IsSet {
			source = "file"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.Key, displayValue(v), source, v.Description)
	}
	return w.Flush()
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if err := ensureSettings(); err != nil {
		return err
	}
	cmd.Println(settingsService.Path())
	return nil
}

// promptValue reads a value for setting from stdin. Secrets are read
// without echo when stdin is a terminal.
func promptValue(cmd *cobra.Command, setting domain.Setting) (string, error) {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		cmd.Printf("%s: ", setting.Key)
		if setting.Secret {
			data, err := term.ReadPassword(int(f.Fd()))
			cmd.Println()
			if err != nil {
				return "", fmt.Errorf("reading %s: %w", setting.Key, err)
			}
			return strings.TrimSpace(string(data)), nil
		}
	}

	value := readLine(bufio.NewReader(stdin))
	if value == "" {
		return "", errors.New("no value given")
	}
	return value, nil
}

func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// displayValue renders a setting value, masking secrets.
func displayValue(v domain.SettingValue) string {
	s := fmt.Sprint(v.Value)
	switch {
	case v.Secret && s == "":
		return "(not set)"
	case v.Secret:
		return maskAPIKey(s)
	case s == "":
		return "(provider default)"
	default:
		return s
	}
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
