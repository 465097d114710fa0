// Package cli implements the kbase command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/kbase/internal/config"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
	"github.com/custodia-labs/kbase/internal/logger"
)

var (
	// cfgFile is the configuration file given with --config.
	cfgFile string
	// verbose enables debug logging.
	verbose bool
	// version is the application version, set by main.
	version = "dev"

	// appConfig is loaded before any command runs.
	appConfig *config.Config
	builders  Builders
	release   func() error

	retrieverService    driving.Retriever
	ingestService       driving.Ingestor
	settingsService     driving.SettingsService
	resultActionService driving.ResultActionService
)

// Engine is the retrieval stack opened from a configuration.
type Engine struct {
	Ingestor  driving.Ingestor
	Retriever driving.Retriever

	// Close releases the vector store and embedding service.
	Close func() error
}

// Builders construct services once flags and configuration are known.
// Commands build only what they need, so `config` and `chunk` work
// without an embedding provider.
type Builders struct {
	// Engine opens the vector store and embedding service described by cfg.
	Engine func(ctx context.Context, cfg *config.Config) (*Engine, error)

	// Settings opens the configuration file at path for editing.
	Settings func(path string) (driving.SettingsService, error)
}

var rootCmd = &cobra.Command{
	Use:   "kbase",
	Short: "Semantic retrieval over a markdown knowledge base",
	Long: `kbase chunks a directory of markdown documents, embeds the chunks and
stores them in a local vector collection. Questions are answered with the
most relevant chunks, or with a length-bounded context block ready to
ground a text generator.

Knowledge base layout:
  <kb>/tools/<category>/**/*.md
  <kb>/general/**/*.md`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.kbase/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// SetBuilders registers the service constructors used by commands.
func SetBuilders(b Builders) {
	builders = b
}

// SetResultActionService sets the service used by the explorer for copy and open.
func SetResultActionService(s driving.ResultActionService) {
	resultActionService = s
}

// SetVersion sets the version reported by `kbase version`.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command and releases any opened services.
// Errors are printed here, except ExitCodeError which only sets the status.
func Execute() error {
	defer closeEngine()

	err := rootCmd.Execute()
	var exit *ExitCodeError
	if err != nil && !errors.As(err, &exit) {
		rootCmd.PrintErrln("Error:", err)
	}
	return err
}

// loadConfig reads the configuration file and environment once per process.
func loadConfig(_ *cobra.Command, _ []string) error {
	if appConfig == nil {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		appConfig = cfg
	}
	logger.SetVerbose(verbose || appConfig.Log.Verbose)
	return nil
}

// ensureEngine opens the retrieval stack unless services are already set.
func ensureEngine(ctx context.Context) error {
	if retrieverService != nil && ingestService != nil {
		return nil
	}
	if builders.Engine == nil {
		return errors.New("retrieval engine not configured")
	}
	if appConfig == nil {
		return errors.New("configuration not loaded")
	}

	engine, err := builders.Engine(ctx, appConfig)
	if err != nil {
		return err
	}
	ingestService = engine.Ingestor
	retrieverService = engine.Retriever
	release = engine.Close
	return nil
}

// ensureSettings opens the configuration file store unless already set.
func ensureSettings() error {
	if settingsService != nil {
		return nil
	}
	if builders.Settings == nil {
		return errors.New("settings service not configured")
	}

	path, err := configPath()
	if err != nil {
		return err
	}
	svc, err := builders.Settings(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	settingsService = svc
	return nil
}

// configPath returns the file given with --config or the default location.
func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	dir, err := config.HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, config.FileName), nil
}

func closeEngine() {
	if release == nil {
		return
	}
	if err := release(); err != nil {
		logger.Warn("closing engine: %v", err)
	}
	release = nil
}
