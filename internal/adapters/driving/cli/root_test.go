package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase/internal/config"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
	"github.com/custodia-labs/kbase/internal/logger"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "kbase", rootCmd.Use)
	assert.True(t, rootCmd.SilenceUsage)
}

func TestRootCmd_HasPersistentFlags(t *testing.T) {
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	verboseFlag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
}

func TestRootCmd_Subcommands(t *testing.T) {
	for _, name := range []string{
		"ingest", "search", "context", "relevant", "stats", "clear",
		"chunk", "explore", "mcp", "config", "version",
	} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	defer logger.SetVerbose(false)

	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("kb_path = \"/srv/kb\"\n\n[log]\nverbose = true\n"), 0o600))

	appConfig = nil
	cfgFile = path

	require.NoError(t, loadConfig(rootCmd, nil))
	assert.Equal(t, "/srv/kb", appConfig.KBPath)
	assert.True(t, logger.IsVerbose())
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	appConfig = nil
	cfgFile = filepath.Join(t.TempDir(), "missing.toml")

	assert.Error(t, loadConfig(rootCmd, nil))
}

func TestEnsureEngine_UsesBuilder(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	defer closeEngine()

	retriever := &mockRetriever{}
	ingestor := &mockIngestor{}
	closed := false
	var gotCfg *config.Config

	retrieverService = nil
	ingestService = nil
	SetBuilders(Builders{
		Engine: func(_ context.Context, cfg *config.Config) (*Engine, error) {
			gotCfg = cfg
			return &Engine{
				Ingestor:  ingestor,
				Retriever: retriever,
				Close:     func() error { closed = true; return nil },
			}, nil
		},
	})

	require.NoError(t, ensureEngine(context.Background()))
	assert.Same(t, appConfig, gotCfg)
	assert.Same(t, retriever, retrieverService)
	assert.Same(t, ingestor, ingestService)

	closeEngine()
	assert.True(t, closed)
}

func TestEnsureEngine_BuilderError(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	retrieverService = nil
	SetBuilders(Builders{
		Engine: func(context.Context, *config.Config) (*Engine, error) {
			return nil, errMock
		},
	})

	assert.ErrorIs(t, ensureEngine(context.Background()), errMock)
}

func TestEnsureSettings_UsesConfigFlag(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	settingsService = nil
	cfgFile = "/etc/kbase.toml"
	var gotPath string
	SetBuilders(Builders{
		Settings: func(path string) (driving.SettingsService, error) {
			gotPath = path
			return newMockSettings(), nil
		},
	})

	require.NoError(t, ensureSettings())
	assert.Equal(t, "/etc/kbase.toml", gotPath)
	assert.NotNil(t, settingsService)
}

func TestEnsureSettings_BuilderError(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	settingsService = nil
	cfgFile = "/etc/kbase.toml"
	SetBuilders(Builders{
		Settings: func(string) (driving.SettingsService, error) {
			return nil, errMock
		},
	})

	err := ensureSettings()
	assert.ErrorIs(t, err, errMock)
	assert.Contains(t, err.Error(), "/etc/kbase.toml")
}

func TestExecute_ExitCodeErrorIsSilent(t *testing.T) {
	retriever, _, cleanup := setupTestServices()
	defer cleanup()
	retriever.relevant = false

	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	rootCmd.SetArgs([]string{"relevant", "--exit-code", "nothing"})
	defer rootCmd.SetArgs(nil)

	err := Execute()

	var exitErr *ExitCodeError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, "false\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestExecute_PrintsErrors(t *testing.T) {
	retriever, _, cleanup := setupTestServices()
	defer cleanup()
	retriever.err = errMock

	errOut := new(bytes.Buffer)
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(errOut)
	rootCmd.SetArgs([]string{"stats"})
	defer rootCmd.SetArgs(nil)

	err := Execute()

	assert.ErrorIs(t, err, errMock)
	assert.Contains(t, errOut.String(), "Error: reading stats: mock failure")
}
