package cli

import (
	"bytes"
	"context"
	"errors"

	"github.com/spf13/viper"

	"github.com/custodia-labs/kbase/internal/config"
	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/services"
)

var errMock = errors.New("mock failure")

// mockRetriever implements driving.Retriever for testing.
type mockRetriever struct {
	results  []domain.RetrievalResult
	context  string
	relevant bool
	stats    domain.StoreStats
	err      error

	lastQuery     string
	lastSearch    domain.SearchOptions
	lastContext   domain.ContextOptions
	lastThreshold float64
}

func (m *mockRetriever) Search(_ context.Context, query string, opts domain.SearchOptions) ([]domain.RetrievalResult, error) {
	m.lastQuery = query
	m.lastSearch = opts
	return m.results, m.err
}

func (m *mockRetriever) GetContext(_ context.Context, query string, opts domain.ContextOptions) (string, error) {
	m.lastQuery = query
	m.lastContext = opts
	return m.context, m.err
}

func (m *mockRetriever) IsRelevantQuery(_ context.Context, query string, threshold float64) (bool, error) {
	m.lastQuery = query
	m.lastThreshold = threshold
	return m.relevant, m.err
}

func (m *mockRetriever) Stats(_ context.Context) (domain.StoreStats, error) {
	return m.stats, m.err
}

// mockIngestor implements driving.Ingestor for testing.
type mockIngestor struct {
	stats   *domain.IngestStats
	removed int
	err     error

	lastOpts domain.IngestOptions
	progress services.ProgressFunc
}

func (m *mockIngestor) Ingest(_ context.Context, opts domain.IngestOptions) (*domain.IngestStats, error) {
	m.lastOpts = opts
	return m.stats, m.err
}

func (m *mockIngestor) Clear(_ context.Context) (int, error) {
	return m.removed, m.err
}

func (m *mockIngestor) SetProgress(fn services.ProgressFunc) {
	m.progress = fn
}

// mockSettings implements driving.SettingsService over a map.
type mockSettings struct {
	values map[string]any
	err    error
}

func newMockSettings() *mockSettings {
	return &mockSettings{values: map[string]any{}}
}

func (m *mockSettings) Get(key string) (domain.SettingValue, error) {
	setting, ok := domain.LookupSetting(key)
	if !ok {
		return domain.SettingValue{}, domain.ErrNotFound
	}
	v := domain.SettingValue{Setting: setting, Value: setting.Default}
	if val, ok := m.values[key]; ok {
		v.Value = val
		v.IsSet = true
	}
	return v, nil
}

func (m *mockSettings) Set(key, raw string) error {
	if m.err != nil {
		return m.err
	}
	setting, ok := domain.LookupSetting(key)
	if !ok {
		return domain.ErrNotFound
	}
	value, err := setting.Parse(raw)
	if err != nil {
		return err
	}
	m.values[key] = value
	return nil
}

func (m *mockSettings) Unset(key string) error {
	if _, ok := domain.LookupSetting(key); !ok {
		return domain.ErrNotFound
	}
	delete(m.values, key)
	return nil
}

func (m *mockSettings) List() []domain.SettingValue {
	var out []domain.SettingValue
	for _, s := range domain.Settings() {
		v, _ := m.Get(s.Key)
		out = append(out, v)
	}
	return out
}

func (m *mockSettings) Path() string {
	return "/home/test/.kbase/config.toml"
}

// testConfig returns the default configuration without reading any file.
func testConfig() *config.Config {
	v := viper.New()
	config.SetDefaults(v)
	cfg, err := config.FromViper(v)
	if err != nil {
		panic(err)
	}
	cfg.KBPath = "/kb"
	cfg.Store.Path = "/data"
	return cfg
}

// setupTestServices installs mocks and a default configuration, and
// returns a function that restores the package state.
func setupTestServices() (*mockRetriever, *mockIngestor, func()) {
	oldConfig := appConfig
	oldRetriever := retrieverService
	oldIngestor := ingestService
	oldSettings := settingsService
	oldActions := resultActionService
	oldBuilders := builders

	retriever := &mockRetriever{}
	ingestor := &mockIngestor{stats: &domain.IngestStats{}}

	appConfig = testConfig()
	retrieverService = retriever
	ingestService = ingestor
	settingsService = newMockSettings()
	resultActionService = nil
	builders = Builders{}

	return retriever, ingestor, func() {
		appConfig = oldConfig
		retrieverService = oldRetriever
		ingestService = oldIngestor
		settingsService = oldSettings
		resultActionService = oldActions
		builders = oldBuilders
		resetFlags()
	}
}

// resetFlags restores every flag variable to its default, since cobra
// keeps parsed values between executions.
func resetFlags() {
	cfgFile = ""
	verbose = false

	searchLimit = 0
	searchCategory = ""
	searchAll = false
	searchJSON = false
	searchYAML = false

	contextLimit = 0
	contextMaxLength = 0

	relevantThreshold = 0
	relevantExitCode = false

	statsJSON = false
	statsYAML = false

	ingestKBPath = ""
	ingestStorePath = ""
	ingestNoClear = false
	ingestBatchSize = 0
	ingestSubtrees = nil

	chunkMaxSize = 0
	chunkMinSize = -1
	chunkJSON = false
	chunkYAML = false

	mcpPort = 0
}

// executeCommand runs rootCmd with args and returns combined output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}
