// Package config loads kbase configuration.
//
// Values come from, in increasing precedence: built-in defaults, the TOML
// config file (~/.kbase/config.toml unless overridden), and KBASE_*
// environment variables. Nested keys map to env names by replacing "."
// with "_", so store.path becomes KBASE_STORE_PATH.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// EnvPrefix is the prefix for environment overrides.
const EnvPrefix = "KBASE"

// FileName is the config file name inside the kbase home directory.
const FileName = "config.toml"

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Embedding providers.
const (
	ProviderOllama  = "ollama"
	ProviderOpenAI  = "openai"
	ProviderHashing = "hashing"
)

// Config is the complete kbase configuration.
type Config struct {
	KBPath    string          `mapstructure:"kb_path"`
	Store     StoreConfig     `mapstructure:"store"`
	Chunking  ChunkingConfig  `mapstructure:"chunking"`
	Ingest    IngestConfig    `mapstructure:"ingest"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	MCP       MCPConfig       `mapstructure:"mcp"`
	Log       LogConfig       `mapstructure:"log"`
}

// StoreConfig selects and locates the vector collection.
type StoreConfig struct {
	Backend    string `mapstructure:"backend"`
	Path       string `mapstructure:"path"`
	Collection string `mapstructure:"collection"`
}

// ChunkingConfig bounds chunk sizes, in characters.
type ChunkingConfig struct {
	MaxSize int `mapstructure:"max_size"`
	MinSize int `mapstructure:"min_size"`
}

// IngestConfig controls ingestion batching.
type IngestConfig struct {
	BatchSize int `mapstructure:"batch_size"`
}

// RetrievalConfig holds retriever defaults.
type RetrievalConfig struct {
	DefaultResults         int     `mapstructure:"default_results"`
	RelevanceThreshold     float64 `mapstructure:"relevance_threshold"`
	RelevantQueryThreshold float64 `mapstructure:"relevant_query_threshold"`
	MaxContextLength       int     `mapstructure:"max_context_length"`
}

// EmbeddingConfig selects the embedding provider.
// Empty model, base URL and dimensions mean the provider defaults.
type EmbeddingConfig struct {
	Provider          string  `mapstructure:"provider"`
	Model             string  `mapstructure:"model"`
	BaseURL           string  `mapstructure:"base_url"`
	APIKey            string  `mapstructure:"api_key"`
	Dimensions        int     `mapstructure:"dimensions"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
}

// MCPConfig configures the MCP server.
type MCPConfig struct {
	Port int `mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Verbose bool `mapstructure:"verbose"`
}

// HomeDir returns the kbase home directory, ~/.kbase.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".kbase"), nil
}

// SetDefaults registers the default of every known setting on v.
func SetDefaults(v *viper.Viper) {
	for _, s := range domain.Settings() {
		v.SetDefault(s.Key, s.Default)
	}
}

// New returns a viper instance with defaults and env overrides wired.
// If path is empty, ~/.kbase/config.toml is used when it exists.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		dir, err := HomeDir()
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(filepath.Join(dir, FileName))
	}
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		// A missing default file is fine; a missing explicit one is not.
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
		if path != "" || !missing {
			return nil, fmt.Errorf("read config %s: %w", v.ConfigFileUsed(), err)
		}
	}

	return v, nil
}

// Load reads configuration from path (or the default file) and the environment.
func Load(path string) (*Config, error) {
	v, err := New(path)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper unmarshals v into a Config and resolves paths.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	// OPENAI_API_KEY is the conventional name; honour it when nothing else is set.
	if cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	storePath, err := ExpandHome(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	cfg.Store.Path = storePath

	kbPath, err := ExpandHome(cfg.KBPath)
	if err != nil {
		return nil, err
	}
	cfg.KBPath = kbPath

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks enumerated values and bounds.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("store.backend: unsupported backend %q", c.Store.Backend)
	}

	switch c.Embedding.Provider {
	case ProviderOllama, ProviderOpenAI, ProviderHashing:
	default:
		return fmt.Errorf("embedding.provider: unsupported provider %q", c.Embedding.Provider)
	}

	if c.Chunking.MaxSize <= 0 {
		return fmt.Errorf("chunking.max_size must be positive, got %d", c.Chunking.MaxSize)
	}
	if c.Chunking.MinSize < 0 || c.Chunking.MinSize > c.Chunking.MaxSize {
		return fmt.Errorf("chunking.min_size must be between 0 and %d, got %d", c.Chunking.MaxSize, c.Chunking.MinSize)
	}
	if c.Store.Collection == "" {
		return fmt.Errorf("store.collection must not be empty")
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
