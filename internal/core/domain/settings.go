package domain

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// SettingKind is the value type of a configuration setting.
type SettingKind string

// Available setting kinds.
const (
	SettingString SettingKind = "string"
	SettingInt    SettingKind = "int"
	SettingFloat  SettingKind = "float"
	SettingBool   SettingKind = "bool"
)

// String returns the string representation.
func (k SettingKind) String() string {
	return string(k)
}

// Setting describes one configuration key.
type Setting struct {
	// Key is the dotted configuration key, e.g. "store.backend".
	Key string

	// Kind is the value type.
	Kind SettingKind

	// Default is the built-in value. Empty strings and zeros mean the
	// component picks its own default.
	Default any

	// Choices restricts string values. Empty means any value.
	Choices []string

	// Secret settings are masked when listed.
	Secret bool

	// Description is a one-line explanation.
	Description string
}

// Parse converts raw text into a value of the setting's kind.
func (s Setting) Parse(raw string) (any, error) {
	raw = strings.TrimSpace(raw)

	switch s.Kind {
	case SettingInt:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %q is not an integer", s.Key, ErrInvalidInput, raw)
		}
		if v < 0 {
			return nil, fmt.Errorf("%s: %w: must not be negative", s.Key, ErrInvalidInput)
		}
		return v, nil
	case SettingFloat:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %q is not a number", s.Key, ErrInvalidInput, raw)
		}
		if v < 0 {
			return nil, fmt.Errorf("%s: %w: must not be negative", s.Key, ErrInvalidInput)
		}
		return v, nil
	case SettingBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %q is not a boolean", s.Key, ErrInvalidInput, raw)
		}
		return v, nil
	default:
		if len(s.Choices) > 0 && !slices.Contains(s.Choices, raw) {
			return nil, fmt.Errorf("%s: %w: %q is not one of %s",
				s.Key, ErrInvalidInput, raw, strings.Join(s.Choices, ", "))
		}
		return raw, nil
	}
}

// SettingValue is a setting together with its effective value.
type SettingValue struct {
	Setting

	// Value is the configured value, or Default when IsSet is false.
	Value any

	// IsSet reports whether the value comes from the config file.
	IsSet bool
}

// Settings returns every configuration key, in display order.
func Settings() []Setting {
	return []Setting{
		{Key: "kb_path", Kind: SettingString, Default: "./knowledge_base",
			Description: "Knowledge-base root directory"},

		{Key: "store.backend", Kind: SettingString, Default: "sqlite", Choices: []string{"sqlite", "memory"},
			Description: "Vector store backend"},
		{Key: "store.path", Kind: SettingString, Default: "~/.kbase/data",
			Description: "Vector store directory"},
		{Key: "store.collection", Kind: SettingString, Default: "knowledge_base",
			Description: "Collection name"},

		{Key: "chunking.max_size", Kind: SettingInt, Default: 1500,
			Description: "Maximum characters per chunk"},
		{Key: "chunking.min_size", Kind: SettingInt, Default: 100,
			Description: "Chunks shorter than this are dropped"},

		{Key: "ingest.batch_size", Kind: SettingInt, Default: 100,
			Description: "Chunks embedded and stored per batch"},

		{Key: "retrieval.default_results", Kind: SettingInt, Default: 5,
			Description: "Results returned when no limit is given"},
		{Key: "retrieval.relevance_threshold", Kind: SettingFloat, Default: 0.3,
			Description: "Minimum relevance for search results"},
		{Key: "retrieval.relevant_query_threshold", Kind: SettingFloat, Default: 0.4,
			Description: "Minimum top relevance for a relevant query"},
		{Key: "retrieval.max_context_length", Kind: SettingInt, Default: 4000,
			Description: "Context budget in characters"},

		{Key: "embedding.provider", Kind: SettingString, Default: "ollama",
			Choices:     []string{"ollama", "openai", "hashing"},
			Description: "Embedding provider"},
		{Key: "embedding.model", Kind: SettingString, Default: "",
			Description: "Embedding model (empty for the provider default)"},
		{Key: "embedding.base_url", Kind: SettingString, Default: "",
			Description: "Provider API base URL (empty for the provider default)"},
		{Key: "embedding.api_key", Kind: SettingString, Default: "", Secret: true,
			Description: "OpenAI API key (falls back to OPENAI_API_KEY)"},
		{Key: "embedding.dimensions", Kind: SettingInt, Default: 0,
			Description: "Embedding vector size (0 for the provider default)"},
		{Key: "embedding.requests_per_second", Kind: SettingFloat, Default: 0.0,
			Description: "Request rate limit for remote providers (0 disables)"},

		{Key: "mcp.port", Kind: SettingInt, Default: 0,
			Description: "MCP HTTP port (0 serves over stdio)"},

		{Key: "log.verbose", Kind: SettingBool, Default: false,
			Description: "Debug logging"},
	}
}

// LookupSetting returns the setting for key.
func LookupSetting(key string) (Setting, bool) {
	for _, s := range Settings() {
		if s.Key == key {
			return s, true
		}
	}
	return Setting{}, false
}
