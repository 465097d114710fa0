package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_UniqueKeysAndDefaults(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range Settings() {
		assert.False(t, seen[s.Key], "duplicate key %s", s.Key)
		seen[s.Key] = true
		assert.NotEmpty(t, s.Description, s.Key)

		switch s.Kind {
		case SettingString:
			assert.IsType(t, "", s.Default, s.Key)
		case SettingInt:
			assert.IsType(t, 0, s.Default, s.Key)
		case SettingFloat:
			assert.IsType(t, 0.0, s.Default, s.Key)
		case SettingBool:
			assert.IsType(t, false, s.Default, s.Key)
		default:
			t.Errorf("%s: unknown kind %q", s.Key, s.Kind)
		}
	}
}

func TestLookupSetting(t *testing.T) {
	s, ok := LookupSetting("retrieval.relevance_threshold")
	require.True(t, ok)
	assert.Equal(t, SettingFloat, s.Kind)
	assert.Equal(t, 0.3, s.Default)

	_, ok = LookupSetting("llm.provider")
	assert.False(t, ok)
}

func TestSetting_Parse(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		raw     string
		want    any
		wantErr bool
	}{
		{name: "int", key: "chunking.max_size", raw: "800", want: 800},
		{name: "int with spaces", key: "chunking.max_size", raw: " 800 ", want: 800},
		{name: "int invalid", key: "chunking.max_size", raw: "big", wantErr: true},
		{name: "int negative", key: "ingest.batch_size", raw: "-1", wantErr: true},
		{name: "float", key: "retrieval.relevance_threshold", raw: "0.25", want: 0.25},
		{name: "float invalid", key: "retrieval.relevance_threshold", raw: "high", wantErr: true},
		{name: "bool", key: "log.verbose", raw: "true", want: true},
		{name: "bool invalid", key: "log.verbose", raw: "maybe", wantErr: true},
		{name: "choice", key: "embedding.provider", raw: "hashing", want: "hashing"},
		{name: "choice invalid", key: "store.backend", raw: "postgres", wantErr: true},
		{name: "free string", key: "kb_path", raw: "/srv/kb", want: "/srv/kb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, ok := LookupSetting(tt.key)
			require.True(t, ok)

			got, err := s.Parse(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidInput)
				assert.Contains(t, err.Error(), tt.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
