package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelevantCmd_Use(t *testing.T) {
	assert.Equal(t, "relevant [query]", relevantCmd.Use)
}

func TestRelevantCmd_PrintsAnswer(t *testing.T) {
	tests := []struct {
		name     string
		relevant bool
		want     string
	}{
		{"relevant", true, "true\n"},
		{"not relevant", false, "false\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retriever, _, cleanup := setupTestServices()
			defer cleanup()
			retriever.relevant = tt.relevant

			out, err := executeCommand("relevant", "how do I use the widget")

			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestRelevantCmd_PassesThreshold(t *testing.T) {
	retriever, _, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("relevant", "--threshold", "0.55", "widget")

	require.NoError(t, err)
	assert.InDelta(t, 0.55, retriever.lastThreshold, 1e-9)
}

func TestRelevantCmd_RejectsThresholdOutOfRange(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("relevant", "--threshold", "1.5", "widget")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "between 0 and 1")
}

func TestRelevantCmd_ExitCode(t *testing.T) {
	retriever, _, cleanup := setupTestServices()
	defer cleanup()
	retriever.relevant = false

	_, err := executeCommand("relevant", "--exit-code", "quantum physics")

	var exitErr *ExitCodeError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, exitErr.Code)
}

func TestRelevantCmd_ExitCodeWhenRelevant(t *testing.T) {
	retriever, _, cleanup := setupTestServices()
	defer cleanup()
	retriever.relevant = true

	out, err := executeCommand("relevant", "--exit-code", "widget")

	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}
