package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClearCmd_PrintsRemovedCount(t *testing.T) {
	_, ingestor, cleanup := setupTestServices()
	defer cleanup()
	ingestor.removed = 17

	out, err := executeCommand("clear")

	require.NoError(t, err)
	assert.Equal(t, "Removed 17 chunks\n", out)
}

func TestClearCmd_ServiceError(t *testing.T) {
	_, ingestor, cleanup := setupTestServices()
	defer cleanup()
	ingestor.err = errMock

	_, err := executeCommand("clear")

	assert.ErrorIs(t, err, errMock)
	assert.Contains(t, err.Error(), "clearing store")
}
