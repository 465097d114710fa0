package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

func TestSearchCompleted(t *testing.T) {
	t.Run("with results and context", func(t *testing.T) {
		msg := SearchCompleted{
			Query:   "goggles",
			Results: []domain.RetrievalResult{{Title: "Widget", Section: "Safety", Relevance: 0.8}},
			Context: "## Widget - Safety\n\nWear safety goggles.\n",
		}

		assert.Equal(t, "goggles", msg.Query)
		require.Len(t, msg.Results, 1)
		assert.Equal(t, "Widget", msg.Results[0].Title)
		assert.NotEmpty(t, msg.Context)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		msg := SearchCompleted{Query: "goggles", Err: domain.ErrEmbeddingUnavailable}

		assert.Nil(t, msg.Results)
		assert.ErrorIs(t, msg.Err, domain.ErrEmbeddingUnavailable)
	})
}

func TestActionCompleted(t *testing.T) {
	msg := ActionCompleted{Message: "Copied to clipboard"}
	assert.Equal(t, "Copied to clipboard", msg.Message)

	failed := ActionCompleted{Err: errors.New("no clipboard")}
	assert.EqualError(t, failed.Err, "no clipboard")
}

func TestErrorOccurred(t *testing.T) {
	err := errors.New("store closed")
	msg := ErrorOccurred{Err: err}
	assert.Equal(t, err, msg.Err)
}

func TestQuit(t *testing.T) {
	var msg any = Quit{}
	_, ok := msg.(Quit)
	assert.True(t, ok)
}
