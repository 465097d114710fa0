package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

func newTestActions() (*ResultActionService, *string, *string) {
	var copied, opened string
	svc := &ResultActionService{
		copyText: func(s string) error { copied = s; return nil },
		open:     func(p string) error { opened = p; return nil },
	}
	return svc, &copied, &opened
}

func TestResultActionService_CopyToClipboard(t *testing.T) {
	svc, copied, _ := newTestActions()

	err := svc.CopyToClipboard(context.Background(), &domain.RetrievalResult{Content: "Wear goggles."})
	require.NoError(t, err)
	assert.Equal(t, "Wear goggles.", *copied)

	assert.ErrorIs(t, svc.CopyToClipboard(context.Background(), nil), domain.ErrInvalidInput)

	svc.copyText = func(string) error { return errMock }
	assert.ErrorIs(t, svc.CopyToClipboard(context.Background(), &domain.RetrievalResult{}), errMock)
}

func TestResultActionService_OpenSource(t *testing.T) {
	svc, _, opened := newTestActions()

	err := svc.OpenSource(context.Background(), &domain.RetrievalResult{Source: "/kb/general/safety.md"})
	require.NoError(t, err)
	assert.Equal(t, "/kb/general/safety.md", *opened)

	assert.ErrorIs(t, svc.OpenSource(context.Background(), nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, svc.OpenSource(context.Background(), &domain.RetrievalResult{Source: "unknown"}), domain.ErrNotFound)

	svc.open = func(string) error { return errMock }
	err = svc.OpenSource(context.Background(), &domain.RetrievalResult{Source: "/kb/a.md"})
	assert.ErrorIs(t, err, errMock)
	assert.Contains(t, err.Error(), "/kb/a.md")
}

func TestNewResultActionService(t *testing.T) {
	svc := NewResultActionService()
	assert.NotNil(t, svc.copyText)
	assert.NotNil(t, svc.open)
}
