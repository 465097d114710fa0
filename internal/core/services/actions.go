package services

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"

	"github.com/custodia-labs/kbase/internal/core/domain"
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
)

// Ensure ResultActionService implements the interface.
var _ driving.ResultActionService = (*ResultActionService)(nil)

// ResultActionService provides actions on retrieval results.
type ResultActionService struct {
	copyText func(string) error
	open     func(string) error
}

// NewResultActionService creates a result action service that uses the
// system clipboard and the platform's default file handler.
func NewResultActionService() *ResultActionService {
	return &ResultActionService{
		copyText: clipboard.WriteAll,
		open:     openPath,
	}
}

// CopyToClipboard copies the result's content to the system clipboard.
func (s *ResultActionService) CopyToClipboard(_ context.Context, result *domain.RetrievalResult) error {
	if result == nil {
		return fmt.Errorf("copy: %w: result is nil", domain.ErrInvalidInput)
	}
	if err := s.copyText(result.Content); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	return nil
}

// OpenSource opens the result's source file in the default application.
func (s *ResultActionService) OpenSource(_ context.Context, result *domain.RetrievalResult) error {
	if result == nil {
		return fmt.Errorf("open: %w: result is nil", domain.ErrInvalidInput)
	}
	if result.Source == "" || result.Source == unknownValue {
		return fmt.Errorf("open: %w: result has no source", domain.ErrNotFound)
	}
	if err := s.open(result.Source); err != nil {
		return fmt.Errorf("open %s: %w", result.Source, err)
	}
	return nil
}

// openPath opens a path using the system default handler.
func openPath(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
