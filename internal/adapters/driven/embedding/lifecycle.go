// Package embedding holds pieces shared by the embedding service adapters.
//
// Each provider lives in its own subpackage (ollama, openai, hashing) and
// guards its model with a Lifecycle so that embedding outside the
// Initialize/Close window fails with domain.ErrEmbeddingNotInitialized.
package embedding

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/kbase/internal/core/domain"
)

// Lifecycle tracks whether a model is loaded.
// The zero value is ready to use and not initialised.
type Lifecycle struct {
	mu    sync.RWMutex
	ready bool
}

// Initialize runs load once while holding the write lock.
// Calls after a successful load return nil without running load again.
// A load error is wrapped with domain.ErrEmbeddingUnavailable.
func (l *Lifecycle) Initialize(ctx context.Context, load func(ctx context.Context) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.ready {
		return nil
	}
	if load != nil {
		if err := load(ctx); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
		}
	}
	l.ready = true
	return nil
}

// Do runs fn under the read lock if the model is loaded.
func (l *Lifecycle) Do(fn func() error) error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if !l.ready {
		return domain.ErrEmbeddingNotInitialized
	}
	return fn()
}

// Ready reports whether the model is loaded.
func (l *Lifecycle) Ready() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ready
}

// Close marks the model unloaded. It waits for in-flight Do calls.
func (l *Lifecycle) Close() {
	l.mu.Lock()
	l.ready = false
	l.mu.Unlock()
}

// ToFloat32 converts a provider vector to float32.
func ToFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}
