// Package tui provides the interactive knowledge-base explorer.
// It is a driving adapter over the retriever port.
package tui

import (
	"github.com/custodia-labs/kbase/internal/core/ports/driving"
)

// Ports aggregates the driving ports the explorer calls.
type Ports struct {
	// Retriever answers queries.
	Retriever driving.Retriever

	// ResultAction copies and opens results. Optional.
	ResultAction driving.ResultActionService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retriever == nil {
		return ErrMissingRetriever
	}
	return nil
}
