// Package tui provides an interactive terminal browser for the ingested
// specifications. It is a driving adapter over the retrieval service.
package tui

import (
	"errors"

	"github.com/custodia-labs/specmcp/internal/core/ports/driving"
)

// ErrMissingRetrievalService is returned when the retrieval service is not provided.
var ErrMissingRetrievalService = errors.New("tui: retrieval service is required")

// Ports aggregates the driving ports the TUI calls into.
type Ports struct {
	Retrieval driving.RetrievalService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
