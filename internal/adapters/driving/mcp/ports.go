package mcp

import (
	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driving"
)

// Ports aggregates everything the MCP server calls into.
type Ports struct {
	// Retrieval backs the three tools and the stats resource.
	Retrieval driving.RetrievalService

	// Sources is the ingestion catalog, published as a resource. Optional.
	Sources []domain.SpecSource
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Retrieval == nil {
		return ErrMissingRetrievalService
	}
	return nil
}
