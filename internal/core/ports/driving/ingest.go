package driving

import (
	"context"

	"github.com/custodia-labs/specmcp/internal/core/domain"
)

// IngestService rebuilds the section store from specification documents.
type IngestService interface {
	// Ingest fetches, extracts and embeds every source, then replaces the
	// store contents with the result. Documents that fail to fetch and
	// sections that fail to embed are skipped and listed in the report.
	Ingest(ctx context.Context, sources []domain.SpecSource) (*domain.IngestReport, error)
}
