package driven

import (
	"context"

	"github.com/custodia-labs/specmcp/internal/core/domain"
)

// KeywordIndex provides full-text search over sections.
// It is rebuilt from scratch with every ingestion, like the SectionStore.
type KeywordIndex interface {
	// Rebuild replaces the index contents with sections.
	Rebuild(ctx context.Context, sections []domain.Section) error

	// Search performs a keyword search and returns matching section URLs with scores.
	Search(ctx context.Context, query string, limit int) ([]KeywordHit, error)

	// Close releases resources.
	Close() error
}

// KeywordHit represents a keyword search result.
type KeywordHit struct {
	// URL identifies the matched section.
	URL string

	// Score is the relevance score (higher is better).
	Score float64
}
