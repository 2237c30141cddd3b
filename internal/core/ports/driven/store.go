package driven

import (
	"context"

	"github.com/custodia-labs/specmcp/internal/core/domain"
)

// SectionStore persists sections with their vectors.
//
// A store holds at most one collection. "No collection" is a valid state:
// it is what a fresh install looks like and what an interrupted upsert may
// leave behind, so reads must degrade to empty results instead of failing.
type SectionStore interface {
	// Upsert replaces the entire collection with sections.
	// Every section must carry a vector of the same dimension.
	Upsert(ctx context.Context, sections []domain.Section) error

	// GetByURL returns the first section whose URL matches exactly.
	// Returns domain.ErrNotFound when absent or when no collection exists.
	GetByURL(ctx context.Context, url string) (*domain.Section, error)

	// Search returns up to limit sections ordered most similar first,
	// each with Distance set. Returns an empty slice when no collection exists.
	Search(ctx context.Context, vector []float32, limit int) ([]domain.Section, error)

	// Stats describes the current generation.
	Stats(ctx context.Context) (domain.StoreStats, error)

	// Close releases resources.
	Close() error
}
