package driving

import (
	"context"

	"github.com/custodia-labs/specmcp/internal/core/domain"
)

// RetrievalService answers queries against the ingested sections.
// It backs the search_specs, read_spec_section and ask_webdriver tools.
type RetrievalService interface {
	// Search embeds query and returns up to limit sections, most similar first.
	// A non-positive limit uses the default of 5.
	Search(ctx context.Context, query string, limit int) ([]domain.Section, error)

	// KeywordSearch runs a full-text query against the keyword index.
	// Returns domain.ErrUnsupportedType when no keyword index is configured.
	KeywordSearch(ctx context.Context, query string, limit int) ([]domain.Section, error)

	// Read returns the section stored under url.
	// Returns domain.ErrSectionNotFound when absent.
	Read(ctx context.Context, url string) (*domain.Section, error)

	// Ask retrieves context for question and returns the generated answer verbatim.
	Ask(ctx context.Context, question string) (string, error)

	// Stats describes the current store generation.
	Stats(ctx context.Context) (domain.StoreStats, error)
}
