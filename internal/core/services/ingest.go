package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
	"github.com/custodia-labs/specmcp/internal/core/ports/driving"
	"github.com/custodia-labs/specmcp/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// SectionExtractor splits a parsed document into sections.
type SectionExtractor interface {
	Extract(root driven.DocumentNode, src domain.SpecSource) ([]domain.Section, error)
}

// IngestService rebuilds the store from specification documents.
// Documents and sections are processed strictly one at a time.
type IngestService struct {
	source    driven.DocumentSource
	extractor SectionExtractor
	embedder  *EmbeddingChain
	store     driven.SectionStore
	keyword   driven.KeywordIndex
	progress  driven.ProgressReporter
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	source driven.DocumentSource,
	extractor SectionExtractor,
	embedder *EmbeddingChain,
	store driven.SectionStore,
) *IngestService {
	return &IngestService{
		source:    source,
		extractor: extractor,
		embedder:  embedder,
		store:     store,
		progress:  nopProgress{},
	}
}

// SetKeywordIndex makes ingestion rebuild idx after every successful upsert.
func (s *IngestService) SetKeywordIndex(idx driven.KeywordIndex) {
	s.keyword = idx
}

// SetProgressReporter sets the reporter for per-document progress.
func (s *IngestService) SetProgressReporter(p driven.ProgressReporter) {
	if p == nil {
		p = nopProgress{}
	}
	s.progress = p
}

// Ingest fetches, extracts and embeds every source in order, then replaces
// the store contents with the collected sections.
//
// Duplicate section ids keep the first occurrence. Vectors whose dimension
// differs from the first vector of the run are dropped so a generation
// never mixes dimensions. If nothing could be embedded the store is left
// untouched and an error wrapping domain.ErrEmptyResult is returned.
func (s *IngestService) Ingest(ctx context.Context, sources []domain.SpecSource) (*domain.IngestReport, error) {
	start := time.Now()
	report := &domain.IngestReport{}
	seen := make(map[string]bool)
	var batch []domain.Section

	for _, src := range sources {
		logger.Section("Ingest " + src.URL)

		doc, sections, err := s.ingestDocument(ctx, src, report, seen)
		if err != nil {
			return nil, err
		}
		report.Documents = append(report.Documents, doc)
		batch = append(batch, sections...)
	}

	report.Duration = time.Since(start)
	if len(batch) == 0 {
		return report, fmt.Errorf("ingest: %w: no sections embedded", domain.ErrEmptyResult)
	}

	logger.Info("Upserting %d sections (%d dimensions)", len(batch), report.Dimensions)
	if err := s.store.Upsert(ctx, batch); err != nil {
		return report, fmt.Errorf("upsert sections: %w", err)
	}
	report.Stored = len(batch)

	if s.keyword != nil {
		if err := s.keyword.Rebuild(ctx, batch); err != nil {
			logger.Warn("keyword index rebuild failed: %v", err)
		}
	}

	report.Duration = time.Since(start)
	return report, nil
}

// ingestDocument processes one source. Fetch and extraction failures are
// recorded in the returned report; only context cancellation is returned
// as an error.
func (s *IngestService) ingestDocument(
	ctx context.Context,
	src domain.SpecSource,
	report *domain.IngestReport,
	seen map[string]bool,
) (domain.DocumentReport, []domain.Section, error) {
	doc := domain.DocumentReport{Source: src}

	if err := ctx.Err(); err != nil {
		return doc, nil, err
	}

	root, err := s.source.Fetch(ctx, src.URL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return doc, nil, ctxErr
		}
		logger.Warn("skipping %s: %v", src.URL, err)
		doc.Err = fmt.Errorf("fetch: %w", err)
		return doc, nil, nil
	}

	extracted, err := s.extractor.Extract(root, src)
	if err != nil {
		logger.Warn("skipping %s: %v", src.URL, err)
		doc.Err = fmt.Errorf("extract: %w", err)
		return doc, nil, nil
	}
	doc.Extracted = len(extracted)
	logger.Info("Extracted %d sections from %s", len(extracted), src.URL)

	s.progress.Start(src.Spec.String(), len(extracted))
	defer s.progress.Finish()

	kept := make([]domain.Section, 0, len(extracted))
	for _, sec := range extracted {
		s.progress.Increment()

		if seen[sec.ID] {
			logger.Warn("duplicate section id %s, keeping the first", sec.ID)
			doc.Skipped++
			continue
		}

		vec, backend, err := s.embedder.EmbedWithBackend(ctx, sec.EmbeddingText())
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return doc, nil, ctxErr
			}
			logger.Warn("failed to embed %q: %v", sec.Title, err)
			doc.Skipped++
			continue
		}

		if report.Dimensions == 0 {
			report.Dimensions = len(vec)
			report.Backend = backend
		} else if len(vec) != report.Dimensions {
			logger.Warn("skipping %s: %s returned %d dimensions, generation uses %d",
				sec.ID, backend, len(vec), report.Dimensions)
			doc.Skipped++
			continue
		}

		logger.Debug("Embedded %s with %s", sec.ID, backend)
		sec.Vector = vec
		seen[sec.ID] = true
		kept = append(kept, sec)
		doc.Embedded++
	}

	return doc, kept, nil
}

type nopProgress struct{}

func (nopProgress) Start(string, int) {}
func (nopProgress) Increment()        {}
func (nopProgress) Finish()           {}
