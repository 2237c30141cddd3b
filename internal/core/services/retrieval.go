package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
	"github.com/custodia-labs/specmcp/internal/core/ports/driving"
	"github.com/custodia-labs/specmcp/internal/logger"
)

// Ensure RetrievalService implements the interface.
var _ driving.RetrievalService = (*RetrievalService)(nil)

const (
	// DefaultSearchLimit is used when Search is called without a limit.
	DefaultSearchLimit = 5

	// AskContextSections is how many sections ground an Ask answer.
	AskContextSections = 3
)

// AskTemplate is the built-in PromptAsk template.
const AskTemplate = `You are an expert on the WebDriver BiDi and WebDriver Classic specifications. Answer the following question based ONLY on the provided context.
Context:
%s

Question: %s

Answer:`

// RetrievalService composes the embedding chain, the section store and the
// generation chain into the three query operations.
type RetrievalService struct {
	store     driven.SectionStore
	embedder  *EmbeddingChain
	generator *GenerationChain
	keyword   driven.KeywordIndex
	prompts   driven.PromptStore
}

// NewRetrievalService creates a new retrieval service.
// The generator may be nil, in which case Ask fails with ErrProviderUnavailable.
func NewRetrievalService(
	store driven.SectionStore,
	embedder *EmbeddingChain,
	generator *GenerationChain,
) *RetrievalService {
	return &RetrievalService{
		store:     store,
		embedder:  embedder,
		generator: generator,
	}
}

// SetKeywordIndex enables KeywordSearch.
func (s *RetrievalService) SetKeywordIndex(idx driven.KeywordIndex) {
	s.keyword = idx
}

// SetPromptStore lets Ask use a customised PromptAsk template.
func (s *RetrievalService) SetPromptStore(ps driven.PromptStore) {
	s.prompts = ps
}

// DefaultPrompts returns the built-in templates keyed by prompt name.
func DefaultPrompts() map[string]string {
	return map[string]string{driven.PromptAsk: AskTemplate}
}

// Search embeds query and returns the most similar stored sections.
func (s *RetrievalService) Search(ctx context.Context, query string, limit int) ([]domain.Section, error) {
	logger.Section("Search")
	logger.Debug("Query: %q", query)

	if strings.TrimSpace(query) == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.Section{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	vec, err := s.queryVector(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.store.Search(ctx, vec, limit)
	if err != nil {
		return nil, fmt.Errorf("search store: %w", err)
	}
	logger.Debug("Found %d sections", len(results))
	return results, nil
}

// KeywordSearch resolves keyword index hits to stored sections.
// Hits whose section is no longer stored are dropped.
func (s *RetrievalService) KeywordSearch(ctx context.Context, query string, limit int) ([]domain.Section, error) {
	if s.keyword == nil {
		return nil, fmt.Errorf("keyword search: %w: no keyword index configured", domain.ErrUnsupportedType)
	}
	if strings.TrimSpace(query) == "" {
		return []domain.Section{}, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	hits, err := s.keyword.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("keyword search: %w", err)
	}

	results := make([]domain.Section, 0, len(hits))
	for _, hit := range hits {
		sec, err := s.store.GetByURL(ctx, hit.URL)
		if errors.Is(err, domain.ErrNotFound) {
			logger.Debug("Keyword hit %s not in store, skipping", hit.URL)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("hydrate %s: %w", hit.URL, err)
		}
		results = append(results, *sec)
	}
	return results, nil
}

// Read returns the section stored under url.
func (s *RetrievalService) Read(ctx context.Context, url string) (*domain.Section, error) {
	sec, err := s.store.GetByURL(ctx, url)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSectionNotFound, url)
	}
	if err != nil {
		return nil, fmt.Errorf("read section: %w", err)
	}
	return sec, nil
}

// Ask answers question from the AskContextSections most similar sections.
// The answer is returned exactly as generated.
func (s *RetrievalService) Ask(ctx context.Context, question string) (string, error) {
	logger.Section("Ask")
	if s.generator == nil {
		return "", fmt.Errorf("ask: %w: no generation backends", domain.ErrProviderUnavailable)
	}

	vec, err := s.queryVector(ctx, question)
	if err != nil {
		return "", fmt.Errorf("embed question: %w", err)
	}

	sections, err := s.store.Search(ctx, vec, AskContextSections)
	if err != nil {
		return "", fmt.Errorf("search store: %w", err)
	}
	logger.Debug("Answering from %d context sections", len(sections))

	prompt := fmt.Sprintf(s.askTemplate(), AskContext(sections), question)
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("generate answer: %w", err)
	}
	return answer, nil
}

// Stats describes the current store generation.
func (s *RetrievalService) Stats(ctx context.Context) (domain.StoreStats, error) {
	return s.store.Stats(ctx)
}

// queryVector embeds text with a backend whose vectors match the stored
// collection. Without a collection any backend is accepted.
func (s *RetrievalService) queryVector(ctx context.Context, text string) ([]float32, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("store stats: %w", err)
	}
	return s.embedder.EmbedDimensions(ctx, text, stats.Dimensions)
}

// askTemplate returns the customised template when it keeps both placeholders.
func (s *RetrievalService) askTemplate() string {
	if s.prompts == nil {
		return AskTemplate
	}
	tmpl, err := s.prompts.Load(driven.PromptAsk)
	if err != nil {
		logger.Warn("Loading %s prompt: %v; using built-in template", driven.PromptAsk, err)
		return AskTemplate
	}
	if strings.Count(tmpl, "%s") != 2 || strings.Count(tmpl, "%") != 2 {
		logger.Warn("Custom %s prompt must contain exactly two %%s placeholders; using built-in template",
			driven.PromptAsk)
		return AskTemplate
	}
	return tmpl
}

// AskContext renders sections as "Title: ...\nContent: ..." blocks
// separated by blank lines.
func AskContext(sections []domain.Section) string {
	blocks := make([]string, len(sections))
	for i, sec := range sections {
		blocks[i] = "Title: " + sec.Title + "\nContent: " + sec.Content
	}
	return strings.Join(blocks, "\n\n")
}
