package services

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
)

var errBackend = errors.New("backend error")

// mockEmbedder implements driven.EmbeddingBackend for testing.
type mockEmbedder struct {
	name    string
	vec     []float32
	err     error
	embed   func(ctx context.Context, text string) ([]float32, error)
	pingErr error
	calls   int
	texts   []string
	closed  bool
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	m.calls++
	m.texts = append(m.texts, text)
	if m.embed != nil {
		return m.embed(ctx, text)
	}
	return m.vec, m.err
}

func (m *mockEmbedder) Name() string { return m.name }

func (m *mockEmbedder) Ping(_ context.Context) error { return m.pingErr }

func (m *mockEmbedder) Close() error {
	m.closed = true
	return nil
}

// mockGenerator implements driven.GenerationBackend for testing.
type mockGenerator struct {
	name    string
	answer  string
	err     error
	pingErr error
	calls   int
	prompts []string
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, prompt)
	return m.answer, m.err
}

func (m *mockGenerator) Name() string { return m.name }

func (m *mockGenerator) Ping(_ context.Context) error { return m.pingErr }

func (m *mockGenerator) Close() error { return nil }

// mockDocumentSource implements driven.DocumentSource for testing.
type mockDocumentSource struct {
	docs    map[string]driven.DocumentNode
	errs    map[string]error
	fetched []string
}

func (m *mockDocumentSource) Fetch(_ context.Context, url string) (driven.DocumentNode, error) {
	m.fetched = append(m.fetched, url)
	if err, ok := m.errs[url]; ok {
		return nil, err
	}
	doc, ok := m.docs[url]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return doc, nil
}

// mockExtractor returns canned sections per document URL.
type mockExtractor struct {
	sections map[string][]domain.Section
	err      error
}

func (m *mockExtractor) Extract(_ driven.DocumentNode, src domain.SpecSource) ([]domain.Section, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sections[src.URL], nil
}

// mockKeywordIndex implements driven.KeywordIndex for testing.
type mockKeywordIndex struct {
	rebuilt    []domain.Section
	rebuildErr error
	hits       []driven.KeywordHit
	searchErr  error
}

func (m *mockKeywordIndex) Rebuild(_ context.Context, sections []domain.Section) error {
	m.rebuilt = sections
	return m.rebuildErr
}

func (m *mockKeywordIndex) Search(_ context.Context, _ string, limit int) ([]driven.KeywordHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if limit < len(m.hits) {
		return m.hits[:limit], nil
	}
	return m.hits, nil
}

func (m *mockKeywordIndex) Close() error { return nil }

// mockProgress records progress calls.
type mockProgress struct {
	labels     []string
	totals     []int
	increments int
	finishes   int
}

func (m *mockProgress) Start(label string, total int) {
	m.labels = append(m.labels, label)
	m.totals = append(m.totals, total)
}

func (m *mockProgress) Increment() { m.increments++ }

func (m *mockProgress) Finish() { m.finishes++ }

// failingStore wraps a store and fails selected operations.
type failingStore struct {
	driven.SectionStore
	upsertErr error
	searchErr error
	getErr    error
}

func (f *failingStore) Upsert(ctx context.Context, sections []domain.Section) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	return f.SectionStore.Upsert(ctx, sections)
}

func (f *failingStore) Search(ctx context.Context, vec []float32, limit int) ([]domain.Section, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.SectionStore.Search(ctx, vec, limit)
}

func (f *failingStore) GetByURL(ctx context.Context, url string) (*domain.Section, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.SectionStore.GetByURL(ctx, url)
}

// bagOfWords embeds text as word counts over a fixed vocabulary, so that
// texts sharing words have small cosine distance.
func bagOfWords(vocab ...string) func(context.Context, string) ([]float32, error) {
	return func(_ context.Context, text string) ([]float32, error) {
		vec := make([]float32, len(vocab)+1)
		vec[len(vocab)] = 0.01
		words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
			return !unicode.IsLetter(r)
		})
		for _, w := range words {
			for i, v := range vocab {
				if w == v {
					vec[i]++
				}
			}
		}
		return vec, nil
	}
}

// mockPromptStore serves fixed templates.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.prompts[name], nil
}
