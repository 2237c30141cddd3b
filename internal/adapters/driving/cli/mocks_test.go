package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
)

type mockRetrievalService struct {
	results  []domain.Section
	keyword  []domain.Section
	sections map[string]domain.Section
	answer   string
	stats    domain.StoreStats
	err      error

	lastQuery    string
	lastLimit    int
	lastQuestion string
}

func (m *mockRetrievalService) Search(_ context.Context, query string, limit int) ([]domain.Section, error) {
	m.lastQuery, m.lastLimit = query, limit
	return m.results, m.err
}

func (m *mockRetrievalService) KeywordSearch(_ context.Context, query string, limit int) ([]domain.Section, error) {
	m.lastQuery, m.lastLimit = query, limit
	return m.keyword, m.err
}

func (m *mockRetrievalService) Read(_ context.Context, url string) (*domain.Section, error) {
	if m.err != nil {
		return nil, m.err
	}
	sec, ok := m.sections[url]
	if !ok {
		return nil, domain.ErrSectionNotFound
	}
	return &sec, nil
}

func (m *mockRetrievalService) Ask(_ context.Context, question string) (string, error) {
	m.lastQuestion = question
	return m.answer, m.err
}

func (m *mockRetrievalService) Stats(_ context.Context) (domain.StoreStats, error) {
	return m.stats, m.err
}

type mockIngestService struct {
	report  *domain.IngestReport
	err     error
	sources []domain.SpecSource
}

func (m *mockIngestService) Ingest(_ context.Context, sources []domain.SpecSource) (*domain.IngestReport, error) {
	m.sources = sources
	if m.err != nil {
		return nil, m.err
	}
	return m.report, nil
}

type mockProviderService struct {
	statuses []domain.BackendStatus
}

func (m *mockProviderService) Status(_ context.Context) []domain.BackendStatus {
	return m.statuses
}

type recordingProgress struct {
	starts []string
}

func (p *recordingProgress) Start(label string, _ int) { p.starts = append(p.starts, label) }
func (p *recordingProgress) Increment()                {}
func (p *recordingProgress) Finish()                   {}

var _ driven.ProgressReporter = (*recordingProgress)(nil)

// execute runs the root command with services installed and restores
// package state afterwards.
func execute(t *testing.T, services *Services, args ...string) (string, error) {
	t.Helper()
	SetServices(services)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)

	t.Cleanup(func() {
		SetServices(nil)
		rootCmd.SetArgs(nil)
		searchLimit, searchJSON, searchKeyword = 5, false, false
		ingestSpecs, ingestNoProgress = nil, false
		mcpPort = 0
		verbose = false
	})

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func sampleSections() []domain.Section {
	d1, d2 := 0.12, 0.34
	return []domain.Section{
		{
			ID:       "bidi-command-session-new",
			Title:    "7.1.3.1 The session.new Command",
			URL:      "https://w3c.github.io/webdriver-bidi/#command-session-new",
			Content:  "The session.new command allows creating a new BiDi session.",
			Spec:     domain.SpecBiDi,
			Distance: &d1,
		},
		{
			ID:       "classic-new-session",
			Title:    "8.1 New Session",
			URL:      "https://www.w3.org/TR/webdriver/#new-session",
			Content:  "HTTP Method\tURI Template\nPOST\t/session",
			Spec:     domain.SpecClassic,
			Distance: &d2,
		},
	}
}

var sampleCreated = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
