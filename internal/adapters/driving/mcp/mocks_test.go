package mcp

import (
	"context"

	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driving"
)

var _ driving.RetrievalService = (*mockRetrievalService)(nil)

type mockRetrievalService struct {
	results  []domain.Section
	sections map[string]domain.Section
	answer   string
	stats    domain.StoreStats
	err      error

	lastQuery    string
	lastLimit    int
	lastQuestion string
}

func (m *mockRetrievalService) Search(_ context.Context, query string, limit int) ([]domain.Section, error) {
	m.lastQuery = query
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

func (m *mockRetrievalService) KeywordSearch(_ context.Context, query string, limit int) ([]domain.Section, error) {
	return m.Search(context.Background(), query, limit)
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
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

func (m *mockRetrievalService) Stats(_ context.Context) (domain.StoreStats, error) {
	if m.err != nil {
		return domain.StoreStats{}, m.err
	}
	return m.stats, nil
}
