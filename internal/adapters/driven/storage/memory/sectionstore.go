// Package memory provides an in-process section store for tests and for
// running the server without a database (--store memory).
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/specmcp/internal/adapters/driven/storage/vector"
	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
)

// Ensure SectionStore implements the interface.
var _ driven.SectionStore = (*SectionStore)(nil)

// SectionStore is an in-memory implementation of driven.SectionStore.
// It starts without a collection, like a fresh install.
type SectionStore struct {
	mu       sync.RWMutex
	sections []domain.Section
	stats    domain.StoreStats
}

// NewSectionStore creates a new in-memory section store.
func NewSectionStore() *SectionStore {
	return &SectionStore{}
}

// Upsert replaces the stored collection with sections.
func (s *SectionStore) Upsert(_ context.Context, sections []domain.Section) error {
	dims, err := vector.CheckBatch(sections)
	if err != nil {
		return fmt.Errorf("upsert: %w", err)
	}

	batch := make([]domain.Section, len(sections))
	for i, sec := range sections {
		sec.Vector = append([]float32(nil), sec.Vector...)
		sec.Distance = nil
		batch[i] = sec
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sections = batch
	s.stats = domain.StoreStats{
		Exists:     true,
		Generation: uuid.New().String(),
		Sections:   len(batch),
		Dimensions: dims,
		CreatedAt:  time.Now().UTC(),
	}
	return nil
}

// GetByURL returns the first section with the given URL.
func (s *SectionStore) GetByURL(_ context.Context, url string) (*domain.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sec := range s.sections {
		if sec.URL == url {
			sec.Vector = nil
			return &sec, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Search ranks every stored section by cosine distance to vec.
func (s *SectionStore) Search(_ context.Context, vec []float32, limit int) ([]domain.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.stats.Exists {
		return []domain.Section{}, nil
	}
	if err := vector.CheckQuery(vec, s.stats.Dimensions); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return vector.Rank(vec, s.sections, limit), nil
}

// Stats describes the current generation.
func (s *SectionStore) Stats(_ context.Context) (domain.StoreStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats, nil
}

// Close is a no-op for the in-memory store.
func (s *SectionStore) Close() error {
	return nil
}
