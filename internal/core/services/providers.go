package services

import (
	"context"
	"time"

	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driving"
)

// Ensure ProviderStatusService implements the interface.
var _ driving.ProviderService = (*ProviderStatusService)(nil)

// ProviderStatusService reports reachability of every configured backend.
type ProviderStatusService struct {
	embedding  *EmbeddingChain
	generation *GenerationChain
}

// NewProviderStatusService creates a status service over both chains.
func NewProviderStatusService(embedding *EmbeddingChain, generation *GenerationChain) *ProviderStatusService {
	return &ProviderStatusService{embedding: embedding, generation: generation}
}

// Status pings the embedding chain then the generation chain, in priority order.
func (s *ProviderStatusService) Status(ctx context.Context) []domain.BackendStatus {
	var out []domain.BackendStatus
	if s.embedding != nil {
		out = append(out, s.embedding.Ping(ctx)...)
	}
	if s.generation != nil {
		out = append(out, s.generation.Ping(ctx)...)
	}
	return out
}

func ping(ctx context.Context, chain, name string, fn func(context.Context) error) domain.BackendStatus {
	start := time.Now()
	err := fn(ctx)
	return domain.BackendStatus{
		Chain:   chain,
		Backend: name,
		Latency: time.Since(start),
		Err:     err,
	}
}
