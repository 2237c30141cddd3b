package services

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
	"github.com/custodia-labs/specmcp/internal/logger"
)

// Chain names used in logs, spans and ProviderExhaustedError.
const (
	ChainEmbedding  = "embedding"
	ChainGeneration = "generation"
)

const tracerName = "github.com/custodia-labs/specmcp/internal/core/services"

// fallback calls each backend in order until one succeeds.
// Each backend is attempted at most once per call.
func fallback[T any](
	ctx context.Context,
	chain string,
	names []string,
	call func(ctx context.Context, i int) (T, error),
) (T, string, error) {
	var zero T
	tracer := otel.Tracer(tracerName)
	exhausted := &domain.ProviderExhaustedError{Chain: chain}

	for i, name := range names {
		if err := ctx.Err(); err != nil {
			return zero, "", err
		}

		attemptCtx, span := tracer.Start(ctx, "provider.attempt", trace.WithAttributes(
			attribute.String("chain", chain),
			attribute.String("backend", name),
			attribute.Int("position", i),
		))
		result, err := call(attemptCtx, i)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()

		if err == nil {
			if i > 0 {
				logger.Info("%s chain: %s succeeded after %d failed attempts", chain, name, i)
			}
			return result, name, nil
		}

		logger.Warn("%s chain: backend %s failed: %v", chain, name, err)
		exhausted.Attempts = append(exhausted.Attempts, domain.AttemptError{Backend: name, Err: err})
	}

	logger.Error("%s chain: all %d backends failed", chain, len(names))
	return zero, "", exhausted
}

// EmbeddingChain converts text to vectors using an ordered list of backends.
// It holds no state between calls; one instance can be shared freely.
type EmbeddingChain struct {
	backends []driven.EmbeddingBackend
	names    []string
}

// NewEmbeddingChain creates a chain that tries backends in the given order.
func NewEmbeddingChain(backends ...driven.EmbeddingBackend) *EmbeddingChain {
	names := make([]string, len(backends))
	for i, b := range backends {
		names[i] = b.Name()
	}
	return &EmbeddingChain{backends: backends, names: names}
}

// Backends returns the backend names in priority order.
func (c *EmbeddingChain) Backends() []string {
	return append([]string(nil), c.names...)
}

// Embed returns the first vector any backend produces for text.
func (c *EmbeddingChain) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, _, err := c.EmbedWithBackend(ctx, text)
	return vec, err
}

// EmbedWithBackend is Embed that also reports which backend produced the vector.
// An empty vector counts as a failed attempt.
func (c *EmbeddingChain) EmbedWithBackend(ctx context.Context, text string) ([]float32, string, error) {
	return c.embed(ctx, text, 0)
}

// EmbedDimensions is Embed restricted to vectors of length dims. A backend
// answering with another length counts as a failed attempt, so a query is
// never embedded by a model other than the one that built the collection.
// dims <= 0 accepts any length.
func (c *EmbeddingChain) EmbedDimensions(ctx context.Context, text string, dims int) ([]float32, error) {
	vec, _, err := c.embed(ctx, text, dims)
	return vec, err
}

func (c *EmbeddingChain) embed(ctx context.Context, text string, dims int) ([]float32, string, error) {
	return fallback(ctx, ChainEmbedding, c.names, func(ctx context.Context, i int) ([]float32, error) {
		vec, err := c.backends[i].Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		if len(vec) == 0 {
			return nil, fmt.Errorf("embedding: %w", domain.ErrEmptyResult)
		}
		if dims > 0 && len(vec) != dims {
			return nil, fmt.Errorf("embedding: %w: got %d dimensions, collection has %d",
				domain.ErrInvalidInput, len(vec), dims)
		}
		return vec, nil
	})
}

// Ping checks every backend and reports each result.
func (c *EmbeddingChain) Ping(ctx context.Context) []domain.BackendStatus {
	out := make([]domain.BackendStatus, len(c.backends))
	for i, b := range c.backends {
		out[i] = ping(ctx, ChainEmbedding, b.Name(), b.Ping)
	}
	return out
}

// Close releases every backend.
func (c *EmbeddingChain) Close() error {
	var firstErr error
	for _, b := range c.backends {
		if err := b.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// GenerationChain converts prompts to answer text using an ordered list of backends.
// It holds no state between calls; one instance can be shared freely.
type GenerationChain struct {
	backends []driven.GenerationBackend
	names    []string
}

// NewGenerationChain creates a chain that tries backends in the given order.
func NewGenerationChain(backends ...driven.GenerationBackend) *GenerationChain {
	names := make([]string, len(backends))
	for i, b := range backends {
		names[i] = b.Name()
	}
	return &GenerationChain{backends: backends, names: names}
}

// Backends returns the backend names in priority order.
func (c *GenerationChain) Backends() []string {
	return append([]string(nil), c.names...)
}

// Generate returns the first non-blank answer any backend produces for prompt.
// The answer is returned exactly as the backend produced it.
func (c *GenerationChain) Generate(ctx context.Context, prompt string) (string, error) {
	answer, _, err := fallback(ctx, ChainGeneration, c.names, func(ctx context.Context, i int) (string, error) {
		out, err := c.backends[i].Generate(ctx, prompt)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(out) == "" {
			return "", fmt.Errorf("generation: %w", domain.ErrEmptyResult)
		}
		return out, nil
	})
	return answer, err
}

// Ping checks every backend and reports each result.
func (c *GenerationChain) Ping(ctx context.Context) []domain.BackendStatus {
	out := make([]domain.BackendStatus, len(c.backends))
	for i, b := range c.backends {
		out[i] = ping(ctx, ChainGeneration, b.Name(), b.Ping)
	}
	return out
}

// Close releases every backend.
func (c *GenerationChain) Close() error {
	var firstErr error
	for _, b := range c.backends {
		if err := b.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
