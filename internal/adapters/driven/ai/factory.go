// Package ai provides factory functions for building the provider chains
// from settings.
package ai

import (
	"context"
	"fmt"

	"github.com/custodia-labs/specmcp/internal/adapters/driven/embedding/ollama"
	"github.com/custodia-labs/specmcp/internal/adapters/driven/embedding/openai"
	"github.com/custodia-labs/specmcp/internal/adapters/driven/gemini"
	anthropicllm "github.com/custodia-labs/specmcp/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/specmcp/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/specmcp/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
	"github.com/custodia-labs/specmcp/internal/core/services"
	"github.com/custodia-labs/specmcp/internal/logger"
)

// Chains holds both provider chains built from settings.
type Chains struct {
	Embedding  *services.EmbeddingChain
	Generation *services.GenerationChain
}

// Close releases all backends of both chains.
func (c *Chains) Close() {
	if c.Embedding != nil {
		_ = c.Embedding.Close()
	}
	if c.Generation != nil {
		_ = c.Generation.Close()
	}
}

// NewChains builds the embedding and generation chains in configured order.
// Missing API keys are logged, not returned: those backends fail at call time
// and the chain falls through to the next one.
func NewChains(ctx context.Context, settings domain.Settings) (*Chains, error) {
	for _, p := range settings.MissingAPIKeys() {
		logger.Warn("%s API key not set; %s backends will be skipped", p.Description(), p)
	}

	embedding, err := NewEmbeddingChain(ctx, settings.Embedding, settings.Credentials)
	if err != nil {
		return nil, err
	}
	generation, err := NewGenerationChain(ctx, settings.Generation, settings.Credentials)
	if err != nil {
		_ = embedding.Close()
		return nil, err
	}
	return &Chains{Embedding: embedding, Generation: generation}, nil
}

// NewEmbeddingChain creates one backend per entry, preserving order.
func NewEmbeddingChain(
	ctx context.Context,
	backends []domain.Backend,
	creds domain.CredentialSettings,
) (*services.EmbeddingChain, error) {
	out := make([]driven.EmbeddingBackend, 0, len(backends))
	for _, b := range backends {
		backend, err := CreateEmbeddingBackend(ctx, b, creds)
		if err != nil {
			return nil, err
		}
		out = append(out, backend)
	}
	return services.NewEmbeddingChain(out...), nil
}

// NewGenerationChain creates one backend per entry, preserving order.
func NewGenerationChain(
	ctx context.Context,
	backends []domain.Backend,
	creds domain.CredentialSettings,
) (*services.GenerationChain, error) {
	out := make([]driven.GenerationBackend, 0, len(backends))
	for _, b := range backends {
		backend, err := CreateGenerationBackend(ctx, b, creds)
		if err != nil {
			return nil, err
		}
		out = append(out, backend)
	}
	return services.NewGenerationChain(out...), nil
}

// CreateEmbeddingBackend creates the embedding adapter for one backend entry.
func CreateEmbeddingBackend(
	ctx context.Context,
	b domain.Backend,
	creds domain.CredentialSettings,
) (driven.EmbeddingBackend, error) {
	switch b.Provider {
	case domain.AIProviderGemini:
		return gemini.NewEmbedder(ctx, gemini.Config{
			APIKey:  creds.GeminiAPIKey,
			Model:   b.Model,
			Timeout: creds.Timeout,
		}), nil

	case domain.AIProviderOpenAI:
		return openai.New(openai.Config{
			APIKey:  creds.OpenAIAPIKey,
			BaseURL: creds.OpenAIBaseURL,
			Model:   b.Model,
			Timeout: creds.Timeout,
		}), nil

	case domain.AIProviderOllama:
		return ollama.New(ollama.Config{
			BaseURL: creds.OllamaBaseURL,
			Model:   b.Model,
			Timeout: creds.Timeout,
		}), nil

	case domain.AIProviderAnthropic:
		return nil, fmt.Errorf("%w: anthropic does not support embeddings, use gemini, openai or ollama",
			domain.ErrUnsupportedType)

	default:
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, b.Provider)
	}
}

// CreateGenerationBackend creates the generation adapter for one backend entry.
func CreateGenerationBackend(
	ctx context.Context,
	b domain.Backend,
	creds domain.CredentialSettings,
) (driven.GenerationBackend, error) {
	switch b.Provider {
	case domain.AIProviderGemini:
		return gemini.NewGenerator(ctx, gemini.Config{
			APIKey:  creds.GeminiAPIKey,
			Model:   b.Model,
			Timeout: creds.Timeout,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.New(openaillm.Config{
			APIKey:  creds.OpenAIAPIKey,
			BaseURL: creds.OpenAIBaseURL,
			Model:   b.Model,
			Timeout: creds.Timeout,
		}), nil

	case domain.AIProviderOllama:
		return ollamallm.New(ollamallm.Config{
			BaseURL: creds.OllamaBaseURL,
			Model:   b.Model,
			Timeout: creds.Timeout,
		}), nil

	case domain.AIProviderAnthropic:
		return anthropicllm.New(anthropicllm.Config{
			APIKey:  creds.AnthropicAPIKey,
			Model:   b.Model,
			Timeout: creds.Timeout,
		}), nil

	default:
		return nil, fmt.Errorf("%w: generation provider %q", domain.ErrUnsupportedType, b.Provider)
	}
}
