// Package openai provides an embedding backend using the OpenAI API.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/custodia-labs/specmcp/internal/adapters/driven/httpjson"
	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
)

// Ensure Embedder implements the interface.
var _ driven.EmbeddingBackend = (*Embedder)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "text-embedding-3-small"
	DefaultTimeout = 60 * time.Second
)

// Config holds configuration for the OpenAI embedding backend.
type Config struct {
	// APIKey is the OpenAI API key. Without it every call fails
	// with domain.ErrProviderUnavailable.
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the embedding model to use (default: text-embedding-3-small).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Dimensions asks text-embedding-3-* models for shorter vectors.
	Dimensions int
}

// Embedder generates embeddings with one OpenAI model.
type Embedder struct {
	client     *httpjson.Client
	model      string
	dimensions int
	hasKey     bool
}

type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// New creates an OpenAI embedding backend.
func New(cfg Config) *Embedder {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+cfg.APIKey)

	return &Embedder{
		client:     httpjson.New("openai", cfg.BaseURL, cfg.Timeout, header),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		hasKey:     cfg.APIKey != "",
	}
}

// Name returns "openai/<model>".
func (e *Embedder) Name() string {
	return string(domain.AIProviderOpenAI) + "/" + e.model
}

// Embed generates a vector embedding for the given text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if !e.hasKey {
		return nil, fmt.Errorf("openai: %w: OPENAI_API_KEY not set", domain.ErrProviderUnavailable)
	}

	var resp embeddingResponse
	req := embeddingRequest{Model: e.model, Input: []string{text}, Dimensions: e.dimensions}
	if err := e.client.Post(ctx, "/embeddings", req, &resp); err != nil {
		return nil, err
	}

	for _, d := range resp.Data {
		if d.Index == 0 {
			return d.Embedding, nil
		}
	}
	return nil, fmt.Errorf("openai: %w: no embedding returned", domain.ErrEmptyResult)
}

// Ping validates the API key by listing models, without running inference.
func (e *Embedder) Ping(ctx context.Context) error {
	if !e.hasKey {
		return fmt.Errorf("openai: %w: OPENAI_API_KEY not set", domain.ErrProviderUnavailable)
	}
	return e.client.Get(ctx, "/models", nil)
}

// Close releases resources.
func (e *Embedder) Close() error {
	return nil
}
