// Package ollama provides an embedding backend using a local Ollama server.
package ollama

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/specmcp/internal/adapters/driven/httpjson"
	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
)

// Ensure Embedder implements the interface.
var _ driven.EmbeddingBackend = (*Embedder)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "nomic-embed-text"
	DefaultTimeout = 30 * time.Second
)

// Config holds configuration for the Ollama embedding backend.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the embedding model to use (default: nomic-embed-text).
	Model string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Embedder generates embeddings with one Ollama model.
type Embedder struct {
	client *httpjson.Client
	model  string
}

type embedRequest struct {
	Model string `json:"model"`
	Input string `json:"input"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// New creates an Ollama embedding backend.
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

	return &Embedder{
		client: httpjson.New("ollama", cfg.BaseURL, cfg.Timeout, nil),
		model:  cfg.Model,
	}
}

// Name returns "ollama/<model>".
func (e *Embedder) Name() string {
	return string(domain.AIProviderOllama) + "/" + e.model
}

// Embed generates a vector embedding for the given text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	var resp embedResponse
	if err := e.client.Post(ctx, "/api/embed", embedRequest{Model: e.model, Input: text}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) == 0 {
		return nil, fmt.Errorf("ollama: %w: no embedding returned", domain.ErrEmptyResult)
	}
	return resp.Embeddings[0], nil
}

// Ping checks the server is reachable via /api/tags, without running inference.
func (e *Embedder) Ping(ctx context.Context) error {
	return e.client.Get(ctx, "/api/tags", nil)
}

// Close releases resources.
func (e *Embedder) Close() error {
	return nil
}
