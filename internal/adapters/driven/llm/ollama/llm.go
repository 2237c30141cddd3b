// Package ollama provides a generation backend using a local Ollama server.
package ollama

import (
	"context"
	"time"

	"github.com/custodia-labs/specmcp/internal/adapters/driven/httpjson"
	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.GenerationBackend = (*Generator)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:11434"
	DefaultModel   = "llama3.2"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the Ollama generation backend.
type Config struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434).
	BaseURL string

	// Model is the model to use (default: llama3.2).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// Generator answers prompts with one Ollama model.
type Generator struct {
	client *httpjson.Client
	model  string
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// New creates an Ollama generation backend.
func New(cfg Config) *Generator {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Generator{
		client: httpjson.New("ollama", cfg.BaseURL, cfg.Timeout, nil),
		model:  cfg.Model,
	}
}

// Name returns "ollama/<model>".
func (g *Generator) Name() string {
	return string(domain.AIProviderOllama) + "/" + g.model
}

// Generate runs a single non-streaming completion.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	var resp generateResponse
	req := generateRequest{Model: g.model, Prompt: prompt, Stream: false}
	if err := g.client.Post(ctx, "/api/generate", req, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// Ping checks the server is reachable via /api/tags.
func (g *Generator) Ping(ctx context.Context) error {
	return g.client.Get(ctx, "/api/tags", nil)
}

// Close releases resources.
func (g *Generator) Close() error {
	return nil
}
