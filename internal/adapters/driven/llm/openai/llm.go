// Package openai provides a generation backend using the OpenAI chat completions API.
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

// Ensure Generator implements the interface.
var _ driven.GenerationBackend = (*Generator)(nil)

// Default configuration values.
const (
	DefaultBaseURL   = "https://api.openai.com/v1"
	DefaultModel     = "gpt-4o-mini"
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 1024
)

// Config holds configuration for the OpenAI generation backend.
type Config struct {
	// APIKey is the OpenAI API key. Without it every call fails
	// with domain.ErrProviderUnavailable.
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	BaseURL string

	// Model is the chat model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// MaxTokens bounds the answer length (default: 1024).
	MaxTokens int
}

// Generator answers prompts with one OpenAI chat model.
type Generator struct {
	client    *httpjson.Client
	model     string
	maxTokens int
	hasKey    bool
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
}

// New creates an OpenAI generation backend.
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
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+cfg.APIKey)

	return &Generator{
		client:    httpjson.New("openai", cfg.BaseURL, cfg.Timeout, header),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		hasKey:    cfg.APIKey != "",
	}
}

// Name returns "openai/<model>".
func (g *Generator) Name() string {
	return string(domain.AIProviderOpenAI) + "/" + g.model
}

// Generate sends prompt as a single user message and returns the reply.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if !g.hasKey {
		return "", fmt.Errorf("openai: %w: OPENAI_API_KEY not set", domain.ErrProviderUnavailable)
	}

	req := chatRequest{
		Model:     g.model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: g.maxTokens,
	}
	var resp chatResponse
	if err := g.client.Post(ctx, "/chat/completions", req, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai: %w: no choices returned", domain.ErrEmptyResult)
	}
	return resp.Choices[0].Message.Content, nil
}

// Ping validates the API key by listing models.
func (g *Generator) Ping(ctx context.Context) error {
	if !g.hasKey {
		return fmt.Errorf("openai: %w: OPENAI_API_KEY not set", domain.ErrProviderUnavailable)
	}
	return g.client.Get(ctx, "/models", nil)
}

// Close releases resources.
func (g *Generator) Close() error {
	return nil
}
