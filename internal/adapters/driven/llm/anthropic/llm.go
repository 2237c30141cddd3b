// Package anthropic provides a generation backend using the Anthropic Messages API.
package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/custodia-labs/specmcp/internal/adapters/driven/httpjson"
	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.GenerationBackend = (*Generator)(nil)

// Default configuration values.
const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultModel     = "claude-3-5-haiku-latest"
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 1024

	anthropicVersion = "2023-06-01"
)

// Config holds configuration for the Anthropic generation backend.
type Config struct {
	// APIKey is the Anthropic API key. Without it every call fails
	// with domain.ErrProviderUnavailable.
	APIKey string

	// BaseURL is the API base URL (default: https://api.anthropic.com).
	BaseURL string

	// Model is the model to use (default: claude-3-5-haiku-latest).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// MaxTokens bounds the answer length (default: 1024). The API requires it.
	MaxTokens int
}

// Generator answers prompts with one Anthropic model.
type Generator struct {
	client    *httpjson.Client
	model     string
	maxTokens int
	hasKey    bool
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	Messages  []message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// New creates an Anthropic generation backend.
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
	header.Set("x-api-key", cfg.APIKey)
	header.Set("anthropic-version", anthropicVersion)

	return &Generator{
		client:    httpjson.New("anthropic", cfg.BaseURL, cfg.Timeout, header),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		hasKey:    cfg.APIKey != "",
	}
}

// Name returns "anthropic/<model>".
func (g *Generator) Name() string {
	return string(domain.AIProviderAnthropic) + "/" + g.model
}

// Generate sends prompt as a single user message and concatenates the
// text blocks of the reply.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if !g.hasKey {
		return "", fmt.Errorf("anthropic: %w: ANTHROPIC_API_KEY not set", domain.ErrProviderUnavailable)
	}

	req := messagesRequest{
		Model:     g.model,
		Messages:  []message{{Role: "user", Content: prompt}},
		MaxTokens: g.maxTokens,
	}
	var resp messagesResponse
	if err := g.client.Post(ctx, "/v1/messages", req, &resp); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	return b.String(), nil
}

// Ping validates the API key by listing models.
func (g *Generator) Ping(ctx context.Context) error {
	if !g.hasKey {
		return fmt.Errorf("anthropic: %w: ANTHROPIC_API_KEY not set", domain.ErrProviderUnavailable)
	}
	return g.client.Get(ctx, "/v1/models", nil)
}

// Close releases resources.
func (g *Generator) Close() error {
	return nil
}
