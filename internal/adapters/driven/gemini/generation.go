package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
)

// Ensure Generator implements the interface.
var _ driven.GenerationBackend = (*Generator)(nil)

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content *content `json:"content"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

// Generator answers prompts with one Gemini model.
type Generator struct {
	*client
}

// NewGenerator creates a Gemini generation backend.
func NewGenerator(ctx context.Context, cfg Config) *Generator {
	return &Generator{client: newClient(ctx, cfg)}
}

// Name returns "gemini/<model>".
func (g *Generator) Name() string {
	return g.name()
}

// Generate sends prompt as a single user turn and returns the text of the
// first candidate.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	req := generateContentRequest{Contents: []content{{Role: "user", Parts: []part{{Text: prompt}}}}}
	var resp generateContentResponse
	if err := g.call(ctx, "generate content", ":generateContent", req, &resp); err != nil {
		return "", err
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, p := range cand.Content.Parts {
			b.WriteString(p.Text)
		}
		if b.Len() > 0 {
			return b.String(), nil
		}
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("gemini %s: %w: prompt blocked: %s",
			g.model, domain.ErrEmptyResult, resp.PromptFeedback.BlockReason)
	}
	return "", fmt.Errorf("gemini %s: %w: no candidates", g.model, domain.ErrEmptyResult)
}

// Ping checks the model is reachable with the configured key.
func (g *Generator) Ping(ctx context.Context) error {
	return g.ping(ctx)
}

// Close releases resources.
func (g *Generator) Close() error {
	return nil
}
