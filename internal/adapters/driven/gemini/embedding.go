package gemini

import (
	"context"
	"fmt"

	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
)

// Ensure Embedder implements the interface.
var _ driven.EmbeddingBackend = (*Embedder)(nil)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type embedContentRequest struct {
	Content content `json:"content"`
}

type embedContentResponse struct {
	Embedding *struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

// Embedder embeds text with one Gemini embedding model.
type Embedder struct {
	*client
}

// NewEmbedder creates a Gemini embedding backend. It never fails; a missing
// key or client error surfaces on the first call.
func NewEmbedder(ctx context.Context, cfg Config) *Embedder {
	return &Embedder{client: newClient(ctx, cfg)}
}

// Name returns "gemini/<model>".
func (e *Embedder) Name() string {
	return e.name()
}

// Embed returns the embedding vector for text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	req := embedContentRequest{Content: content{Parts: []part{{Text: text}}}}
	var resp embedContentResponse
	if err := e.call(ctx, "embed content", ":embedContent", req, &resp); err != nil {
		return nil, err
	}
	if resp.Embedding == nil || len(resp.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini %s: %w: no embedding values", e.model, domain.ErrEmptyResult)
	}

	vec := make([]float32, len(resp.Embedding.Values))
	for i, v := range resp.Embedding.Values {
		vec[i] = float32(v)
	}
	return vec, nil
}

// Ping checks the model is reachable with the configured key.
func (e *Embedder) Ping(ctx context.Context) error {
	return e.ping(ctx)
}

// Close releases resources.
func (e *Embedder) Close() error {
	return nil
}
