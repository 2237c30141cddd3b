package htmldoc

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
	"github.com/custodia-labs/specmcp/internal/logger"
)

// maxDocumentSize caps how much of a response body is parsed.
const maxDocumentSize = 64 << 20

// Ensure Source implements the interface.
var _ driven.DocumentSource = (*Source)(nil)

// Source downloads and parses HTML documents.
type Source struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// NewSource creates a document source from fetch settings.
// A non-positive RequestsPerSecond disables throttling.
func NewSource(cfg domain.FetchSettings) *Source {
	return newSource(cfg, http.DefaultTransport)
}

func newSource(cfg domain.FetchSettings, base http.RoundTripper) *Source {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = domain.DefaultUserAgent
	}

	return &Source{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(base),
		},
		limiter:   limiter,
		userAgent: userAgent,
	}
}

// Fetch downloads url and parses it. Non-2xx responses are errors.
func (s *Source) Fetch(ctx context.Context, url string) (driven.DocumentNode, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	logger.Debug("Fetching %s", url)
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	root, err := Parse(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	return root, nil
}
