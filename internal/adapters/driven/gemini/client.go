package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	htransport "google.golang.org/api/transport/http"

	"github.com/custodia-labs/specmcp/internal/core/domain"
)

// Default configuration values.
const (
	DefaultEndpoint = "https://generativelanguage.googleapis.com"
	DefaultTimeout  = 60 * time.Second
	apiVersion      = "v1beta"
)

// Config holds configuration shared by the Gemini backends.
type Config struct {
	// APIKey is the Generative Language API key (GEMINI_API_KEY).
	APIKey string

	// Model is the model name without the "models/" prefix.
	Model string

	// Endpoint overrides the API root URL. Used by tests.
	Endpoint string

	// Timeout bounds each call (default: 60s).
	Timeout time.Duration
}

// client is the per-model state shared by Embedder and Generator.
type client struct {
	http    *http.Client
	baseURL string
	model   string
	timeout time.Duration
	initErr error
}

func newClient(ctx context.Context, cfg Config) *client {
	c := &client{model: cfg.Model, timeout: cfg.Timeout}
	if c.timeout == 0 {
		c.timeout = DefaultTimeout
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c.baseURL = strings.TrimSuffix(endpoint, "/") + "/" + apiVersion + "/"

	if cfg.APIKey == "" {
		c.initErr = fmt.Errorf("gemini: %w: GEMINI_API_KEY not set", domain.ErrProviderUnavailable)
		return c
	}

	hc, _, err := htransport.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		c.initErr = fmt.Errorf("gemini: %w: %v", domain.ErrProviderUnavailable, err)
		return c
	}
	c.http = hc
	return c
}

func (c *client) name() string {
	return string(domain.AIProviderGemini) + "/" + c.model
}

func (c *client) resource() string {
	return "models/" + c.model
}

func (c *client) ready() error {
	if c.http == nil {
		if c.initErr != nil {
			return c.initErr
		}
		return fmt.Errorf("gemini: %w", domain.ErrProviderUnavailable)
	}
	return nil
}

// call sends in (nil for GET) to the model resource with the given method
// suffix and decodes the response into out.
func (c *client) call(ctx context.Context, op, suffix string, in, out any) error {
	if err := c.ready(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	method := http.MethodGet
	var body io.Reader = http.NoBody
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return c.wrap(op, fmt.Errorf("marshal request: %w", err))
		}
		method, body = http.MethodPost, bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+c.resource()+suffix, body)
	if err != nil {
		return c.wrap(op, fmt.Errorf("create request: %w", err))
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.wrap(op, err)
	}
	defer googleapi.CloseBody(resp)

	if err := googleapi.CheckResponse(resp); err != nil {
		return c.wrap(op, err)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.wrap(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// ping fetches the model metadata, which fails for unknown models and bad keys.
func (c *client) ping(ctx context.Context) error {
	return c.call(ctx, "get model", "", nil, nil)
}

// wrap annotates API errors with the model and HTTP status.
func (c *client) wrap(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("gemini %s: %s: status %d: %w", c.model, op, apiErr.Code, err)
	}
	return fmt.Errorf("gemini %s: %s: %w", c.model, op, err)
}
