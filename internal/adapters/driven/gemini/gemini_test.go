package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/custodia-labs/specmcp/internal/core/domain"
)

func newTestServer(t *testing.T, routes map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":{"code":404,"message":"model not found","status":"NOT_FOUND"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		h(w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

func apiKey(r *http.Request) string {
	if k := r.URL.Query().Get("key"); k != "" {
		return k
	}
	return r.Header.Get("X-Goog-Api-Key")
}

func TestEmbedder_Embed(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/v1beta/models/text-embedding-004:embedContent": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "k", apiKey(r))
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			content := body["content"].(map[string]any)
			parts := content["parts"].([]any)
			assert.Equal(t, "New Session\nCreates a session.", parts[0].(map[string]any)["text"])

			_, _ = w.Write([]byte(`{"embedding":{"values":[0.25,0.5,1]}}`))
		},
	})

	e := NewEmbedder(context.Background(), Config{APIKey: "k", Model: "text-embedding-004", Endpoint: server.URL})
	vec, err := e.Embed(context.Background(), "New Session\nCreates a session.")

	require.NoError(t, err)
	assert.Equal(t, []float32{0.25, 0.5, 1}, vec)
	assert.Equal(t, "gemini/text-embedding-004", e.Name())
}

func TestEmbedder_EmptyValues(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/v1beta/models/m:embedContent": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"embedding":{"values":[]}}`))
		},
	})

	_, err := NewEmbedder(context.Background(), Config{APIKey: "k", Model: "m", Endpoint: server.URL}).
		Embed(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrEmptyResult)
}

func TestEmbedder_UnknownModel(t *testing.T) {
	server := newTestServer(t, nil)

	_, err := NewEmbedder(context.Background(), Config{APIKey: "k", Model: "gone", Endpoint: server.URL}).
		Embed(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")

	var apiErr *googleapi.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Code)
	assert.Equal(t, "model not found", apiErr.Message)
}

func TestGenerator_Generate(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/v1beta/models/gemini-2.0-flash:generateContent": func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			contents := body["contents"].([]any)
			require.Len(t, contents, 1)
			assert.Equal(t, "user", contents[0].(map[string]any)["role"])

			_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"Use "},{"text":"session.new."}]}}]}`))
		},
	})

	g := NewGenerator(context.Background(), Config{APIKey: "k", Model: "gemini-2.0-flash", Endpoint: server.URL})
	answer, err := g.Generate(context.Background(), "How do I start a session?")

	require.NoError(t, err)
	assert.Equal(t, "Use session.new.", answer)
}

func TestGenerator_Blocked(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/v1beta/models/m:generateContent": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"promptFeedback":{"blockReason":"SAFETY"}}`))
		},
	})

	_, err := NewGenerator(context.Background(), Config{APIKey: "k", Model: "m", Endpoint: server.URL}).
		Generate(context.Background(), "x")
	require.ErrorIs(t, err, domain.ErrEmptyResult)
	assert.Contains(t, err.Error(), "SAFETY")
}

func TestPing(t *testing.T) {
	server := newTestServer(t, map[string]http.HandlerFunc{
		"/v1beta/models/m": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			_, _ = w.Write([]byte(`{"name":"models/m"}`))
		},
	})

	ok := NewGenerator(context.Background(), Config{APIKey: "k", Model: "m", Endpoint: server.URL})
	assert.NoError(t, ok.Ping(context.Background()))

	missing := NewEmbedder(context.Background(), Config{APIKey: "k", Model: "other", Endpoint: server.URL})
	assert.Error(t, missing.Ping(context.Background()))
}

func TestMissingAPIKey(t *testing.T) {
	e := NewEmbedder(context.Background(), Config{Model: "m"})
	g := NewGenerator(context.Background(), Config{Model: "m"})

	_, err := e.Embed(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	_, err = g.Generate(context.Background(), "x")
	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	assert.ErrorIs(t, g.Ping(context.Background()), domain.ErrProviderUnavailable)
	assert.Nil(t, e.http)
}
