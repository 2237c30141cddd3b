package file

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/custodia-labs/specmcp/internal/core/domain"
	"github.com/custodia-labs/specmcp/internal/core/ports/driven"
)

// Environment variables that override the config file.
const (
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvDataDir         = "SPECMCP_DATA_DIR"
)

// Config keys.
const (
	KeyStoreBackend       = "store.backend"
	KeyStoreDataDir       = "store.data_dir"
	KeyStoreQdrantAddr    = "store.qdrant_addr"
	KeyStoreCollection    = "store.collection"
	KeyStoreKeywordIndex  = "store.keyword_index"
	KeyEmbeddingBackends  = "embedding.backends"
	KeyGenerationBackends = "generation.backends"
	KeyGeminiAPIKey       = "credentials.gemini_api_key"
	KeyOpenAIAPIKey       = "credentials.openai_api_key"
	KeyOpenAIBaseURL      = "credentials.openai_base_url"
	KeyAnthropicAPIKey    = "credentials.anthropic_api_key"
	KeyOllamaBaseURL      = "credentials.ollama_base_url"
	KeyProviderTimeout    = "credentials.timeout"
	KeySources            = "sources"
	KeyBoundaryTags       = "extractor.boundary_tags"
	KeyHeaderWrapperClass = "extractor.header_wrapper_class"
	KeyFetchRate          = "fetch.requests_per_second"
	KeyFetchTimeout       = "fetch.timeout"
	KeyFetchUserAgent     = "fetch.user_agent"
)

// DataDirName is the default data directory, next to the config file.
const DataDirName = "data"

// LoadSettings builds settings from defaults, then the config store, then
// the environment. getenv is usually os.Getenv. Without an explicit data
// directory, data lives beside the config file.
func LoadSettings(store driven.ConfigStore, getenv func(string) string) (domain.Settings, error) {
	s := domain.DefaultSettings()

	if v := store.GetString(KeyStoreBackend); v != "" {
		s.Store.Backend = domain.StoreBackend(v)
	}
	if v := store.GetString(KeyStoreDataDir); v != "" {
		s.Store.DataDir = v
	}
	if v := store.GetString(KeyStoreQdrantAddr); v != "" {
		s.Store.QdrantAddr = v
	}
	if v := store.GetString(KeyStoreCollection); v != "" {
		s.Store.Collection = v
	}
	if _, ok := store.Get(KeyStoreKeywordIndex); ok {
		s.Store.KeywordIndex = store.GetBool(KeyStoreKeywordIndex)
	}

	var err error
	if s.Embedding, err = backends(store, KeyEmbeddingBackends, s.Embedding); err != nil {
		return s, err
	}
	if s.Generation, err = backends(store, KeyGenerationBackends, s.Generation); err != nil {
		return s, err
	}

	s.Credentials.GeminiAPIKey = store.GetString(KeyGeminiAPIKey)
	s.Credentials.OpenAIAPIKey = store.GetString(KeyOpenAIAPIKey)
	s.Credentials.OpenAIBaseURL = store.GetString(KeyOpenAIBaseURL)
	s.Credentials.AnthropicAPIKey = store.GetString(KeyAnthropicAPIKey)
	s.Credentials.OllamaBaseURL = store.GetString(KeyOllamaBaseURL)
	if s.Credentials.Timeout, err = duration(store, KeyProviderTimeout, 0); err != nil {
		return s, err
	}

	if tables := store.GetTables(KeySources); tables != nil {
		s.Sources = make([]domain.SpecSource, 0, len(tables))
		for _, t := range tables {
			url, _ := t["url"].(string)
			spec, _ := t["spec"].(string)
			root, _ := t["root"].(string)
			s.Sources = append(s.Sources, domain.SpecSource{URL: url, Spec: domain.SpecFamily(spec), RootID: root})
		}
	}

	if _, ok := store.Get(KeyBoundaryTags); ok {
		s.Extractor.BoundaryTags = store.GetStringSlice(KeyBoundaryTags)
	}
	if _, ok := store.Get(KeyHeaderWrapperClass); ok {
		s.Extractor.HeaderWrapperClass = store.GetString(KeyHeaderWrapperClass)
	}

	if _, ok := store.Get(KeyFetchRate); ok {
		s.Fetch.RequestsPerSecond = store.GetFloat(KeyFetchRate)
	}
	if s.Fetch.Timeout, err = duration(store, KeyFetchTimeout, s.Fetch.Timeout); err != nil {
		return s, err
	}
	if v := store.GetString(KeyFetchUserAgent); v != "" {
		s.Fetch.UserAgent = v
	}

	applyEnv(&s, getenv)

	if s.Store.DataDir == "" {
		s.Store.DataDir = filepath.Join(filepath.Dir(store.Path()), DataDirName)
	}

	return s, s.Validate()
}

// applyEnv overrides keys and the data directory from the environment.
func applyEnv(s *domain.Settings, getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(EnvGeminiAPIKey); v != "" {
		s.Credentials.GeminiAPIKey = v
	}
	if v := getenv(EnvOpenAIAPIKey); v != "" {
		s.Credentials.OpenAIAPIKey = v
	}
	if v := getenv(EnvAnthropicAPIKey); v != "" {
		s.Credentials.AnthropicAPIKey = v
	}
	if v := getenv(EnvDataDir); v != "" {
		s.Store.DataDir = v
	}
}

func backends(store driven.ConfigStore, key string, def []domain.Backend) ([]domain.Backend, error) {
	if _, ok := store.Get(key); !ok {
		return def, nil
	}
	raw := store.GetStringSlice(key)
	out := make([]domain.Backend, 0, len(raw))
	for _, r := range raw {
		b, err := domain.ParseBackend(r)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// duration accepts a Go duration string ("30s") or a whole number of seconds.
func duration(store driven.ConfigStore, key string, def time.Duration) (time.Duration, error) {
	val, ok := store.Get(key)
	if !ok {
		return def, nil
	}
	switch v := val.(type) {
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
		}
		return d, nil
	case int64:
		return time.Duration(v) * time.Second, nil
	default:
		return 0, fmt.Errorf("%w: %s must be a duration", domain.ErrInvalidInput, key)
	}
}
