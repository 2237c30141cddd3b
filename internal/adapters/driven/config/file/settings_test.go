package file

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/specmcp/internal/core/domain"
)

func noEnv(string) string { return "" }

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func TestLoadSettings_Defaults(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	s, err := LoadSettings(store, env(map[string]string{EnvDataDir: "/tmp/specmcp"}))
	require.NoError(t, err)

	def := domain.DefaultSettings()
	assert.Equal(t, domain.StoreBackendSQLite, s.Store.Backend)
	assert.Equal(t, "/tmp/specmcp", s.Store.DataDir)
	assert.Equal(t, def.Embedding, s.Embedding)
	assert.Equal(t, def.Generation, s.Generation)
	assert.Equal(t, def.Sources, s.Sources)
	assert.Equal(t, def.Extractor, s.Extractor)
	assert.Equal(t, def.Fetch, s.Fetch)
	assert.True(t, s.Store.KeywordIndex)
}

func TestLoadSettings_DefaultDataDir(t *testing.T) {
	configDir := t.TempDir()
	store, err := NewConfigStore(configDir)
	require.NoError(t, err)

	s, err := LoadSettings(store, noEnv)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(configDir, "data"), s.Store.DataDir)

	s, err = LoadSettings(store, env(map[string]string{EnvDataDir: "/srv/specmcp"}))
	require.NoError(t, err)
	assert.Equal(t, "/srv/specmcp", s.Store.DataDir)
}

func TestLoadSettings_FromFile(t *testing.T) {
	store := writeConfig(t, `
[store]
backend = "qdrant"
qdrant_addr = "qdrant:6334"
collection = "webdriver"
keyword_index = false
data_dir = "/var/lib/specmcp"

[embedding]
backends = ["ollama/nomic-embed-text", "openai/text-embedding-3-small"]

[generation]
backends = ["anthropic/claude-3-5-haiku-latest"]

[credentials]
gemini_api_key = "file-gemini"
openai_api_key = "file-openai"
openai_base_url = "https://proxy.example.com/v1"
ollama_base_url = "http://gpu:11434"
timeout = "45s"

[[sources]]
url = "https://www.w3.org/TR/webdriver/"
spec = "classic"

[[sources]]
url = "https://www.w3.org/TR/permissions/"
spec = "permissions"
root = "automation"

[extractor]
boundary_tags = ["section", "article"]
header_wrapper_class = ""

[fetch]
requests_per_second = 0
timeout = 10
user_agent = "test-agent"
`)

	s, err := LoadSettings(store, env(map[string]string{EnvGeminiAPIKey: "env-gemini"}))
	require.NoError(t, err)

	assert.Equal(t, domain.StoreSettings{
		Backend:      domain.StoreBackendQdrant,
		DataDir:      "/var/lib/specmcp",
		QdrantAddr:   "qdrant:6334",
		Collection:   "webdriver",
		KeywordIndex: false,
	}, s.Store)
	assert.Equal(t, []domain.Backend{
		{Provider: domain.AIProviderOllama, Model: "nomic-embed-text"},
		{Provider: domain.AIProviderOpenAI, Model: "text-embedding-3-small"},
	}, s.Embedding)
	assert.Equal(t, []domain.Backend{
		{Provider: domain.AIProviderAnthropic, Model: "claude-3-5-haiku-latest"},
	}, s.Generation)

	assert.Equal(t, "env-gemini", s.Credentials.GeminiAPIKey)
	assert.Equal(t, "file-openai", s.Credentials.OpenAIAPIKey)
	assert.Equal(t, "https://proxy.example.com/v1", s.Credentials.OpenAIBaseURL)
	assert.Equal(t, "http://gpu:11434", s.Credentials.OllamaBaseURL)
	assert.Equal(t, 45*time.Second, s.Credentials.Timeout)

	assert.Equal(t, []domain.SpecSource{
		{URL: "https://www.w3.org/TR/webdriver/", Spec: domain.SpecClassic},
		{URL: "https://www.w3.org/TR/permissions/", Spec: domain.SpecPermissions, RootID: "automation"},
	}, s.Sources)

	assert.Equal(t, []string{"section", "article"}, s.Extractor.BoundaryTags)
	assert.Empty(t, s.Extractor.HeaderWrapperClass)

	assert.Zero(t, s.Fetch.RequestsPerSecond)
	assert.Equal(t, 10*time.Second, s.Fetch.Timeout)
	assert.Equal(t, "test-agent", s.Fetch.UserAgent)
}

func TestLoadSettings_EnvOverrides(t *testing.T) {
	store := writeConfig(t, `
[credentials]
openai_api_key = "file"
anthropic_api_key = "file"
`)

	s, err := LoadSettings(store, env(map[string]string{
		EnvOpenAIAPIKey:    "env-openai",
		EnvAnthropicAPIKey: "env-anthropic",
		EnvDataDir:         "/data",
	}))
	require.NoError(t, err)

	assert.Equal(t, "env-openai", s.Credentials.OpenAIAPIKey)
	assert.Equal(t, "env-anthropic", s.Credentials.AnthropicAPIKey)
	assert.Equal(t, "/data", s.Store.DataDir)
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		config  string
		wantErr error
	}{
		{
			name:    "malformed backend",
			config:  "[embedding]\nbackends = [\"gemini\"]\n",
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "unknown provider",
			config:  "[generation]\nbackends = [\"cohere/command\"]\n",
			wantErr: domain.ErrUnsupportedType,
		},
		{
			name:    "generation-only provider in embedding chain",
			config:  "[embedding]\nbackends = [\"anthropic/claude\"]\n",
			wantErr: domain.ErrUnsupportedType,
		},
		{
			name:    "unknown store",
			config:  "[store]\nbackend = \"lance\"\n",
			wantErr: domain.ErrUnsupportedType,
		},
		{
			name:    "bad duration",
			config:  "[fetch]\ntimeout = \"soon\"\n",
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "empty chain",
			config:  "[generation]\nbackends = []\n",
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "source without url",
			config:  "[[sources]]\nspec = \"classic\"\n",
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := writeConfig(t, tt.config)
			_, err := LoadSettings(store, env(map[string]string{EnvDataDir: "/data"}))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
