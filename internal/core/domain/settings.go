package domain

import (
	"fmt"
	"strings"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is the Google Generative Language API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOpenAI, AIProviderOllama, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini || p == AIProviderOpenAI || p == AIProviderAnthropic
}

// SupportsEmbeddings returns true if this provider can produce embeddings.
func (p AIProvider) SupportsEmbeddings() bool {
	return p == AIProviderGemini || p == AIProviderOpenAI || p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// Backend is one entry of a provider chain: a provider and the model to call.
type Backend struct {
	Provider AIProvider
	Model    string
}

// String returns the "provider/model" form used in config files and logs.
func (b Backend) String() string {
	return string(b.Provider) + "/" + b.Model
}

// ParseBackend parses a "provider/model" string.
func ParseBackend(s string) (Backend, error) {
	provider, model, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok || model == "" {
		return Backend{}, fmt.Errorf("%w: backend %q must be provider/model", ErrInvalidInput, s)
	}
	b := Backend{Provider: AIProvider(strings.ToLower(provider)), Model: model}
	if !b.Provider.IsValid() {
		return Backend{}, fmt.Errorf("%w: provider %q", ErrUnsupportedType, provider)
	}
	return b, nil
}

// DefaultEmbeddingBackends returns the embedding chain in priority order.
func DefaultEmbeddingBackends() []Backend {
	return []Backend{
		{Provider: AIProviderGemini, Model: "gemini-embedding-001"},
		{Provider: AIProviderGemini, Model: "text-embedding-004"},
		{Provider: AIProviderGemini, Model: "embedding-001"},
	}
}

// DefaultGenerationBackends returns the generation chain in priority order.
// Flash models come first: they are the fastest and cheapest.
func DefaultGenerationBackends() []Backend {
	return []Backend{
		{Provider: AIProviderGemini, Model: "gemini-2.0-flash"},
		{Provider: AIProviderGemini, Model: "gemini-2.0-flash-lite"},
		{Provider: AIProviderGemini, Model: "gemini-1.5-flash"},
		{Provider: AIProviderGemini, Model: "gemini-1.5-flash-8b"},
		{Provider: AIProviderGemini, Model: "gemini-1.5-pro"},
		{Provider: AIProviderGemini, Model: "gemini-1.0-pro"},
		{Provider: AIProviderGemini, Model: "gemini-pro"},
	}
}

// CredentialSettings holds API keys and endpoints shared by all backends.
type CredentialSettings struct {
	// GeminiAPIKey is the Google Generative Language API key.
	GeminiAPIKey string

	// OpenAIAPIKey is the OpenAI API key.
	OpenAIAPIKey string

	// OpenAIBaseURL overrides the OpenAI endpoint (Azure or compatible APIs).
	OpenAIBaseURL string

	// AnthropicAPIKey is the Anthropic API key.
	AnthropicAPIKey string

	// OllamaBaseURL is the Ollama endpoint.
	OllamaBaseURL string

	// Timeout bounds a single backend request. Zero uses adapter defaults.
	Timeout time.Duration
}

// APIKey returns the configured key for the given provider.
func (c CredentialSettings) APIKey(p AIProvider) string {
	switch p {
	case AIProviderGemini:
		return c.GeminiAPIKey
	case AIProviderOpenAI:
		return c.OpenAIAPIKey
	case AIProviderAnthropic:
		return c.AnthropicAPIKey
	default:
		return ""
	}
}

// StoreBackend identifies a vector store implementation.
type StoreBackend string

// Available store backends.
const (
	// StoreBackendSQLite persists sections in a local SQLite database.
	StoreBackendSQLite StoreBackend = "sqlite"

	// StoreBackendQdrant persists sections in a Qdrant collection.
	StoreBackendQdrant StoreBackend = "qdrant"

	// StoreBackendMemory keeps sections in process memory only.
	StoreBackendMemory StoreBackend = "memory"
)

// IsValid returns true if the store backend is recognised.
func (b StoreBackend) IsValid() bool {
	switch b {
	case StoreBackendSQLite, StoreBackendQdrant, StoreBackendMemory:
		return true
	default:
		return false
	}
}

// StoreSettings holds vector store configuration.
type StoreSettings struct {
	// Backend selects the store implementation.
	Backend StoreBackend

	// DataDir holds the SQLite database and the keyword index.
	DataDir string

	// QdrantAddr is the Qdrant gRPC address (host:port).
	QdrantAddr string

	// Collection is the collection (table) name.
	Collection string

	// KeywordIndex enables the full-text index rebuilt on every ingestion.
	KeywordIndex bool
}

// ExtractorSettings configures section boundary detection.
type ExtractorSettings struct {
	// BoundaryTags are container elements that end a section's body.
	BoundaryTags []string

	// HeaderWrapperClass marks a div that wraps a heading.
	HeaderWrapperClass string
}

// FetchSettings configures document downloads.
type FetchSettings struct {
	// RequestsPerSecond spaces document fetches. Zero disables throttling.
	RequestsPerSecond float64

	// Timeout bounds a single document fetch.
	Timeout time.Duration

	// UserAgent is sent with every fetch.
	UserAgent string
}

// Settings holds all application settings.
type Settings struct {
	Store       StoreSettings
	Embedding   []Backend
	Generation  []Backend
	Credentials CredentialSettings
	Sources     []SpecSource
	Extractor   ExtractorSettings
	Fetch       FetchSettings
}

// Default setting values.
const (
	DefaultCollection         = "specs"
	DefaultQdrantAddr         = "localhost:6334"
	DefaultHeaderWrapperClass = "header-wrapper"
	DefaultFetchRate          = 1.0
	DefaultFetchTimeout       = 60 * time.Second
	DefaultUserAgent          = "specmcp/1.0"
)

// DefaultSettings returns settings with sensible defaults.
// API keys are left empty; they come from the config file or environment.
func DefaultSettings() Settings {
	return Settings{
		Store: StoreSettings{
			Backend:      StoreBackendSQLite,
			QdrantAddr:   DefaultQdrantAddr,
			Collection:   DefaultCollection,
			KeywordIndex: true,
		},
		Embedding:  DefaultEmbeddingBackends(),
		Generation: DefaultGenerationBackends(),
		Sources:    DefaultSources(),
		Extractor: ExtractorSettings{
			BoundaryTags:       []string{"section"},
			HeaderWrapperClass: DefaultHeaderWrapperClass,
		},
		Fetch: FetchSettings{
			RequestsPerSecond: DefaultFetchRate,
			Timeout:           DefaultFetchTimeout,
			UserAgent:         DefaultUserAgent,
		},
	}
}

// Validate checks the settings for values that cannot work.
func (s Settings) Validate() error {
	if !s.Store.Backend.IsValid() {
		return fmt.Errorf("%w: store backend %q", ErrUnsupportedType, s.Store.Backend)
	}
	if len(s.Embedding) == 0 {
		return fmt.Errorf("%w: no embedding backends", ErrInvalidInput)
	}
	if len(s.Generation) == 0 {
		return fmt.Errorf("%w: no generation backends", ErrInvalidInput)
	}
	for _, b := range s.Embedding {
		if !b.Provider.SupportsEmbeddings() {
			return fmt.Errorf("%w: %s cannot produce embeddings", ErrUnsupportedType, b)
		}
	}
	for _, b := range s.Generation {
		if !b.Provider.IsValid() {
			return fmt.Errorf("%w: %s", ErrUnsupportedType, b)
		}
	}
	for _, src := range s.Sources {
		if src.URL == "" || src.Spec == "" {
			return fmt.Errorf("%w: source needs url and spec", ErrInvalidInput)
		}
	}
	return nil
}

// MissingAPIKeys returns the providers referenced by the chains whose API key is empty.
func (s Settings) MissingAPIKeys() []AIProvider {
	seen := make(map[AIProvider]bool)
	var missing []AIProvider
	for _, b := range append(append([]Backend{}, s.Embedding...), s.Generation...) {
		if seen[b.Provider] || !b.Provider.RequiresAPIKey() {
			continue
		}
		seen[b.Provider] = true
		if s.Credentials.APIKey(b.Provider) == "" {
			missing = append(missing, b.Provider)
		}
	}
	return missing
}

// BackendStatus is the result of pinging one backend of a provider chain.
type BackendStatus struct {
	Chain   string
	Backend string
	Latency time.Duration
	Err     error
}

// OK reports whether the backend answered the ping.
func (s BackendStatus) OK() bool {
	return s.Err == nil
}
