package driven

import "context"

// GenerationBackend produces free text from a prompt using one model.
//
// Implementations may include:
//   - Gemini (gemini-2.0-flash, gemini-1.5-pro)
//   - OpenAI (gpt-4o-mini)
//   - Anthropic (Claude)
//   - Ollama (local models)
type GenerationBackend interface {
	// Generate produces a text completion for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name returns "provider/model", used in logs and error reports.
	Name() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
