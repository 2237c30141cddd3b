package driven

// Prompt names.
const (
	// PromptAsk grounds an answer in retrieved sections.
	// Placeholders: context (%s), question (%s).
	PromptAsk = "ask"
)

// PromptStore loads user-customisable prompt templates.
type PromptStore interface {
	// Load returns the template for name, or the built-in default.
	Load(name string) (string, error)
}
