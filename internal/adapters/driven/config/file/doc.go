// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage (~/.specmcp/config.toml)
//   - PromptStore: user-editable prompt templates (~/.specmcp/prompts/)
//
// LoadSettings turns a ConfigStore plus the environment into domain.Settings.
package file
