// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data under the Vedika config directory
// (~/.vedika by default).
//
// Adapters:
//   - ConfigStore: TOML configuration written as nested tables
//   - EnvConfigStore: environment variable overrides on top of any ConfigStore
//   - PromptStore: user-editable answer prompts
package file
