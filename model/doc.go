// Package model defines the engine's only contract with language models: a
// Caller turns CallOptions (system prompt, user prompt, sampling knobs)
// into a single text completion. Provider specifics live in the sub-packages
// anthropic and openai; tests and examples use MockCaller.
package model
