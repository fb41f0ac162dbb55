// Package interpreter turns natural-language customization requests into
// Action lists via an LLM provider. The pipeline's only contract with this
// package is the Action shape itself.
package interpreter

import "context"

// Client sends a prompt to an LLM and returns the reply text.
// Model is provider-specific (e.g. "gpt-4o-mini", "llama-3.3-70b-versatile").
type Client interface {
	Complete(ctx context.Context, model, systemPrompt, userMessage string) (string, error)
}
