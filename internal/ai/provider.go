package ai

import "context"

// Provider sends a prompt to an LLM and returns the raw text completion.
// All shape validation of the response lives in the callers, so a Provider
// can be swapped for a stub in tests.
type Provider interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
