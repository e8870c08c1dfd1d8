// Package ai provides LLM-backed transaction extraction for statement
// layouts that defeat positional text parsing.
package ai

import "context"

// Generator produces text from a system instruction and a user message.
type Generator interface {
	Generate(ctx context.Context, system, user string, maxOutputTokens int32) (string, error)
}
