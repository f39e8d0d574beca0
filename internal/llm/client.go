// Package llm provides text-completion clients for the analysis pipeline.
// Upstream failures surface as typed errors at this boundary; callers decide
// how to absorb them.
package llm

import (
	"context"
	"strings"
)

// Request carries the per-call completion parameters.
type Request struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Client is the completion interface the analyzer depends on.
type Client interface {
	// Complete sends a single user-role prompt and returns the model's
	// text with any markdown code fence already stripped.
	Complete(ctx context.Context, req Request) (string, error)
}

// StripFence removes a leading/trailing triple-backtick fence (with or
// without a json language tag) and trims surrounding whitespace. Unfenced
// text passes through unchanged apart from trimming.
func StripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	// Drop the opening fence line (``` or ```json).
	body := text
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		body = body[idx+1:]
	} else {
		body = strings.TrimPrefix(body, "```json")
		body = strings.TrimPrefix(body, "```")
	}

	body = strings.TrimSpace(body)
	body = strings.TrimSuffix(body, "```")
	return strings.TrimSpace(body)
}
