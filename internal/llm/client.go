// Package llm maps completion and edit parameters onto the text API wire
// format and classifies its responses.
package llm

import (
	"context"
)

// Client performs one round trip per call against the text API.
type Client interface {
	Complete(ctx context.Context, prompt string, params CompletionParams) (*CompletionResponse, error)
	Edit(ctx context.Context, input, instruction string, params EditParams) (*EditResponse, error)
}
