package llm

import (
	"context"
)

// CompletionsPretty runs a completion with DefaultCompletionParams and returns
// the text of the first choice. Failures are returned as errors, never folded
// into the text.
func CompletionsPretty(ctx context.Context, c Client, prompt, model string, maxTokens uint32) (string, error) {
	resp, err := c.Complete(ctx, prompt, DefaultCompletionParams(model, maxTokens))
	if err != nil {
		return "", err
	}
	text, err := FirstCompletionText(resp)
	if err != nil {
		return "", withOp(err, Completions.Name)
	}
	return text, nil
}

// EditsPretty is the edit counterpart of CompletionsPretty.
func EditsPretty(ctx context.Context, c Client, input, instruction, model string) (string, error) {
	resp, err := c.Edit(ctx, input, instruction, DefaultEditParams(model))
	if err != nil {
		return "", err
	}
	text, err := FirstEditText(resp)
	if err != nil {
		return "", withOp(err, Edits.Name)
	}
	return text, nil
}

func withOp(err error, op string) error {
	if e, ok := err.(*Error); ok && e.Op == "" {
		e.Op = op
	}
	return err
}
