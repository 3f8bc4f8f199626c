package mock

import (
	"context"
	"sync"
	"time"

	"github.com/kitbuilder587/textgen/internal/llm"
)

// Client is an in-memory llm.Client that records what it was asked.
type Client struct {
	CompletionResponse *llm.CompletionResponse
	EditResponse       *llm.EditResponse
	Error              error
	Delay              time.Duration

	mu       sync.Mutex
	AllCalls []Call
}

// Call is one recorded invocation. Exactly one of Completion and Edit is set.
type Call struct {
	Prompt      string
	Input       string
	Instruction string
	Completion  *llm.CompletionParams
	Edit        *llm.EditParams
}

func New() *Client {
	return &Client{
		CompletionResponse: &llm.CompletionResponse{
			ID:      "cmpl-mock",
			Object:  "text_completion",
			Model:   "mock",
			Choices: []llm.Choice{{Text: "mock completion", Index: 0, FinishReason: "stop"}},
		},
		EditResponse: &llm.EditResponse{
			Object:  "edit",
			Choices: []llm.EditChoice{{Text: "mock edit", Index: 0}},
		},
	}
}

func (c *Client) WithCompletion(resp *llm.CompletionResponse) *Client {
	c.CompletionResponse = resp
	return c
}

func (c *Client) WithEdit(resp *llm.EditResponse) *Client {
	c.EditResponse = resp
	return c
}

// WithCompletionTexts replaces the completion response with one choice per text.
func (c *Client) WithCompletionTexts(texts ...string) *Client {
	choices := make([]llm.Choice, 0, len(texts))
	for i, text := range texts {
		choices = append(choices, llm.Choice{Text: text, Index: uint32(i), FinishReason: "stop"})
	}
	c.CompletionResponse = &llm.CompletionResponse{
		ID:      "cmpl-mock",
		Object:  "text_completion",
		Model:   "mock",
		Choices: choices,
	}
	return c
}

func (c *Client) WithError(err error) *Client {
	c.Error = err
	return c
}

func (c *Client) WithDelay(delay time.Duration) *Client {
	c.Delay = delay
	return c
}

func (c *Client) Complete(ctx context.Context, prompt string, params llm.CompletionParams) (*llm.CompletionResponse, error) {
	c.record(Call{Prompt: prompt, Completion: &params})

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	if c.Error != nil {
		return nil, c.Error
	}
	return c.CompletionResponse, nil
}

func (c *Client) Edit(ctx context.Context, input, instruction string, params llm.EditParams) (*llm.EditResponse, error) {
	c.record(Call{Input: input, Instruction: instruction, Edit: &params})

	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	if c.Error != nil {
		return nil, c.Error
	}
	return c.EditResponse, nil
}

func (c *Client) record(call Call) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.AllCalls = append(c.AllCalls, call)
}

func (c *Client) wait(ctx context.Context) error {
	if c.Delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.Delay):
		return nil
	}
}

func (c *Client) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.AllCalls)
}

// LastCall returns the most recent call, or a zero Call if there was none.
func (c *Client) LastCall() Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.AllCalls) == 0 {
		return Call{}
	}
	return c.AllCalls[len(c.AllCalls)-1]
}

func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.AllCalls = nil
}

var _ llm.Client = (*Client)(nil)
