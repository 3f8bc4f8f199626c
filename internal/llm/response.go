package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type CompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created uint32   `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Text  string `json:"text"`
	Index uint32 `json:"index"`
	// Logprobs is kept undecoded; nil when absent or null.
	Logprobs     json.RawMessage `json:"logprobs,omitempty"`
	FinishReason string          `json:"finish_reason"`
}

type EditResponse struct {
	Object  string       `json:"object"`
	Created uint32       `json:"created"`
	Choices []EditChoice `json:"choices"`
	Usage   Usage        `json:"usage"`
}

type EditChoice struct {
	Text  string `json:"text"`
	Index uint32 `json:"index"`
}

type Usage struct {
	PromptTokens     uint32 `json:"prompt_tokens"`
	CompletionTokens uint32 `json:"completion_tokens"`
	TotalTokens      uint32 `json:"total_tokens"`
}

// ErrorResponse is the body the API returns instead of a result.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message string  `json:"message"`
	Type    string  `json:"type"`
	Param   *string `json:"param"`
	Code    *string `json:"code"`
}

// The decoders below read every field from an exact-key map, so keys that
// differ only in case (e.g. "Model") are treated as unknown and ignored.

func (r *CompletionResponse) UnmarshalJSON(data []byte) error {
	f, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out CompletionResponse
	if err := f.required(
		field{"id", &out.ID},
		field{"object", &out.Object},
		field{"created", &out.Created},
		field{"model", &out.Model},
		field{"choices", &out.Choices},
		field{"usage", &out.Usage},
	); err != nil {
		return err
	}
	*r = out
	return nil
}

func (c *Choice) UnmarshalJSON(data []byte) error {
	f, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out Choice
	if err := f.required(
		field{"text", &out.Text},
		field{"index", &out.Index},
		field{"finish_reason", &out.FinishReason},
	); err != nil {
		return err
	}
	if raw, ok := f["logprobs"]; ok && !isNull(raw) {
		out.Logprobs = append(json.RawMessage(nil), raw...)
	}
	*c = out
	return nil
}

func (r *EditResponse) UnmarshalJSON(data []byte) error {
	f, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out EditResponse
	if err := f.required(
		field{"object", &out.Object},
		field{"created", &out.Created},
		field{"choices", &out.Choices},
		field{"usage", &out.Usage},
	); err != nil {
		return err
	}
	*r = out
	return nil
}

func (c *EditChoice) UnmarshalJSON(data []byte) error {
	f, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out EditChoice
	if err := f.required(
		field{"text", &out.Text},
		field{"index", &out.Index},
	); err != nil {
		return err
	}
	*c = out
	return nil
}

func (u *Usage) UnmarshalJSON(data []byte) error {
	f, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out Usage
	if err := f.required(
		field{"prompt_tokens", &out.PromptTokens},
		field{"completion_tokens", &out.CompletionTokens},
		field{"total_tokens", &out.TotalTokens},
	); err != nil {
		return err
	}
	*u = out
	return nil
}

func (r *ErrorResponse) UnmarshalJSON(data []byte) error {
	f, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out ErrorResponse
	if err := f.required(field{"error", &out.Error}); err != nil {
		return err
	}
	*r = out
	return nil
}

func (d *ErrorDetail) UnmarshalJSON(data []byte) error {
	f, err := decodeObject(data)
	if err != nil {
		return err
	}
	var out ErrorDetail
	if err := f.required(
		field{"message", &out.Message},
		field{"type", &out.Type},
	); err != nil {
		return err
	}
	if err := f.optional(
		field{"param", &out.Param},
		field{"code", &out.Code},
	); err != nil {
		return err
	}
	*d = out
	return nil
}

type field struct {
	name string
	dst  any
}

// objectFields holds the members of one JSON object keyed by their exact name.
type objectFields map[string]json.RawMessage

func decodeObject(data []byte) (objectFields, error) {
	var f objectFields
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f == nil {
		return nil, fmt.Errorf("expected object, got null")
	}
	return f, nil
}

// required decodes each named member, failing when it is absent or null.
func (f objectFields) required(fields ...field) error {
	for _, fl := range fields {
		raw, ok := f[fl.name]
		if !ok {
			return fmt.Errorf("missing field %q", fl.name)
		}
		if isNull(raw) {
			return fmt.Errorf("field %q must not be null", fl.name)
		}
		if err := json.Unmarshal(raw, fl.dst); err != nil {
			return fmt.Errorf("field %q: %w", fl.name, err)
		}
	}
	return nil
}

// optional decodes each named member that is present; null leaves the zero value.
func (f objectFields) optional(fields ...field) error {
	for _, fl := range fields {
		raw, ok := f[fl.name]
		if !ok || isNull(raw) {
			continue
		}
		if err := json.Unmarshal(raw, fl.dst); err != nil {
			return fmt.Errorf("field %q: %w", fl.name, err)
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
