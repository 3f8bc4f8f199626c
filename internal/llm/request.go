package llm

// CompletionRequest is the JSON body sent to the completions endpoint.
// Optional fields use omitzero so that an unset value is absent from the
// payload while an explicitly empty one (e.g. "stop": []) is still sent.
type CompletionRequest struct {
	Model            string           `json:"model"`
	Prompt           string           `json:"prompt"`
	Temperature      uint32           `json:"temperature"`
	MaxTokens        uint32           `json:"max_tokens"`
	TopP             float32          `json:"top_p"`
	FrequencyPenalty float32          `json:"frequency_penalty"`
	PresencePenalty  float32          `json:"presence_penalty"`
	Stop             []string         `json:"stop,omitzero"`
	Suffix           *string          `json:"suffix,omitzero"`
	N                uint32           `json:"n"`
	Stream           bool             `json:"stream"`
	Logprobs         *uint32          `json:"logprobs,omitzero"`
	Echo             bool             `json:"echo"`
	BestOf           uint32           `json:"best_of"`
	LogitBias        map[string]int32 `json:"logit_bias,omitzero"`
	User             *string          `json:"user,omitzero"`
}

// EditRequest is the JSON body sent to the edits endpoint. Every field is
// always present.
type EditRequest struct {
	Model       string  `json:"model"`
	Input       string  `json:"input"`
	Instruction string  `json:"instruction"`
	N           uint32  `json:"n"`
	Temperature uint32  `json:"temperature"`
	TopP        float32 `json:"top_p"`
}

func NewCompletionRequest(prompt string, params CompletionParams) CompletionRequest {
	return CompletionRequest{
		Model:            params.Model,
		Prompt:           prompt,
		Temperature:      params.Temperature,
		MaxTokens:        params.MaxTokens,
		TopP:             params.TopP,
		FrequencyPenalty: params.FrequencyPenalty,
		PresencePenalty:  params.PresencePenalty,
		Stop:             params.Stop,
		Suffix:           params.Suffix,
		N:                params.N,
		Stream:           params.Stream,
		Logprobs:         params.Logprobs,
		Echo:             params.Echo,
		BestOf:           params.BestOf,
		LogitBias:        params.LogitBias,
		User:             params.User,
	}
}

func NewEditRequest(input, instruction string, params EditParams) EditRequest {
	return EditRequest{
		Model:       params.Model,
		Input:       input,
		Instruction: instruction,
		N:           params.N,
		Temperature: params.Temperature,
		TopP:        params.TopP,
	}
}
