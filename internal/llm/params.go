package llm

// CompletionParams holds the generation settings for a completion.
//
// Temperature is an unsigned integer because that is what the wire contract
// carries; fractional temperatures such as 0.7 cannot be expressed.
type CompletionParams struct {
	Model            string
	Temperature      uint32
	MaxTokens        uint32
	TopP             float32
	FrequencyPenalty float32
	PresencePenalty  float32
	N                uint32
	Stream           bool
	Echo             bool
	BestOf           uint32

	// Optional, omitted from the payload when nil.
	Stop      []string
	Suffix    *string
	Logprobs  *uint32
	LogitBias map[string]int32
	User      *string
}

// EditParams holds the generation settings for an edit. Temperature has the
// same integer restriction as in CompletionParams.
type EditParams struct {
	Model       string
	Temperature uint32
	TopP        float32
	N           uint32
}

// DefaultCompletionParams returns greedy, single-result settings with every
// optional field unset.
func DefaultCompletionParams(model string, maxTokens uint32) CompletionParams {
	return CompletionParams{
		Model:            model,
		Temperature:      0,
		MaxTokens:        maxTokens,
		TopP:             1.0,
		FrequencyPenalty: 0,
		PresencePenalty:  0,
		N:                1,
		Stream:           false,
		Echo:             false,
		BestOf:           1,
	}
}

func DefaultEditParams(model string) EditParams {
	return EditParams{
		Model:       model,
		Temperature: 0,
		TopP:        1.0,
		N:           1,
	}
}
