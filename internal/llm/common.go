package llm

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"unicode/utf8"

	"go.uber.org/multierr"
)

// Operation describes one text-generation endpoint: its path relative to the
// API base URL and the request and response shapes it speaks.
type Operation[Req, Resp any] struct {
	Name string
	Path string
}

var (
	Completions = Operation[CompletionRequest, CompletionResponse]{Name: "completions", Path: "/completions"}
	Edits       = Operation[EditRequest, EditResponse]{Name: "edits", Path: "/edits"}
)

// Classify interprets a raw response body. It tries the success shape R
// first, then the error shape, and reports an Other error carrying both parse
// failures when neither matches.
func Classify[R any](body []byte) (*R, error) {
	if i := invalidUTF8At(body); i >= 0 {
		return nil, newOtherError("decode response", fmt.Errorf("invalid utf-8 sequence at byte %d", i))
	}

	var resp R
	respErr := json.Unmarshal(body, &resp)
	if respErr == nil {
		return &resp, nil
	}

	var apiResp ErrorResponse
	apiErr := json.Unmarshal(body, &apiResp)
	if apiErr == nil {
		return nil, newAPIError(apiResp.Error)
	}

	return nil, newOtherError("response matched neither result nor error shape", multierr.Combine(
		fmt.Errorf("as result: %w", respErr),
		fmt.Errorf("as error: %w", apiErr),
	))
}

func invalidUTF8At(b []byte) int {
	for i := 0; i < len(b); {
		r, size := utf8.DecodeRune(b[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// DoRequest sends req once and reads the whole body. Failures are network
// errors; the status code is returned untouched.
func DoRequest(client *http.Client, req *http.Request) ([]byte, int, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, newNetworkError("send request", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		e := newNetworkError("read response", err)
		e.StatusCode = resp.StatusCode
		return nil, resp.StatusCode, e
	}

	return body, resp.StatusCode, nil
}

// FirstCompletionText returns the text of choice 0.
func FirstCompletionText(resp *CompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", newOtherError("extract text", ErrEmptyResponse)
	}
	return resp.Choices[0].Text, nil
}

func FirstEditText(resp *EditResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", newOtherError("extract text", ErrEmptyResponse)
	}
	return resp.Choices[0].Text, nil
}
