package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kitbuilder587/textgen/internal/config"
	"github.com/kitbuilder587/textgen/internal/llm"
	"github.com/kitbuilder587/textgen/internal/llm/mock"
	"github.com/kitbuilder587/textgen/internal/metrics"
)

const (
	completionJSON = `{"id":"cmpl-1","object":"text_completion","created":1,"model":"text-davinci-003",
		"choices":[{"text":" No","index":0,"logprobs":null,"finish_reason":"length"}],
		"usage":{"prompt_tokens":18,"completion_tokens":3,"total_tokens":21}}`
	editJSON = `{"object":"edit","created":1,"choices":[{"text":"Hello, Mick!","index":0}],
		"usage":{"prompt_tokens":25,"completion_tokens":30,"total_tokens":55}}`
)

func fakeAPI(t *testing.T, editBody string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/completions":
			io.WriteString(w, completionJSON)
		case "/edits":
			io.WriteString(w, editBody)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	t.Setenv("OPEN_AI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", server.URL)
	t.Setenv("LOG_LEVEL", "error")
	return server
}

func TestRun_Sample(t *testing.T) {
	fakeAPI(t, editJSON)

	var out bytes.Buffer
	err := run(context.Background(), nil, &out, prometheus.NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, "completion:  No\nedit: Hello, Mick!\n", out.String())
}

func TestRun_Commands(t *testing.T) {
	fakeAPI(t, editJSON)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"complete", []string{"complete", "Say no"}, " No\n"},
		{"edit", []string{"edit", "Helsllo, Mick!", "Fix grammar"}, "Hello, Mick!\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			err := run(context.Background(), tt.args, &out, prometheus.NewRegistry())
			require.NoError(t, err)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestRun_APIError(t *testing.T) {
	fakeAPI(t, `{"error":{"message":"insufficient quota","type":"insufficient_quota","param":null,"code":null}}`)

	var out bytes.Buffer
	err := run(context.Background(), nil, &out, prometheus.NewRegistry())
	require.ErrorIs(t, err, llm.ErrAPI)
	assert.Equal(t, "edit: insufficient quota", err.Error())
	assert.Empty(t, out.String())
}

func TestRun_Usage(t *testing.T) {
	fakeAPI(t, editJSON)

	for _, args := range [][]string{{"complete"}, {"edit", "only input"}, {"translate"}} {
		err := run(context.Background(), args, io.Discard, prometheus.NewRegistry())
		assert.True(t, errors.Is(err, errUsage), "args %v: %v", args, err)
	}
}

func TestRun_MissingAPIKey(t *testing.T) {
	t.Setenv("OPEN_AI_API_KEY", "")

	err := run(context.Background(), nil, io.Discard, prometheus.NewRegistry())
	assert.ErrorIs(t, err, config.ErrMissingAPIKey)
}

func TestRun_MaxTokensOutOfRange(t *testing.T) {
	fakeAPI(t, editJSON)
	t.Setenv("COMPLETIONS_MAX_TOKENS", "4294967296")

	err := run(context.Background(), []string{"complete", "p"}, io.Discard, prometheus.NewRegistry())
	assert.ErrorIs(t, err, config.ErrInvalidMaxTokens)
}

func TestRun_RecordsRequestTotals(t *testing.T) {
	fakeAPI(t, `{"error":{"message":"insufficient quota","type":"insufficient_quota"}}`)
	reg := prometheus.NewRegistry()

	err := run(context.Background(), nil, io.Discard, reg)
	require.ErrorIs(t, err, llm.ErrAPI)

	totals, err := metrics.Totals(reg)
	require.NoError(t, err)
	assert.Equal(t, float64(1), totals["edits/api_error"])

	// the completion may finish or be cancelled by the failed edit
	var completions float64
	for key, n := range totals {
		if strings.HasPrefix(key, "completions/") {
			completions += n
		}
	}
	assert.Equal(t, float64(1), completions)
}

func TestLogRequestTotals(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	m.RecordRequest("edits", "success", time.Millisecond)

	logRequestTotals(zap.New(core), reg)

	entries := logs.FilterMessage("text api requests").All()
	require.Len(t, entries, 1)
	assert.Equal(t, map[string]float64{"edits/success": 1}, entries[0].ContextMap()["totals"])
}

func TestLogRequestTotals_NothingRecorded(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	logRequestTotals(zap.New(core), prometheus.NewRegistry())

	assert.Zero(t, logs.Len())
}

func TestRunSample_CancelledContext(t *testing.T) {
	client := mock.New().WithDelay(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := runSample(ctx, client, config.ModelsConfig{Completions: "c", Edits: "e", MaxTokens: 3}, io.Discard, zap.NewNop())

	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, 2, client.CallCount())
}

// failingEdits answers completions from the embedded mock and fails every edit.
type failingEdits struct {
	*mock.Client
	err error
}

func (f failingEdits) Edit(context.Context, string, string, llm.EditParams) (*llm.EditResponse, error) {
	return nil, f.err
}

func TestRunSample_FailedEditCancelsCompletion(t *testing.T) {
	completions := mock.New().WithDelay(time.Minute)
	client := failingEdits{
		Client: completions,
		err:    &llm.Error{Kind: llm.KindNetwork, Message: "send request"},
	}

	var out bytes.Buffer
	start := time.Now()
	err := runSample(context.Background(), client, config.ModelsConfig{Completions: "c", Edits: "e", MaxTokens: 3}, &out, zap.NewNop())

	require.ErrorIs(t, err, llm.ErrNetwork)
	assert.Contains(t, err.Error(), "edit: ")
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, 1, completions.CallCount())
	assert.Empty(t, out.String())
}
