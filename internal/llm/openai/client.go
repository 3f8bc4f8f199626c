package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kitbuilder587/textgen/internal/llm"
	"github.com/kitbuilder587/textgen/internal/metrics"
)

const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultTimeout = 30 * time.Second
)

type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// Client talks to the completions and edits endpoints. It holds no per-call
// state and may be used from several goroutines.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
	metrics *metrics.Metrics
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		client:  &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// WithMetrics makes the client record every round trip in m.
func (c *Client) WithMetrics(m *metrics.Metrics) *Client {
	c.metrics = m
	return c
}

func (c *Client) Complete(ctx context.Context, prompt string, params llm.CompletionParams) (*llm.CompletionResponse, error) {
	return call(ctx, c, llm.Completions, llm.NewCompletionRequest(prompt, params))
}

func (c *Client) Edit(ctx context.Context, input, instruction string, params llm.EditParams) (*llm.EditResponse, error) {
	return call(ctx, c, llm.Edits, llm.NewEditRequest(input, instruction, params))
}

func call[Req, Resp any](ctx context.Context, c *Client, op llm.Operation[Req, Resp], req Req) (*Resp, error) {
	start := time.Now()
	if c.metrics != nil {
		c.metrics.IncRequestsInFlight(op.Name)
		defer c.metrics.DecRequestsInFlight(op.Name)
	}

	requestID := uuid.New().String()

	var resp *Resp
	body, statusCode, err := c.post(ctx, op.Path, requestID, req)
	if err == nil {
		resp, err = llm.Classify[Resp](body)
	}

	if err != nil {
		var e *llm.Error
		if errors.As(err, &e) {
			e.Op = op.Name
			if e.StatusCode == 0 {
				e.StatusCode = statusCode
			}
		}
		c.logger.Error("text api request failed",
			zap.String("operation", op.Name),
			zap.String("request_id", requestID),
			zap.Stringer("kind", llm.KindOf(err)),
			zap.Int("status", statusCode),
			zap.Error(err),
		)
	}

	if c.metrics != nil {
		c.metrics.RecordRequest(op.Name, outcome(err), time.Since(start))
	}
	return resp, err
}

func (c *Client) post(ctx context.Context, path, requestID string, payload any) ([]byte, int, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, &llm.Error{Kind: llm.KindOther, Message: "marshal request", Err: err}
	}

	c.logger.Debug("text api request",
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.ByteString("body", body),
	)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, 0, &llm.Error{Kind: llm.KindOther, Message: "create request", Err: err}
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("X-Request-Id", requestID)

	return llm.DoRequest(c.client, httpReq)
}

func outcome(err error) string {
	switch llm.KindOf(err) {
	case 0:
		if err == nil {
			return "success"
		}
		return "other_error"
	case llm.KindAPI:
		return "api_error"
	case llm.KindNetwork:
		return "network_error"
	default:
		return "other_error"
	}
}

var _ llm.Client = (*Client)(nil)
