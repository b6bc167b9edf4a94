// Package llm provides the model-backed note extractor. Calls to the
// chat-completions endpoint are rate limited locally and retried only
// on timeout.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/noteroute/noteroute/internal/note"
	"github.com/noteroute/noteroute/internal/parser"
)

const (
	// ProviderName identifies the model-backed extraction strategy.
	ProviderName = "ai"

	// DefaultBaseURL is the chat-completions API base URL.
	DefaultBaseURL = "https://ark.cn-beijing.volces.com/api/v3"

	// DefaultModel is the extraction model identifier.
	DefaultModel = "doubao-seed-1-6-250615"

	// DefaultTimeout is the per-attempt request timeout. Long notes can
	// take the model well over a minute.
	DefaultTimeout = 120 * time.Second

	// maxAttempts bounds timeout retries per extraction.
	maxAttempts = 3

	// retryBackoffStep is multiplied by the attempt number between
	// timeout retries (10s, then 20s).
	retryBackoffStep = 10 * time.Second
)

// Sentinel errors for model calls.
var (
	// ErrRateLimited indicates the local limiter refused the call before
	// any network traffic.
	ErrRateLimited = errors.New("model call refused by local rate limit")
	// ErrUnavailable indicates the client has no API key configured.
	ErrUnavailable = errors.New("model extractor is not configured")
	// ErrNoCompletion indicates the endpoint replied without a choice.
	ErrNoCompletion = errors.New("model response contained no completion")
)

// Error wraps a model-call failure with provider context.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", ProviderName, e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPDoer is an interface for executing HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the model client.
type ClientConfig struct {
	// APIKey authenticates against the endpoint. An empty key leaves
	// the extractor unavailable rather than failing requests.
	APIKey string

	// BaseURL is the API base URL (optional).
	BaseURL string

	// Model is the model identifier (optional).
	Model string

	// HTTPClient is the HTTP client to use (optional).
	HTTPClient HTTPDoer

	// Timeout is the per-attempt timeout (optional, defaults to 120s).
	Timeout time.Duration

	// Limiter enforces local call caps (optional).
	Limiter *Limiter

	// Sleep overrides the retry backoff sleep, for tests.
	Sleep func(time.Duration)

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client calls a chat-completions endpoint to extract places from note
// text. It implements the parser.Extractor interface.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient HTTPDoer
	timeout    time.Duration
	limiter    *Limiter
	sleep      func(time.Duration)
	logger     zerolog.Logger
}

// NewClient creates a model client from config, applying defaults.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    baseURL,
		model:      model,
		httpClient: httpClient,
		timeout:    timeout,
		limiter:    cfg.Limiter,
		sleep:      sleep,
		logger:     cfg.Logger,
	}
}

// Name returns the strategy identifier.
func (c *Client) Name() string { return ProviderName }

// Available reports whether an API key is configured.
func (c *Client) Available() bool { return c.apiKey != "" }

// Usage returns limiter consumption, when a limiter is configured.
func (c *Client) Usage() *UsageStats {
	if c.limiter == nil {
		return nil
	}
	stats := c.limiter.Stats()
	return &stats
}

// TryExtract asks the model for the extraction JSON. Each attempt is
// checked against the local limiter first; a refusal aborts without
// network I/O. Timeouts are retried up to three attempts with growing
// backoff, every other failure returns immediately.
func (c *Client) TryExtract(ctx context.Context, in parser.Input) (*note.Extraction, error) {
	if !c.Available() {
		return nil, ErrUnavailable
	}

	prompt := buildPrompt(in.Text)

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if c.limiter != nil && !c.limiter.Allow() {
			c.logger.Warn().
				Int("attempt", attempt).
				Msg("model call refused by rate limiter")
			return nil, ErrRateLimited
		}

		result, err := c.complete(ctx, prompt, in.URL)
		if err == nil {
			return result, nil
		}
		if !isTimeout(err) {
			return nil, err
		}

		lastErr = err
		if attempt < maxAttempts {
			wait := time.Duration(attempt) * retryBackoffStep
			c.logger.Warn().
				Int("attempt", attempt).
				Dur("backoff", wait).
				Msg("model call timed out, retrying")
			c.sleep(wait)
		}
	}

	return nil, &Error{
		Code:    "TIMEOUT",
		Message: fmt.Sprintf("model call timed out after %d attempts", maxAttempts),
		Err:     lastErr,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// complete performs one chat-completions round trip and normalizes the
// reply.
func (c *Client) complete(ctx context.Context, prompt, sourceURL string) (*note.Extraction, error) {
	body, err := json.Marshal(chatRequest{
		Model:    c.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.baseURL + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	c.logger.Debug().
		Str("model", c.model).
		Int("prompt_len", len(prompt)).
		Msg("requesting model extraction")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return nil, err
		}
		return nil, &Error{
			Code:    "REQUEST_FAILED",
			Message: "failed to reach model endpoint",
			Err:     err,
		}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &Error{
			Code:    fmt.Sprintf("HTTP_%d", resp.StatusCode),
			Message: fmt.Sprintf("model endpoint returned status %d", resp.StatusCode),
		}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, ErrNoCompletion
	}

	result, err := ParseModelOutput(chatResp.Choices[0].Message.Content, sourceURL)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Int("places", result.PlaceCount()).
		Bool("multi_route", result.MultiRoute()).
		Msg("received model extraction")

	return result, nil
}

// isTimeout reports whether the error is a deadline or network timeout.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || os.IsTimeout(err) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

var _ parser.Extractor = (*Client)(nil)
