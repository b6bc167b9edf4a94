package fetcher

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// Client errors.
var (
	// ErrCircuitOpen indicates the page host is considered unhealthy and
	// requests are being short-circuited.
	ErrCircuitOpen = errors.New("fetch circuit breaker is open")
)

// ClientConfig holds configuration for the resilient fetch client.
type ClientConfig struct {
	// Name identifies the client for circuit-breaker naming.
	Name string

	// Timeout is the per-request timeout (default: 15s).
	Timeout time.Duration

	// MaxRetries caps retry attempts on transient failures (default: 2).
	MaxRetries uint64

	// InitialInterval is the first retry backoff interval (default: 200ms).
	InitialInterval time.Duration

	// MaxInterval caps the retry backoff interval (default: 3s).
	MaxInterval time.Duration

	// BreakerTimeout is how long the circuit stays open before probing
	// again (default: 60s).
	BreakerTimeout time.Duration
}

// Client wraps http.Client with retry and circuit-breaker behavior for
// page fetches. Transient failures (network errors and 5xx responses)
// are retried with exponential backoff; repeated failures open the
// circuit so a dead host fails fast instead of stalling every parse.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	config     ClientConfig
}

// NewClient creates a resilient fetch client, applying defaults.
func NewClient(cfg ClientConfig) *Client {
	if cfg.Name == "" {
		cfg.Name = "fetcher"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 2
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = 200 * time.Millisecond
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = 3 * time.Second
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = 60 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.5
		},
	})

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    breaker,
		config:     cfg,
	}
}

// serverError marks a 5xx response as retryable and breaker-relevant.
type serverError struct {
	statusCode int
}

func (e *serverError) Error() string {
	return "server error: " + http.StatusText(e.statusCode)
}

// Do executes the request with retry and circuit-breaker protection.
// 4xx responses are returned to the caller unretried; 5xx responses and
// network errors are retried, and the last 5xx response is returned
// once retries are exhausted.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.do(req.Context(), req)
}

func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)

	var lastResp *http.Response

	operation := func() error {
		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // caller closes
			r, err := c.httpClient.Do(req.Clone(ctx))
			if err != nil {
				return nil, err
			}
			if r.StatusCode >= 500 {
				return r, &serverError{statusCode: r.StatusCode}
			}
			return r, nil
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return backoff.Permanent(ErrCircuitOpen)
			}
			if resp != nil {
				lastResp = resp
			}
			return err
		}

		lastResp = resp
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		if lastResp != nil {
			return lastResp, nil
		}
		return nil, err
	}

	return lastResp, nil
}

// BreakerState returns the circuit breaker state, for health reporting.
func (c *Client) BreakerState() gobreaker.State {
	return c.breaker.State()
}
