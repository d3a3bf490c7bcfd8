// Package resilience wraps outbound forecast provider calls with
// timeouts, retry with exponential backoff, and a circuit breaker so a
// failing upstream cannot stall condition evaluation.
package resilience

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

// ErrCircuitOpen is returned when the provider's circuit breaker is
// open and no request was attempted.
var ErrCircuitOpen = errors.New("provider circuit breaker is open")

// ClientConfig holds configuration for the resilient HTTP client.
// Zero values are replaced with defaults in NewClient.
type ClientConfig struct {
	// Name identifies the upstream provider in breaker state and logs.
	Name string

	// Timeout bounds each individual HTTP attempt. Default: 8s.
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	// Default: 3.
	MaxRetries uint64

	// InitialInterval is the first retry backoff delay. Default: 200ms.
	InitialInterval time.Duration

	// MaxInterval caps the retry backoff delay. Default: 3s.
	MaxInterval time.Duration

	// BreakerTimeout is how long the breaker stays open before probing
	// the provider again. Default: 30s.
	BreakerTimeout time.Duration

	// BreakerMinRequests is the minimum request count before the
	// breaker can trip. Default: 5.
	BreakerMinRequests uint32

	// BreakerFailureRatio is the failure ratio at which the breaker
	// trips. Default: 0.5.
	BreakerFailureRatio float64

	// OnStateChange, if set, is invoked on breaker state transitions.
	OnStateChange func(name string, from, to gobreaker.State)
}

// DefaultClientConfig returns the defaults used for forecast providers.
func DefaultClientConfig(name string) ClientConfig {
	return ClientConfig{
		Name:                name,
		Timeout:             8 * time.Second,
		MaxRetries:          3,
		InitialInterval:     200 * time.Millisecond,
		MaxInterval:         3 * time.Second,
		BreakerTimeout:      30 * time.Second,
		BreakerMinRequests:  5,
		BreakerFailureRatio: 0.5,
	}
}

// Health is a point-in-time view of a provider client's breaker.
type Health struct {
	Name    string           `json:"name"`
	State   string           `json:"state"`
	Healthy bool             `json:"healthy"`
	Counts  gobreaker.Counts `json:"counts"`
}

// Client is an HTTP client that retries transient failures and trips a
// circuit breaker when the provider keeps failing.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	config     ClientConfig
}

// NewClient creates a resilient HTTP client for one provider.
func NewClient(cfg ClientConfig) *Client {
	defaults := DefaultClientConfig(cfg.Name)
	if cfg.Timeout == 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = defaults.MaxRetries
	}
	if cfg.InitialInterval == 0 {
		cfg.InitialInterval = defaults.InitialInterval
	}
	if cfg.MaxInterval == 0 {
		cfg.MaxInterval = defaults.MaxInterval
	}
	if cfg.BreakerTimeout == 0 {
		cfg.BreakerTimeout = defaults.BreakerTimeout
	}
	if cfg.BreakerMinRequests == 0 {
		cfg.BreakerMinRequests = defaults.BreakerMinRequests
	}
	if cfg.BreakerFailureRatio == 0 {
		cfg.BreakerFailureRatio = defaults.BreakerFailureRatio
	}

	settings := gobreaker.Settings{
		Name:    cfg.Name,
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.BreakerMinRequests && ratio >= cfg.BreakerFailureRatio
		},
	}
	if cfg.OnStateChange != nil {
		settings.OnStateChange = cfg.OnStateChange
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		breaker:    gobreaker.NewCircuitBreaker[*http.Response](settings),
		config:     cfg,
	}
}

// Do executes the request, retrying 5xx responses and network errors
// with exponential backoff. 4xx responses are returned without retry.
// When retries are exhausted on a 5xx, the last response is returned so
// the caller can surface the upstream status. The caller closes the
// response body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.DoWithContext(req.Context(), req)
}

// DoWithContext executes the request with the given context.
func (c *Client) DoWithContext(ctx context.Context, req *http.Request) (*http.Response, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.config.InitialInterval
	bo.MaxInterval = c.config.MaxInterval
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, c.config.MaxRetries), ctx)

	var lastResp *http.Response

	attempt := func() error {
		resp, err := c.breaker.Execute(func() (*http.Response, error) { //nolint:bodyclose // caller closes
			r, err := c.httpClient.Do(req.Clone(ctx))
			if err != nil {
				return nil, err
			}
			// 5xx counts as a breaker failure and is retried.
			if r.StatusCode >= 500 {
				return r, &UpstreamError{StatusCode: r.StatusCode}
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

	if err := backoff.Retry(attempt, policy); err != nil {
		if lastResp != nil {
			return lastResp, nil
		}
		return nil, err
	}
	return lastResp, nil
}

// UpstreamError represents an HTTP 5xx response from the provider.
type UpstreamError struct {
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return "upstream error: " + http.StatusText(e.StatusCode)
}

// Health reports the breaker state for operational endpoints.
func (c *Client) Health() Health {
	state := c.breaker.State()
	return Health{
		Name:    c.config.Name,
		State:   state.String(),
		Healthy: state == gobreaker.StateClosed,
		Counts:  c.breaker.Counts(),
	}
}
