package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/neutron-assistant-go/internal/adapters/metrics"
	"github.com/andrescamacho/neutron-assistant-go/internal/domain/shared"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxRetries  = 3
	defaultBackoffBase = time.Second
	defaultUserAgent   = "neutron-assistant-go"
)

// Config configures a Client for one external service
type Config struct {
	// Service labels metrics and errors, e.g. "spansh"
	Service     string
	BaseURL     string
	UserAgent   string
	Timeout     time.Duration
	RateLimit   float64 // requests per second, 0 for unlimited
	Burst       int
	MaxRetries  int // 0 means the default, negative disables retries
	BackoffBase time.Duration
	// Breaker trips after this many consecutive failed calls, 0 disables it
	BreakerFailures int
	BreakerTimeout  time.Duration
	Clock           shared.Clock
	HTTPClient      *http.Client
}

// Client is the JSON HTTP client shared by the route service adapters: rate
// limited, retrying 429/5xx/network errors with jittered exponential backoff,
// behind a circuit breaker.
type Client struct {
	service     string
	baseURL     string
	userAgent   string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	maxRetries  int
	backoffBase time.Duration
	clock       shared.Clock
	breaker     *CircuitBreaker
}

// NewClient creates a client from cfg, filling unset fields with defaults
func NewClient(cfg Config) *Client {
	if cfg.Clock == nil {
		cfg.Clock = shared.NewRealClock()
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	switch {
	case cfg.MaxRetries == 0:
		cfg.MaxRetries = defaultMaxRetries
	case cfg.MaxRetries < 0:
		cfg.MaxRetries = 0
	}
	if cfg.BackoffBase == 0 {
		cfg.BackoffBase = defaultBackoffBase
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	var breaker *CircuitBreaker
	if cfg.BreakerFailures > 0 {
		breaker = NewCircuitBreaker(cfg.BreakerFailures, cfg.BreakerTimeout, cfg.Clock)
	}

	return &Client{
		service:     cfg.Service,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		userAgent:   cfg.UserAgent,
		httpClient:  httpClient,
		rateLimiter: limiter,
		maxRetries:  cfg.MaxRetries,
		backoffBase: cfg.BackoffBase,
		clock:       cfg.Clock,
		breaker:     breaker,
	}
}

// Service returns the service label
func (c *Client) Service() string {
	return c.service
}

// Breaker returns the circuit breaker, nil when disabled
func (c *Client) Breaker() *CircuitBreaker {
	return c.breaker
}

// Request describes one call. Path is joined to the base URL unless it is an
// absolute URL. At most one of Form and JSON is sent as the body.
type Request struct {
	Method   string
	Path     string
	Query    url.Values
	Form     url.Values
	JSON     interface{}
	Endpoint string // metrics label, defaults to Path
}

// StatusError is returned for non-retryable non-2xx responses. The body is kept
// because route services report their errors in it.
type StatusError struct {
	Service    string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error (status %d): %s", e.Service, e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// retryableError represents an error that should trigger a retry
type retryableError struct {
	message    string
	retryAfter time.Duration
}

func (e *retryableError) Error() string {
	return e.message
}

// Get fetches path and decodes the JSON response into result
func (c *Client) Get(ctx context.Context, path string, query url.Values, result interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, result)
}

// PostForm posts an url-encoded form and decodes the JSON response into result
func (c *Client) PostForm(ctx context.Context, path string, form url.Values, result interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Form: form}, result)
}

// PostJSON posts body as JSON and decodes the JSON response into result
func (c *Client) PostJSON(ctx context.Context, path string, body, result interface{}) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, JSON: body}, result)
}

// Do executes req. result may be nil, a *[]byte for the raw body, or any JSON target.
func (c *Client) Do(ctx context.Context, req Request, result interface{}) error {
	if c.breaker == nil {
		return c.do(ctx, req, result)
	}
	return c.breaker.Call(func() error {
		return c.do(ctx, req, result)
	}, countsAsOutage)
}

// countsAsOutage reports whether err means the service is unhealthy. Client
// errors and cancellations do not.
func countsAsOutage(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode >= 500
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

func (c *Client) do(ctx context.Context, req Request, result interface{}) error {
	target, err := c.resolve(req)
	if err != nil {
		return err
	}
	endpoint := req.Endpoint
	if endpoint == "" {
		endpoint = req.Path
	}

	var lastErr error
attempts:
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		waitStart := time.Now()
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}
		metrics.RecordRateLimitWait(c.service, time.Since(waitStart).Seconds())

		httpReq, err := c.newRequest(ctx, req, target)
		if err != nil {
			return err
		}

		start := time.Now()
		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("context cancelled: %w", ctx.Err())
			}
			metrics.RecordAPIRequest(c.service, endpoint, 0, time.Since(start).Seconds())
			lastErr = &retryableError{message: fmt.Sprintf("network error: %v", err)}
			if !c.backoff(ctx, attempt, endpoint, "network", 0) {
				break attempts
			}
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		metrics.RecordAPIRequest(c.service, endpoint, resp.StatusCode, time.Since(start).Seconds())
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
			lastErr = &retryableError{message: "rate limited (429)", retryAfter: retryAfter}
			if !c.backoff(ctx, attempt, endpoint, "rate_limited", retryAfter) {
				break attempts
			}
			continue
		case resp.StatusCode >= 500:
			lastErr = &StatusError{Service: c.service, StatusCode: resp.StatusCode, Body: respBody}
			if !c.backoff(ctx, attempt, endpoint, "server_error", 0) {
				break attempts
			}
			continue
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			return &StatusError{Service: c.service, StatusCode: resp.StatusCode, Body: respBody}
		}

		return decode(respBody, result)
	}

	if lastErr != nil {
		return fmt.Errorf("%s: max retries exceeded: %w", c.service, lastErr)
	}
	return fmt.Errorf("%s: max retries exceeded", c.service)
}

func (c *Client) resolve(req Request) (string, error) {
	target := req.Path
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		target = c.baseURL + "/" + strings.TrimLeft(req.Path, "/")
	}
	parsed, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid URL %q: %w", target, err)
	}
	if len(req.Query) > 0 {
		parsed.RawQuery = req.Query.Encode()
	}
	return parsed.String(), nil
}

func (c *Client) newRequest(ctx context.Context, req Request, target string) (*http.Request, error) {
	var body io.Reader
	contentType := ""
	switch {
	case req.Form != nil:
		body = strings.NewReader(req.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.JSON != nil:
		jsonData, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(jsonData)
		contentType = "application/json"
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	return httpReq, nil
}

// backoff sleeps before the next attempt and reports whether one is left
func (c *Client) backoff(ctx context.Context, attempt int, endpoint, reason string, retryAfter time.Duration) bool {
	if attempt >= c.maxRetries || ctx.Err() != nil {
		return false
	}
	metrics.RecordAPIRetry(c.service, endpoint, reason)

	delay := retryAfter
	if delay == 0 {
		delay = addJitter(c.backoffBase * time.Duration(1<<attempt))
	}
	c.clock.Sleep(delay)
	return true
}

func decode(body []byte, result interface{}) error {
	switch target := result.(type) {
	case nil:
		return nil
	case *[]byte:
		*target = body
		return nil
	default:
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
		return nil
	}
}

func parseRetryAfter(header string) time.Duration {
	if seconds, err := strconv.Atoi(header); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return 0
}

// addJitter returns a duration between 50% and 150% of d
func addJitter(d time.Duration) time.Duration {
	jitter := 0.5 + rand.Float64()
	return time.Duration(float64(d) * jitter)
}
