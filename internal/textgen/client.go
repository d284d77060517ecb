// Package textgen is the HTTP client for the hosted text-generation API.
// It is the only network boundary the answer pipeline depends on.
//
// Failures are surfaced as a small typed taxonomy so callers can drive
// their retry/fallback policy off the condition, not off string matching:
//
//   - ErrModelLoading: the model is still warming up (HTTP 503); transient.
//   - ErrResourceExhausted: the model ran out of capacity; callers should
//     fall back to a smaller model.
//   - *APIError: anything else, carrying status code and response body.
package textgen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// Sentinel errors for typed failure conditions.
var (
	// ErrModelLoading indicates the model endpoint is temporarily
	// unavailable while the model loads. Recoverable by retry.
	ErrModelLoading = errors.New("model is loading")

	// ErrResourceExhausted indicates the model ran out of capacity.
	// Recoverable by falling back to a smaller model.
	ErrResourceExhausted = errors.New("model resources exhausted")
)

// APIError is a non-transient inference API failure.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200] + "..."
	}
	return fmt.Sprintf("inference api: status %d: %s", e.Status, body)
}

// Params controls a single generation request.
type Params struct {
	MaxNewTokens int
	Temperature  float64
	Sample       bool
}

// maxResponseBytes caps how much of an inference response is read.
const maxResponseBytes = 4 << 20

// Config contains the parameters for creating a Client.
type Config struct {
	BaseURL string // e.g. "https://api-inference.huggingface.co"
	APIKey  string // bearer credential

	HTTPClient *http.Client  // optional; default has a 120s timeout
	Limiter    *rate.Limiter // optional proactive rate limiting
	Breaker    *CircuitBreaker
	Logger     *slog.Logger
}

// Client talks to a HuggingFace-style hosted inference API.
// Safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	limiter *rate.Limiter
	breaker *CircuitBreaker
	logger  *slog.Logger
}

// NewClient creates a Client. BaseURL and APIKey are required.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("inference base URL is required")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("inference API key is required")
	}

	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: 120 * time.Second}
	}

	// Default: 10 requests/sec sustained, burst of 30.
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(10, 30)
	}

	breaker := cfg.Breaker
	if breaker == nil {
		breaker = NewCircuitBreaker(DefaultCircuitBreakerConfig())
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpc:   httpc,
		limiter: limiter,
		breaker: breaker,
		logger:  logger,
	}, nil
}

// completionRequest is the inference API request payload.
type completionRequest struct {
	Inputs     string               `json:"inputs"`
	Parameters completionParameters `json:"parameters"`
}

type completionParameters struct {
	MaxNewTokens int     `json:"max_new_tokens"`
	DoSample     bool    `json:"do_sample"`
	Temperature  float64 `json:"temperature"`
}

// Complete requests one completion from the named model and returns the
// generated text. The circuit breaker is consulted before the request and
// each attempt is rate limited.
func (c *Client) Complete(ctx context.Context, model, prompt string, p Params) (string, error) {
	if err := c.breaker.Allow(); err != nil {
		return "", fmt.Errorf("inference endpoint: %w", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	payload, err := json.Marshal(completionRequest{
		Inputs: prompt,
		Parameters: completionParameters{
			MaxNewTokens: p.MaxNewTokens,
			DoSample:     p.Sample,
			Temperature:  p.Temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding request: %w", err)
	}

	url := c.baseURL + "/models/" + model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		c.breaker.Failure()
		return "", fmt.Errorf("posting to %s: %w", model, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		c.breaker.Failure()
		return "", fmt.Errorf("reading response from %s: %w", model, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		c.breaker.Success()
		return extractGeneratedText(body), nil

	case resp.StatusCode == http.StatusServiceUnavailable:
		c.breaker.Failure()
		return "", fmt.Errorf("model %s: %w", model, ErrModelLoading)

	case resp.StatusCode >= http.StatusInternalServerError &&
		strings.Contains(string(body), "CUDA out of memory"):
		c.breaker.Failure()
		return "", fmt.Errorf("model %s: %w", model, ErrResourceExhausted)

	default:
		c.breaker.Failure()
		return "", &APIError{Status: resp.StatusCode, Body: string(body)}
	}
}

// extractGeneratedText pulls generated_text out of a success response.
// The API returns either a JSON array of result objects or a single
// object, so both shapes are probed.
func extractGeneratedText(body []byte) string {
	if r := gjson.GetBytes(body, "0.generated_text"); r.Exists() {
		return r.String()
	}
	return gjson.GetBytes(body, "generated_text").String()
}
