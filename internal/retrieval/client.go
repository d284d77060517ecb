// Package retrieval is the boundary client for the external
// retrieval-augmented-generation service. The service owns embedding,
// indexing, and semantic search; this side only asks it questions.
package retrieval

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// maxResponseBytes caps how much of a retrieval response is read.
const maxResponseBytes = 4 << 20

// Config contains the parameters for creating a Client.
type Config struct {
	BaseURL    string // e.g. "http://rag:8000"
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client queries the external RAG service. Safe for concurrent use.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

// NewClient creates a Client. BaseURL is required.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("retrieval base URL is required")
	}

	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: 120 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpc:   httpc,
		logger:  logger,
	}, nil
}

// retrieveResponse is the RAG service's answer payload.
type retrieveResponse struct {
	Result string `json:"result"`
}

// Retrieve asks the RAG service to answer query from its document corpus.
func (c *Client) Retrieve(ctx context.Context, query string) (string, error) {
	u := c.baseURL + "/ask_wildlife/?query=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("querying retrieval service: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("reading retrieval response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("retrieval service returned status %d", resp.StatusCode)
	}

	var parsed retrieveResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("decoding retrieval response: %w", err)
	}
	return parsed.Result, nil
}
