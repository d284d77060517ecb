// Package enrich attaches optional third-party lookups to an answer:
// research papers from Semantic Scholar and illustrative images from
// Pixabay. Both are best-effort decorations; failures degrade to empty
// results and never fail the surrounding request.
package enrich

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

// DefaultImageURL is returned when the image search yields nothing usable.
const DefaultImageURL = "https://cdn.pixabay.com/photo/2017/06/06/22/08/bird-2376974_1280.jpg"

const (
	resultsPerLookup = 3
	maxLookupBytes   = 1 << 20
)

// Paper is one research-paper search result.
type Paper struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	URL      string `json:"url"`
}

// Config contains the parameters for creating a Client.
type Config struct {
	PixabayAPIKey  string // empty disables image search
	PixabayBaseURL string // default "https://pixabay.com/api/"
	ScholarBaseURL string // default "https://api.semanticscholar.org/graph/v1"

	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client performs the enrichment lookups. Safe for concurrent use.
type Client struct {
	pixabayKey  string
	pixabayBase string
	scholarBase string
	httpc       *http.Client
	logger      *slog.Logger
}

// NewClient creates a Client with defaults applied.
func NewClient(cfg Config) *Client {
	pixabayBase := cfg.PixabayBaseURL
	if pixabayBase == "" {
		pixabayBase = "https://pixabay.com/api/"
	}
	scholarBase := cfg.ScholarBaseURL
	if scholarBase == "" {
		scholarBase = "https://api.semanticscholar.org/graph/v1"
	}
	httpc := cfg.HTTPClient
	if httpc == nil {
		httpc = &http.Client{Timeout: 15 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		pixabayKey:  cfg.PixabayAPIKey,
		pixabayBase: pixabayBase,
		scholarBase: scholarBase,
		httpc:       httpc,
		logger:      logger,
	}
}

// Papers searches Semantic Scholar for papers matching the query.
func (c *Client) Papers(ctx context.Context, query string) ([]Paper, error) {
	params := url.Values{
		"query":  {query},
		"limit":  {fmt.Sprint(resultsPerLookup)},
		"fields": {"title,abstract,url"},
	}
	body, err := c.get(ctx, c.scholarBase+"/paper/search?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("paper search: %w", err)
	}

	data := gjson.GetBytes(body, "data")
	if !data.Exists() {
		c.logger.Debug("paper search response missing data key")
		return []Paper{}, nil
	}

	// Non-nil even when empty so the payload serializes as [].
	papers := make([]Paper, 0, len(data.Array()))
	for _, p := range data.Array() {
		papers = append(papers, Paper{
			Title:    p.Get("title").String(),
			Abstract: p.Get("abstract").String(),
			URL:      p.Get("url").String(),
		})
	}
	return papers, nil
}

// Images searches Pixabay for photos matching the query. Any miss — no
// hits, no usable URLs, or a failed lookup — yields the fixed default
// image rather than nothing. Only a missing API key is an error.
func (c *Client) Images(ctx context.Context, query string) ([]string, error) {
	if c.pixabayKey == "" {
		return nil, errors.New("pixabay API key not configured")
	}

	params := url.Values{
		"key":        {c.pixabayKey},
		"q":          {query},
		"image_type": {"photo"},
		"per_page":   {fmt.Sprint(resultsPerLookup)},
	}
	body, err := c.get(ctx, c.pixabayBase+"?"+params.Encode())
	if err != nil {
		c.logger.Warn("image search failed, using default image", "error", err)
		return []string{DefaultImageURL}, nil
	}

	var urls []string
	for _, hit := range gjson.GetBytes(body, "hits").Array() {
		if u := hit.Get("webformatURL").String(); u != "" {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		return []string{DefaultImageURL}, nil
	}
	return urls, nil
}

// get performs one GET request and returns the response body.
func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLookupBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return body, nil
}
