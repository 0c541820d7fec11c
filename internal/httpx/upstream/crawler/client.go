// Package crawler is the HTTP client for the external crawl service, which
// owns all scraping. This service never parses forum HTML itself.
package crawler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL = "http://localhost:8000"
	defaultTimeout = 30 * time.Second
)

// Client is a crawl service API client
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption is a function that configures the Client
type ClientOption func(*Client)

// WithBaseURL sets a custom base URL
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a new crawl service client
func New(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Thread is one crawled thread as the crawl service reports it
type Thread struct {
	ID        string `json:"id"`
	Source    string `json:"source"`
	Title     string `json:"title"`
	URL       string `json:"url"`
	Author    string `json:"author"`
	Replies   int    `json:"replies"`
	Views     string `json:"views"`
	Time      string `json:"time"`
	Prefix    string `json:"prefix"`
	Content   string `json:"content"`
	Thumbnail string `json:"thumbnail"`
	Score     int    `json:"score"`
}

// CrawlResult is the response of a single-source crawl
type CrawlResult struct {
	Source     string   `json:"source"`
	SourceName string   `json:"sourceName"`
	SourceURL  string   `json:"sourceUrl"`
	Total      int      `json:"total"`
	New        int      `json:"new"`
	CrawledAt  string   `json:"crawledAt"`
	Threads    []Thread `json:"threads"`
}

// CrawlVoz triggers a crawl of the Voz forum
func (c *Client) CrawlVoz(ctx context.Context) (*CrawlResult, error) {
	var out CrawlResult
	if err := c.get(ctx, "/api/crawl/voz", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CrawlReddit triggers a crawl of the given subreddits (all defaults when empty)
func (c *Client) CrawlReddit(ctx context.Context, subs []string) (*CrawlResult, error) {
	params := url.Values{}
	if len(subs) > 0 {
		params.Set("subs", strings.Join(subs, ","))
	}

	var out CrawlResult
	if err := c.get(ctx, "/api/crawl/reddit", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CrawlAllResult is the response of a crawl across every source
type CrawlAllResult struct {
	Results   map[string]CrawlResult `json:"results"`
	TotalNew  int                    `json:"totalNew"`
	CrawledAt string                 `json:"crawledAt"`
}

// CrawlAll triggers a crawl of every source
func (c *Client) CrawlAll(ctx context.Context) (*CrawlAllResult, error) {
	var out CrawlAllResult
	if err := c.get(ctx, "/api/crawl/all", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ThreadContent fetches the detailed body of one thread on demand
func (c *Client) ThreadContent(ctx context.Context, threadID string) (string, error) {
	var out struct {
		Content string `json:"content"`
		Source  string `json:"source"`
	}
	if err := c.get(ctx, "/api/threads/"+url.PathEscape(threadID)+"/content", nil, &out); err != nil {
		return "", err
	}
	return out.Content, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("crawl service error (status %d): %s", resp.StatusCode, string(body))
	}

	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
