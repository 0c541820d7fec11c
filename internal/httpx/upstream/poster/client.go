// Package poster is the HTTP client for the external social posting
// service, which holds the page tokens and talks to Facebook/Threads.
package poster

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "http://localhost:8002"
	defaultTimeout = 30 * time.Second
)

// Client is a posting service API client
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

// New creates a new posting service client
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

// APIError is an error reported by the posting service
type APIError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("posting service error: %s (code: %d)", e.Message, e.Code)
}

// PublishInput is one bait post plus its steering comment
type PublishInput struct {
	Platform string `json:"platform"` // FB or TH
	Message  string `json:"message"`
	Comment  string `json:"comment,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

// PublishOutput is the platform-assigned identity of the created post
type PublishOutput struct {
	PostID    string `json:"post_id"`
	Permalink string `json:"permalink"`
}

// Publish creates a post and its first comment on the target platform
func (c *Client) Publish(ctx context.Context, in PublishInput) (*PublishOutput, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/posts", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr APIError
		if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Message == "" {
			return nil, fmt.Errorf("posting service error (status %d): %s", resp.StatusCode, string(body))
		}
		return nil, &apiErr
	}

	var out PublishOutput
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &out, nil
}
