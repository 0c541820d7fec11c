// Package generator is the HTTP client for the external AI content
// service. Prompting and model choice live there; this service only sends
// the product brief and stores what comes back.
package generator

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
	defaultBaseURL = "http://localhost:8001"
	defaultTimeout = 60 * time.Second
)

// Client is a content generation API client
type Client struct {
	baseURL    string
	apiKey     string
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

// WithAPIKey sets the bearer token sent with every request
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// New creates a new generator client
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

// GenerateInput is the product brief sent to the generation service
type GenerateInput struct {
	ProductName   string `json:"product_name"`
	ProductLink   string `json:"product_link,omitempty"`
	PagePersona   string `json:"page_persona,omitempty"`
	SourceContent string `json:"source_content,omitempty"`
}

// GenerateOutput is a bait-and-hook pair produced by the service
type GenerateOutput struct {
	Bait           string `json:"bait"`
	Hook           string `json:"hook"`
	SuggestedImage string `json:"suggested_image"`
}

// Generate requests a bait post and hook comment for one product
func (c *Client) Generate(ctx context.Context, in GenerateInput) (*GenerateOutput, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

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
		return nil, fmt.Errorf("generator error (status %d): %s", resp.StatusCode, string(body))
	}

	var out GenerateOutput
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if out.Bait == "" {
		return nil, fmt.Errorf("generator returned no bait content")
	}

	return &out, nil
}
