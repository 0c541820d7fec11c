// Package shortener is the HTTP client for the public URL-shortening
// services. Each link creation rotates uniformly across the providers;
// selection and rotation live here, the services themselves are external.
package shortener

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 5 * time.Second

// Service is one shortening provider. Endpoint is a printf template that
// receives the query-escaped target URL and responds with the short URL as
// plain text.
type Service struct {
	Name     string
	Endpoint string
}

// DefaultServices are the rotated providers
var DefaultServices = []Service{
	{Name: "tinyurl", Endpoint: "https://tinyurl.com/api-create.php?url=%s"},
	{Name: "is.gd", Endpoint: "https://is.gd/create.php?format=simple&url=%s"},
	{Name: "clck.ru", Endpoint: "https://clck.ru/--?url=%s"},
}

// Client shortens URLs through rotating external services
type Client struct {
	services   []Service
	httpClient *http.Client
}

// ClientOption is a function that configures the Client
type ClientOption func(*Client)

// WithServices replaces the provider list
func WithServices(services []Service) ClientOption {
	return func(c *Client) {
		c.services = services
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// New creates a new shortener client
func New(opts ...ClientOption) *Client {
	c := &Client{
		services: DefaultServices,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Shorten picks a provider at random and asks it to shorten rawURL,
// falling back to the first provider when the pick fails. The returned
// provider name goes into the link's shortener field.
func (c *Client) Shorten(ctx context.Context, rawURL string) (string, string, error) {
	if len(c.services) == 0 {
		return "", "", fmt.Errorf("no shortening services configured")
	}

	svc := c.services[rand.Intn(len(c.services))]
	short, err := c.request(ctx, svc, rawURL)
	if err == nil {
		return short, svc.Name, nil
	}

	// Fallback: the first provider is the most reliable one.
	fallback := c.services[0]
	if fallback.Name != svc.Name {
		if short, ferr := c.request(ctx, fallback, rawURL); ferr == nil {
			return short, fallback.Name, nil
		}
	}

	return "", "", fmt.Errorf("shortening via %s: %w", svc.Name, err)
}

func (c *Client) request(ctx context.Context, svc Service, rawURL string) (string, error) {
	endpoint := fmt.Sprintf(svc.Endpoint, url.QueryEscape(rawURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%s returned status %d", svc.Name, resp.StatusCode)
	}

	short := strings.TrimSpace(string(body))
	if short == "" {
		return "", fmt.Errorf("%s returned an empty body", svc.Name)
	}

	return short, nil
}
