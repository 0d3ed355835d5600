package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Fetcher downloads the raw announcement document from a URL. A single
// attempt is made per call; retry policy, if any, belongs to the caller.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Client is a thin HTTP client for fetching announcement documents.
// It performs exactly one GET per Fetch and treats any non-2xx status
// as an error.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a fetch client whose requests are bounded by timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch performs a single HTTP GET and returns the response body.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d on GET %s", resp.StatusCode, url)
	}

	return body, nil
}
