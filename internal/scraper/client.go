// internal/scraper/client.go
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Client performs single-shot page fetches against the journal platform.
// Each fetch is one GET with a fixed timeout and an identifying
// User-Agent; there is no retry, rate limiting, or connection reuse
// policy beyond the transport defaults.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// ClientConfig defines configuration options for the fetch client
type ClientConfig struct {
	UserAgent string
	Timeout   time.Duration
}

// NewClient creates a new fetch client with the specified configuration
func NewClient(config ClientConfig) *Client {
	if config.Timeout == 0 {
		config.Timeout = 20 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "JournalScrapexter/1.0"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: config.UserAgent,
	}
}

// FetchDocument fetches a page and parses it into a goquery document.
// Transport errors and non-success status codes are both returned as
// errors; callers surface them per URL and continue.
func (c *Client) FetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	if _, err := url.Parse(pageURL); err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc, nil
}
