package icecast

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/net/html/charset"
)

const (
	// DefaultStatusURL is the status endpoint of the ncafters.live server.
	DefaultStatusURL = "https://ncafters.live/status-json.xsl"

	fetchTimeout = 6 * time.Second
	maxBodySize  = 1 << 20
)

// Client fetches status documents from one Icecast server.
type Client struct {
	statusURL string
	http      *http.Client
}

// NewClient creates a Client for statusURL. A nil hc gets a client with a
// request timeout.
func NewClient(statusURL string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: fetchTimeout}
	}
	return &Client{statusURL: statusURL, http: hc}
}

// URL returns the status endpoint.
func (c *Client) URL() string { return c.statusURL }

// Fetch downloads and decodes the status document.
func (c *Client) Fetch(ctx context.Context) (*Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.statusURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building status request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "afters")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching status: unexpected status %s", resp.Status)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("decoding status charset: %w", err)
	}

	var st Status
	if err := json.NewDecoder(body).Decode(&st); err != nil {
		return nil, fmt.Errorf("parsing status: %w", err)
	}
	return &st, nil
}

// FetchMount fetches the status document and returns the source for mount.
func (c *Client) FetchMount(ctx context.Context, mount string) (*Source, error) {
	st, err := c.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return FindMount(st, mount)
}
