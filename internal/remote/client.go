// Package remote is a minimal HTTP client for the inference API.
//
// The API takes the raw bytes of a preview image and answers with a JSON
// document; this client never inspects either side of that exchange.
package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client posts preview bytes to one inference API endpoint.
type Client struct {
	baseURL *url.URL
	http    *http.Client
}

// NewClient constructs a client for the given API base URL. The timeout
// bounds each request end to end; redirects and retries are not followed.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func parseBaseURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("api base URL is required")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse api base URL: %w", err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("api base URL %q has no host", raw)
	}
	return u, nil
}

// Host returns the host component of an API base URL, applying the same
// normalization as NewClient.
func Host(raw string) (string, error) {
	u, err := parseBaseURL(raw)
	if err != nil {
		return "", err
	}
	return strings.ToLower(u.Host), nil
}

// Post sends data as an opaque binary body to apiPath and returns the
// response body verbatim. Any status outside [100, 300) is returned as a
// *StatusError; transport failures come back as the underlying error.
func (c *Client) Post(ctx context.Context, apiPath, contentType string, data []byte) ([]byte, error) {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + strings.TrimLeft(apiPath, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 100 || resp.StatusCode >= 300 {
		return nil, newStatusError(apiPath, resp.StatusCode, b)
	}
	return b, nil
}
