package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client wraps HTTP operations against the catalog and artwork hosts.
//
// Client provides:
//   - A browser-like User-Agent header (the catalog serves a reduced page
//     to unknown clients)
//   - Timeout handling
//   - Page fetches and in-memory downloads for cover art
//
// Example usage:
//
//	client := NewClient()
//
//	// Fetch a song page
//	html, err := client.GetString(ctx, "https://www.jiosaavn.com/song/kesariya/...")
//
//	// Download cover art
//	art, err := client.DownloadBytes(ctx, meta.CoverArtURL)
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client configured for the catalog.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		userAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
	}
}

// StatusError is returned for non-200 responses so callers can distinguish
// a missing page from a transport failure.
type StatusError struct {
	Code   int
	Status string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Status)
}

// NotFound reports whether the response was a 404.
func (e *StatusError) NotFound() bool {
	return e.Code == http.StatusNotFound
}

// Get performs a GET request and returns the response body as bytes.
//
// Returns a *StatusError when the response status is not 200 OK.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	return io.ReadAll(resp.Body)
}

// GetString performs a GET request and returns the response body as a string.
//
// This is a convenience wrapper around Get for fetching text content like
// the catalog's HTML pages.
func (c *Client) GetString(ctx context.Context, url string) (string, error) {
	body, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// DownloadBytes downloads a file and returns the bytes in memory.
//
// Use this for small files like cover art images; audio streams are handled
// by the fetcher, not this client.
func (c *Client) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	return c.Get(ctx, url)
}
