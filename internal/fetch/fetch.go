// Package fetch retrieves raw page content for the extractors, either with a
// plain HTTP GET or through a headless-browser render for sites that build
// their listings with JavaScript.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"iisempleos/internal/config"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120 Safari/537.36"

// Error describes a failed page retrieval. One failed fetch never aborts the
// run; the orchestrator logs it and moves to the next site.
type Error struct {
	URL    string
	Mode   config.FetchMode
	Status int // HTTP status, 0 when the request never completed
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client performs static HTTP fetches with the headers the IIS sites expect.
type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// Get retrieves a page and returns its body as a string.
func (c *Client) Get(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &Error{URL: url, Mode: config.ModeStatic, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "es-ES,es;q=0.9,en;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &Error{URL: url, Mode: config.ModeStatic, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{URL: url, Mode: config.ModeStatic, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &Error{URL: url, Mode: config.ModeStatic, Err: err}
	}
	return string(body), nil
}
