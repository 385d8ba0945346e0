package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gravitrone/gerby-reader/internal/content"
)

// Client wraps HTTP calls to the Gerby API.
type Client struct {
	baseURL    string
	callback   string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request. Zero means no timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithJSONP switches to the legacy JSONP contract using the given callback name.
func WithJSONP(callback string) Option {
	return func(c *Client) {
		c.callback = callback
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new API client for the given origin.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// URL builds the request URL for a content path.
func (c *Client) URL(path string) string {
	u := c.baseURL + "/api" + path
	if c.callback == "" {
		return u
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return u + sep + "callback=" + url.QueryEscape(c.callback)
}

// get executes a GET and returns the raw JSON body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &StatusError{Code: resp.StatusCode, Message: extractErrorMessage(body)}
	}

	if c.callback != "" {
		return unwrapJSONP(body, c.callback)
	}
	return body, nil
}

// Fetch loads the page at path and decodes it by its type field.
func (c *Client) Fetch(ctx context.Context, path string) (content.Content, error) {
	data, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	return content.Decode(data)
}

// StatusError is returned for HTTP responses with status >= 400.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d: %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Message)
}

func extractErrorMessage(body []byte) string {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(body))
	}
	for _, key := range []string{"error", "detail", "message"} {
		if msg, ok := parseErrorValue(payload[key]); ok {
			return msg
		}
	}
	return ""
}

func parseErrorValue(raw any) (string, bool) {
	switch value := raw.(type) {
	case string:
		msg := strings.TrimSpace(value)
		return msg, msg != ""
	case map[string]any:
		if nested, ok := parseErrorValue(value["message"]); ok {
			return nested, true
		}
		return parseErrorValue(value["error"])
	}
	return "", false
}

// unwrapJSONP strips `callback(...)` and an optional trailing semicolon.
func unwrapJSONP(body []byte, callback string) ([]byte, error) {
	s := strings.TrimSpace(string(body))
	s = strings.TrimPrefix(s, "/**/")
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, callback+"(") {
		// Servers without JSONP support answer with the bare document.
		if json.Valid([]byte(s)) {
			return []byte(s), nil
		}
		return nil, fmt.Errorf("decode jsonp: missing %s( wrapper", callback)
	}
	s = strings.TrimSuffix(s, ";")
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("decode jsonp: unterminated %s( wrapper", callback)
	}
	return []byte(s[len(callback)+1 : len(s)-1]), nil
}
