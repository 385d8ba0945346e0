package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/gravitrone/gerby-reader/internal/content"
)

// Browse lists the chapters from /api/browse.
func (c *Client) Browse(ctx context.Context) ([]content.Summary, error) {
	data, err := c.get(ctx, "/browse")
	if err != nil {
		return nil, err
	}
	var resp struct {
		Chapters []content.Summary `json:"chapters"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return resp.Chapters, nil
}

// Search runs a full-text query against /api/search.
func (c *Client) Search(ctx context.Context, query string) ([]content.Summary, error) {
	path := "/search"
	if query != "" {
		path += "?" + url.Values{"q": {query}}.Encode()
	}
	data, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	var resp struct {
		Results []content.Summary `json:"results"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return resp.Results, nil
}

// Index lists every tag from /api/.
func (c *Client) Index(ctx context.Context) ([]content.Summary, error) {
	data, err := c.get(ctx, "/")
	if err != nil {
		return nil, err
	}
	var resp struct {
		Tags []content.Summary `json:"tags"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return resp.Tags, nil
}
