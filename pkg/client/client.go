// Package client is a small Go client for the Evvalley search API.
package client

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

// Client talks to a running search API instance.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithAPIKey sends a Bearer token with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// New creates a client for the given base URL, e.g. "https://api.evvalley.com".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchParams parses a free-text query into URL search parameters.
func (c *Client) SearchParams(ctx context.Context, query string) (string, error) {
	var resp struct {
		Params string `json:"params"`
	}
	err := c.post(ctx, "/api/search", map[string]any{"q": query}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Params, nil
}

// Vehicle is one search result.
type Vehicle struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Brand      string   `json:"brand"`
	Model      string   `json:"model"`
	Year       int      `json:"year"`
	Price      float64  `json:"price"`
	Mileage    *int     `json:"mileage"`
	Location   string   `json:"location"`
	Category   string   `json:"category"`
	Color      *string  `json:"color"`
	Images     []string `json:"images"`
	Similarity float64  `json:"similarity"`
}

// SemanticFilters are optional explicit constraints sent with a semantic
// search.
type SemanticFilters struct {
	Brand      string `json:"brand,omitempty"`
	Model      string `json:"model,omitempty"`
	Color      string `json:"color,omitempty"`
	City       string `json:"city,omitempty"`
	MaxPrice   int    `json:"maxPrice,omitempty"`
	MaxMileage int    `json:"maxMileage,omitempty"`
}

// SemanticResult is the semantic search response. Error carries a stable
// tag such as "missing_openai_key" when the pipeline degraded.
type SemanticResult struct {
	Vehicles []Vehicle `json:"vehicles"`
	Semantic bool      `json:"semantic"`
	Params   string    `json:"params"`
	Error    string    `json:"error"`
}

// SemanticSearch runs a semantic vehicle search. category may be empty for
// cross-category results.
func (c *Client) SemanticSearch(ctx context.Context, query, category string, filters *SemanticFilters) (SemanticResult, error) {
	body := map[string]any{"q": query}
	if category != "" {
		body["category"] = category
	}
	if filters != nil {
		body["filters"] = filters
	}

	var resp SemanticResult
	if err := c.post(ctx, "/api/semantic-search", body, &resp); err != nil {
		return SemanticResult{}, err
	}
	return resp, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Status: resp.StatusCode, Body: string(data)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// APIError is a non-200 response from the API.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("search api: status %d: %s", e.Status, e.Body)
}
