package widget

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"
)

// Item is one catalog entry as served by the query endpoint
type Item struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
	Ext   string `json:"ext"`
}

// LogEntry is the payload of a download-log call
type LogEntry struct {
	Email    string `json:"email,omitempty"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`
	FileName string `json:"filename"`
	Title    string `json:"title,omitempty"`
	URL      string `json:"url,omitempty"`
	Nonce    string `json:"nonce,omitempty"`
}

// QueryClient is the engine's view of the backend. The HTTP implementation
// below speaks the production contract; tests substitute their own.
type QueryClient interface {
	// Query fetches the catalog entries for a term and taxonomy filter,
	// ordered by title ascending.
	Query(ctx context.Context, term string, taxonomySlugs []string) ([]Item, error)

	// Log records a download. Callers treat it as best-effort.
	Log(ctx context.Context, entry LogEntry) error
}

// HTTPClient talks to the query and log endpoints
type HTTPClient struct {
	queryURL string
	logURL   string
	nonce    string
	client   *http.Client
}

// NewHTTPClient creates a client for the given endpoints. The nonce is sent
// both as a header and in log bodies, matching what the endpoints accept.
func NewHTTPClient(queryURL, logURL, nonce string) *HTTPClient {
	jar, _ := cookiejar.New(nil)
	return &HTTPClient{
		queryURL: queryURL,
		logURL:   logURL,
		nonce:    nonce,
		client: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}
}

type queryPayload struct {
	Search string   `json:"search"`
	Tax    []string `json:"tax"`
	Nonce  string   `json:"nonce,omitempty"`
}

// Query implements QueryClient
func (c *HTTPClient) Query(ctx context.Context, term string, taxonomySlugs []string) ([]Item, error) {
	body, err := c.post(ctx, c.queryURL, queryPayload{
		Search: term,
		Tax:    taxonomySlugs,
		Nonce:  c.nonce,
	})
	if err != nil {
		return nil, err
	}

	// A malformed body counts as an empty result set, not a failure.
	var items []Item
	if err := json.Unmarshal(body, &items); err != nil {
		return []Item{}, nil
	}
	if items == nil {
		items = []Item{}
	}
	return items, nil
}

// Log implements QueryClient
func (c *HTTPClient) Log(ctx context.Context, entry LogEntry) error {
	if entry.Nonce == "" {
		entry.Nonce = c.nonce
	}
	_, err := c.post(ctx, c.logURL, entry)
	return err
}

func (c *HTTPClient) post(ctx context.Context, url string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.nonce != "" {
		req.Header.Set("X-Doc-Nonce", c.nonce)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("endpoint returned %d", resp.StatusCode)
	}
	return body, nil
}
