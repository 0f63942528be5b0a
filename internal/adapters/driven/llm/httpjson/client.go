// Package httpjson holds the request plumbing shared by the HTTP JSON LLM
// adapters (OpenAI, Anthropic, Ollama, Gemini).
package httpjson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/custodia-labs/ideabot/internal/core/domain"
)

// maxErrorBody caps how much of an error response is kept in StatusError.
const maxErrorBody = 2048

// Client posts JSON requests to one provider.
type Client struct {
	http     *http.Client
	provider string
	headers  map[string]string
}

// New creates a client. provider prefixes error messages; headers are sent
// with every request.
func New(provider string, timeout time.Duration, headers map[string]string) *Client {
	return &Client{
		http:     &http.Client{Timeout: timeout},
		provider: provider,
		headers:  headers,
	}
}

// NewWithTransport is New with requests sent through rt, such as a round
// tripper that adds credentials.
func NewWithTransport(provider string, timeout time.Duration, headers map[string]string, rt http.RoundTripper) *Client {
	c := New(provider, timeout, headers)
	c.http.Transport = rt
	return c
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: API returned status %d: %s", e.Provider, e.Code, e.Body)
}

// Unwrap maps throttling responses to domain.ErrRateLimited.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusTooManyRequests {
		return domain.ErrRateLimited
	}
	return nil
}

// PostJSON sends in as the JSON body and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, url string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

// Get issues a GET request and discards the body. Adapters use it for Ping.
func (c *Client) Get(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return fmt.Errorf("%s: failed to create ping request: %w", c.provider, err)
	}
	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("%s: ping failed: %w", c.provider, err)
	}
	return nil
}

func (c *Client) do(req *http.Request, out any) error {
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// The request URL may carry an API key.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			u := *req.URL
			u.RawQuery = ""
			err = fmt.Errorf("%s %s: %w", urlErr.Op, u.Redacted(), urlErr.Err)
		}
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		return &StatusError{Provider: c.provider, Code: resp.StatusCode, Body: string(bytes.TrimSpace(body))}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
