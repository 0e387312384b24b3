// Package transport posts SOAP envelopes over HTTP and returns the raw
// response body for decoding. It knows nothing about the schema; fault
// recognition happens in the decoder.
package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// CallHook provides observability callpoints around SOAP calls.
// Implementations must be safe for concurrent use.
type CallHook interface {
	OnCallStart(ctx context.Context, info CallInfo) (context.Context, HookToken)
	OnCallEnd(ctx context.Context, token HookToken, info CallInfo, result CallResult, err error)
}

// HookToken is an opaque value returned by OnCallStart and passed back to
// OnCallEnd. Only meaningful to the CallHook that created it.
type HookToken interface{}

// CallInfo carries per-call metadata passed to hooks.
type CallInfo struct {
	Endpoint     string
	Action       string // SOAPAction header value (unquoted)
	RequestBytes int
}

// CallResult carries per-call outcome counters passed to hooks.
type CallResult struct {
	StatusCode    int
	ResponseBytes int
	Elapsed       time.Duration
}

// Client posts envelopes to a single endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	hooks    []CallHook
}

// Option configures a Client at construction.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (timeouts, proxies,
// TLS configuration).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithHook registers an observability hook.
func WithHook(h CallHook) Option {
	return func(c *Client) {
		if h != nil {
			c.hooks = append(c.hooks, h)
		}
	}
}

// New builds a Client for endpoint.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddHook registers an observability hook after construction.
func (c *Client) AddHook(h CallHook) {
	if h != nil {
		c.hooks = append(c.hooks, h)
	}
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string { return c.endpoint }

// Call posts the envelope with the given SOAP action and returns the raw
// response body. HTTP 500 bodies are returned, not rejected: SOAP servers
// report faults that way and the decoder recognizes them.
func (c *Client) Call(ctx context.Context, action string, envelope []byte) ([]byte, error) {
	info := CallInfo{Endpoint: c.endpoint, Action: action, RequestBytes: len(envelope)}

	type started struct {
		hook  CallHook
		token HookToken
	}
	running := make([]started, 0, len(c.hooks))
	for _, h := range c.hooks {
		next, token := h.OnCallStart(ctx, info)
		if next != nil {
			ctx = next
		}
		running = append(running, started{hook: h, token: token})
	}

	begin := time.Now()
	body, status, err := c.post(ctx, action, envelope)
	result := CallResult{StatusCode: status, ResponseBytes: len(body), Elapsed: time.Since(begin)}

	for i := len(running) - 1; i >= 0; i-- {
		running[i].hook.OnCallEnd(ctx, running[i].token, info, result, err)
	}
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) post(ctx context.Context, action string, envelope []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(envelope))
	if err != nil {
		return nil, 0, fmt.Errorf("transport: building request: %w", err)
	}
	req.Header.Set("Content-Type", `text/xml; charset="utf-8"`)
	req.Header.Set("SOAPAction", `"`+action+`"`)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("transport: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("transport: reading response: %w", err)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusInternalServerError {
		return nil, resp.StatusCode, fmt.Errorf("transport: unexpected status %d from %s", resp.StatusCode, c.endpoint)
	}
	return body, resp.StatusCode, nil
}
