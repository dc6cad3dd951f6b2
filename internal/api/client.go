// Package api implements the HTTP client for the outlai backend.
//
// The client owns a cookie jar so the session credential set by the
// login endpoint rides on every subsequent request. Apart from that jar
// the client is stateless: each call is one request, one decoded
// response, no retries and no caching.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"outlai/internal/log"
)

const previewLimit = 100

// Client performs JSON requests against the backend's base endpoint.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

// RequestOptions customizes a single request. The zero value is a plain
// GET with no body, params or extra headers.
type RequestOptions struct {
	Body    any
	Params  url.Values
	Headers map[string]string
}

// New creates a client for the given base URL. The base URL must have
// been validated by config; a broken cookie jar is a programming error
// and surfaces as an error here rather than a panic later.
func New(baseURL string, timeout time.Duration, logger *log.Logger) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig()).WithComponent(log.ComponentAPI)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Jar:       jar,
			Transport: newTracingTransport(nil, logger),
		},
		logger: logger,
	}, nil
}

// Get performs a GET request and decodes the response into out.
func (c *Client) Get(ctx context.Context, path string, opts RequestOptions, out any) error {
	return c.Do(ctx, http.MethodGet, path, opts, out)
}

// Post performs a POST request and decodes the response into out.
func (c *Client) Post(ctx context.Context, path string, opts RequestOptions, out any) error {
	return c.Do(ctx, http.MethodPost, path, opts, out)
}

// Put performs a PUT request and decodes the response into out.
func (c *Client) Put(ctx context.Context, path string, opts RequestOptions, out any) error {
	return c.Do(ctx, http.MethodPut, path, opts, out)
}

// Delete performs a DELETE request and decodes the response into out.
func (c *Client) Delete(ctx context.Context, path string, opts RequestOptions, out any) error {
	return c.Do(ctx, http.MethodDelete, path, opts, out)
}

// Do performs a request against the backend and decodes the JSON
// response into out, which may be nil when the caller expects no body.
//
// Error taxonomy: transport failures come back wrapped but otherwise
// untouched; non-2xx statuses become *RequestError carrying the parsed
// error payload; malformed JSON on a success status becomes *ParseError.
// A 204 or empty body leaves out untouched.
func (c *Client) Do(ctx context.Context, method, path string, opts RequestOptions, out any) error {
	endpoint := c.baseURL + path
	if len(opts.Params) > 0 {
		endpoint += "?" + opts.Params.Encode()
	}

	var bodyReader io.Reader
	if opts.Body != nil {
		encoded, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if opts.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.requestError(resp.StatusCode, raw)
	}

	if resp.StatusCode == http.StatusNoContent || len(raw) == 0 {
		return nil
	}

	if out == nil {
		out = &json.RawMessage{}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ParseError{Preview: truncate(string(raw), previewLimit), Err: err}
	}
	return nil
}

// requestError builds a RequestError from a non-2xx response. The error
// payload is parsed leniently: anything that is not a JSON object
// degrades to an empty map.
func (c *Client) requestError(status int, raw []byte) error {
	body := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &body); err != nil {
			body = map[string]any{}
		}
	}
	return &RequestError{Status: status, Body: body}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
