// Package api implements the HTTP client for the TallyBridge backend's
// REST API: sync control, report data, and company management.
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

	"github.com/tallybridge/tallybridge/internal/common"
)

const defaultTimeout = 30 * time.Second

// Config holds the client's connection settings.
type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
}

// Client talks to one TallyBridge backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient validates the configuration and builds a client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: backend base URL is required", common.ErrMissingConfig)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// BackendError is a non-2xx response with a structured error payload.
type BackendError struct {
	Message    string
	StatusCode int
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

// errorBody is the backend's error payload; different routes use
// different field names.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Err     string `json:"error"`
}

func (b errorBody) text(fallback string) string {
	switch {
	case b.Detail != "":
		return b.Detail
	case b.Message != "":
		return b.Message
	case b.Err != "":
		return b.Err
	}
	return fallback
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBackendUnreachable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, common.ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var payload errorBody
		_ = json.Unmarshal(body, &payload)
		return nil, &BackendError{
			StatusCode: resp.StatusCode,
			Message:    payload.text(http.StatusText(resp.StatusCode)),
		}
	}

	return body, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	body, err := c.do(ctx, http.MethodGet, path, query)
	if err != nil {
		return err
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, query url.Values) error {
	_, err := c.do(ctx, http.MethodPost, path, query)
	return err
}

// unwrapList extracts the record array from a report payload. Different
// report routes wrap the array under data, rows, or an entity key; some
// return a bare array. out must be a pointer to a slice.
func unwrapList(body []byte, out any, keys ...string) error {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		return json.Unmarshal(body, out)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("failed to decode report envelope: %w", err)
	}

	for _, key := range append(keys, "data", "rows") {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		trimmedRaw := strings.TrimSpace(string(raw))
		if strings.HasPrefix(trimmedRaw, "[") {
			return json.Unmarshal(raw, out)
		}
		// Some routes nest once more: {"data": {"companies": [...]}}.
		var nested map[string]json.RawMessage
		if err := json.Unmarshal(raw, &nested); err == nil {
			for _, innerKey := range keys {
				if inner, found := nested[innerKey]; found {
					return json.Unmarshal(inner, out)
				}
			}
		}
	}

	return fmt.Errorf("report payload has no recognizable list key (tried %v)", keys)
}
