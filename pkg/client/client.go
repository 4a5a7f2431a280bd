package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-kvdash/pkg/jsonvalue"
)

// StatusOK is the status the store reports for an accepted write.
const StatusOK = "ok"

// DefaultTimeout bounds a single store round trip when no *http.Client is
// injected.
const DefaultTimeout = 10 * time.Second

// Client is the store API surface used by the dashboard views.
type Client interface {
	ListKeys(ctx context.Context) ([]string, error)
	GetValue(ctx context.Context, key string) (jsonvalue.Value, error)
	SetValue(ctx context.Context, key string, data jsonvalue.Value) (string, error)
	Delete(ctx context.Context, key string) (bool, error)
	Ping(ctx context.Context) error
	Purge(ctx context.Context) (bool, error)
}

// Option configures an HTTP.
type Option func(*HTTP)

// WithHTTPClient overrides the transport used for store calls.
func WithHTTPClient(h *http.Client) Option {
	return func(c *HTTP) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithTimeout sets the timeout of the default transport.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTP) {
		if d > 0 {
			c.httpClient = &http.Client{Timeout: d}
		}
	}
}

// WithHeaders adds headers to every request.
func WithHeaders(h http.Header) Option {
	return func(c *HTTP) {
		for k, values := range h {
			for _, v := range values {
				c.headers.Add(k, v)
			}
		}
	}
}

// WithContract validates every response body against contract.
func WithContract(contract *Contract) Option {
	return func(c *HTTP) {
		c.contract = contract
	}
}

// HTTP implements Client over the store's JSON HTTP API.
type HTTP struct {
	baseURL    string
	httpClient *http.Client
	headers    http.Header
	contract   *Contract
}

var _ Client = (*HTTP)(nil)

// New builds a client for the store reachable at baseURL.
func New(baseURL string, opts ...Option) (*HTTP, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("client: base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("client: invalid base URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("client: base URL %q must be absolute", baseURL)
	}

	c := &HTTP{
		baseURL:    strings.TrimRight(parsed.String(), "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		headers:    make(http.Header),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// BaseURL returns the normalised store address.
func (c *HTTP) BaseURL() string {
	return c.baseURL
}

type keysResponse struct {
	Keys []string `json:"keys"`
}

type getResponse struct {
	Data jsonvalue.Value `json:"data"`
}

type setResponse struct {
	Status string `json:"status"`
}

type deleteResponse struct {
	Deleted bool `json:"deleted"`
}

type pingResponse struct {
	Pong bool `json:"pong"`
}

type purgeResponse struct {
	Purged bool `json:"purged"`
}

// ListKeys returns every key in the order the store reports them.
func (c *HTTP) ListKeys(ctx context.Context) ([]string, error) {
	var out keysResponse
	if err := c.call(ctx, OpListKeys, "/keys", nil, &out); err != nil {
		return nil, err
	}
	if out.Keys == nil {
		return []string{}, nil
	}
	return out.Keys, nil
}

// GetValue returns the document stored under key. Missing keys yield null.
func (c *HTTP) GetValue(ctx context.Context, key string) (jsonvalue.Value, error) {
	if key == "" {
		return jsonvalue.Value{}, ErrEmptyKey
	}
	var out getResponse
	if err := c.call(ctx, OpGetValue, "/get/"+url.PathEscape(key), nil, &out); err != nil {
		return jsonvalue.Value{}, err
	}
	return out.Data, nil
}

// SetValue stores data under key and returns the status reported by the
// store, "ok" on success.
func (c *HTTP) SetValue(ctx context.Context, key string, data jsonvalue.Value) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	var out setResponse
	if err := c.call(ctx, OpSetValue, "/set/"+url.PathEscape(key), jsonvalue.Marshal(data), &out); err != nil {
		return "", err
	}
	return out.Status, nil
}

// Delete removes key and reports whether it existed.
func (c *HTTP) Delete(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	var out deleteResponse
	if err := c.call(ctx, OpDelete, "/del/"+url.PathEscape(key), nil, &out); err != nil {
		return false, err
	}
	return out.Deleted, nil
}

// Ping checks that the store answers.
func (c *HTTP) Ping(ctx context.Context) error {
	var out pingResponse
	if err := c.call(ctx, OpPing, "/ping", nil, &out); err != nil {
		return err
	}
	if !out.Pong {
		return errors.New("client: store did not answer ping")
	}
	return nil
}

// Purge removes every key.
func (c *HTTP) Purge(ctx context.Context) (bool, error) {
	var out purgeResponse
	if err := c.call(ctx, OpPurge, "/purge", nil, &out); err != nil {
		return false, err
	}
	return out.Purged, nil
}

func (c *HTTP) call(ctx context.Context, operationID, path string, body []byte, out any) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("client: %s: build request: %w", operationID, err)
	}
	for k, values := range c.headers {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s: %w", operationID, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: %s: read response: %w", operationID, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode, Body: string(payload)}
	}

	if err := c.contract.ValidateResponse(operationID, payload); err != nil {
		return err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("client: %s: decode response: %w", operationID, err)
	}
	return nil
}
