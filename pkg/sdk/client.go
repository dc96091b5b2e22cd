package moviedex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	httpClient *http.Client
	logger     *slog.Logger
	token      string
}

// WithHTTPClient sets a custom HTTP client. Default: 10s timeout.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// Client is the moviedex SDK entry point.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	token      string
}

// New creates a moviedex API client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: cfg.httpClient,
		logger:     cfg.logger,
		token:      cfg.token,
	}
}

// WithToken returns a copy of the client that authenticates with the token.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

// Health checks API availability. The report is returned even when the
// server answers 503 for a degraded component.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var status HealthStatus
	err := c.do(ctx, http.MethodGet, "/health", nil, nil, &status)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable {
			if jsonErr := json.Unmarshal(apiErr.body, &status); jsonErr == nil {
				return status, nil
			}
		}
		return HealthStatus{}, err
	}
	return status, nil
}

// do performs one API round trip and decodes the response into out.
// For enveloped endpoints out receives the envelope itself.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("moviedex: encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return fmt.Errorf("moviedex: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("moviedex: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if c.logger != nil {
		c.logger.Debug("api request",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"latency", time.Since(start),
		)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("moviedex: read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return apiErrorFrom(resp.StatusCode, data)
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("moviedex: decode response: %w", err)
		}
	}
	return nil
}

// doEnveloped unwraps the {success, data} envelope into out.
func (c *Client) doEnveloped(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	if err := c.do(ctx, method, path, query, body, &envelope); err != nil {
		return err
	}
	if !envelope.Success {
		return &APIError{StatusCode: http.StatusOK, Message: "unexpected failure envelope"}
	}
	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("moviedex: decode data: %w", err)
		}
	}
	return nil
}
