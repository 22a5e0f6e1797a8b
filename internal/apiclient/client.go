// Package apiclient implements service.Service over the task server's REST API.
//
// Every call goes through one pipeline: the stored bearer credential is
// attached when present, and a 401 response clears the local session and
// sends the host to the login entry point before the error is returned.
// Nothing is retried.
package apiclient

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

	"github.com/google/uuid"
	"go.uber.org/zap"

	"todo/internal/auth"
	"todo/internal/perf"
	"todo/internal/service"
	"todo/internal/storage"
)

const (
	// DefaultBaseURL is used when Options.BaseURL is empty.
	DefaultBaseURL = "http://localhost:8000/api"

	// LoginPath is the entry point passed to OnUnauthorized.
	LoginPath = "/login"

	// RequestIDHeader carries a per-request id for server-side correlation.
	RequestIDHeader = "X-Request-ID"

	// maxBodySize bounds how much of a response body is read.
	maxBodySize = 10 << 20
)

// Options configures a Client.
type Options struct {
	// BaseURL is the API root; paths are appended to it verbatim.
	BaseURL string

	// Store holds the credential and cached user. Required.
	Store storage.Store

	// OnUnauthorized is invoked once per 401 response, after the local
	// session has been cleared, with LoginPath.
	OnUnauthorized func(path string)

	// HTTPClient is the underlying client. Its transport is wrapped, not replaced.
	HTTPClient *http.Client

	// Timeout bounds each call. Zero leaves the call to run until ctx ends.
	Timeout time.Duration

	Logger  *zap.Logger
	Monitor *perf.Monitor
}

// Client is the authenticated API client. It is safe for concurrent use.
type Client struct {
	baseURL        string
	http           *http.Client
	store          storage.Store
	onUnauthorized func(path string)
	logger         *zap.Logger
	monitor        *perf.Monitor
}

var _ service.Service = (*Client)(nil)

// New creates a Client.
func New(opts Options) (*Client, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("apiclient: store is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("apiclient: invalid base URL: %q", opts.BaseURL)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var httpClient http.Client
	if opts.HTTPClient != nil {
		httpClient = *opts.HTTPClient
	}
	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	httpClient.Transport = &authTransport{base: base, store: opts.Store, host: u.Host, logger: logger}
	if opts.Timeout > 0 {
		httpClient.Timeout = opts.Timeout
	}

	return &Client{
		baseURL:        baseURL,
		http:           &httpClient,
		store:          opts.Store,
		onUnauthorized: opts.OnUnauthorized,
		logger:         logger,
		monitor:        opts.Monitor,
	}, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends one request to BaseURL+path. body, when non-nil, is sent as JSON;
// a 2xx response body is decoded into out when out is non-nil.
//
// A 401 response clears the stored session and invokes OnUnauthorized
// before returning an error that matches ErrUnauthorized. Other non-2xx
// responses return *APIError without side effects.
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err))
		return &NetworkError{Method: method, Path: path, Err: unwrapURLError(err)}
	}
	defer resp.Body.Close()

	data, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))

	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode == http.StatusUnauthorized {
		c.handleUnauthorized(ctx)
		return &APIError{StatusCode: resp.StatusCode, Message: extractMessage(data, resp.StatusCode)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: extractMessage(data, resp.StatusCode)}
	}

	if readErr != nil {
		return &NetworkError{Method: method, Path: path, Err: readErr}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("invalid response from %s %s: %w", method, path, err)
	}
	return nil
}

// handleUnauthorized clears the local session and notifies the host.
// It runs once per 401 response; concurrent 401s each run it.
func (c *Client) handleUnauthorized(ctx context.Context) {
	if err := auth.Clear(context.WithoutCancel(ctx), c.store); err != nil {
		c.logger.Warn("failed to clear session after 401", zap.Error(err))
	}
	c.logger.Debug("unauthorized; redirecting", zap.String("to", LoginPath))
	if c.onUnauthorized != nil {
		c.onUnauthorized(LoginPath)
	}
}

// call wraps Do with the performance monitor.
func (c *Client) call(ctx context.Context, label, method, path string, body, out interface{}) error {
	return c.monitor.Measure(label, func() error {
		return c.Do(ctx, method, path, body, out)
	})
}

// unwrapURLError drops the *url.Error wrapper, whose text repeats the URL.
func unwrapURLError(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) {
		return uerr.Err
	}
	return err
}

func escape(id string) string {
	return url.PathEscape(id)
}
