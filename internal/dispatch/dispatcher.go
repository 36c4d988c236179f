// Package dispatch turns an endpoint descriptor plus call arguments into a
// single Square API request and returns the raw response body.
package dispatch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bobmcallan/square-mcp/internal/common"
	"github.com/bobmcallan/square-mcp/internal/endpoint"
)

// maxResponseSize caps the response body read from Square.
const maxResponseSize = 50 << 20 // 50MB

// EmptySuccess is returned for a 2xx response without a body.
const EmptySuccess = `{"success": true}`

// Dispatcher executes Square API calls described by endpoint descriptors.
// It holds no per-call state and is safe for concurrent use.
type Dispatcher struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	version    string
	userAgent  string
	metrics    *Metrics
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithHTTPClient replaces the default client. The default has no timeout.
func WithHTTPClient(c *http.Client) Option {
	return func(d *Dispatcher) { d.httpClient = c }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *common.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithSquareVersion sets the Square-Version header.
func WithSquareVersion(v string) Option {
	return func(d *Dispatcher) { d.version = v }
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(d *Dispatcher) { d.userAgent = ua }
}

// WithMetrics records every dispatch on m.
func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// New creates a Dispatcher that sends requests to baseURL.
func New(baseURL string, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		version:    "2025-04-16",
		userAgent:  "square-mcp",
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = common.NewSilentLogger()
	}
	return d
}

// BaseURL returns the configured base URL.
func (d *Dispatcher) BaseURL() string {
	return d.baseURL
}

// Dispatch builds the request for desc from args, sends it with credential as
// the bearer token and returns the response body as text.
//
// A missing required path parameter fails with *MissingParameterError before
// anything is sent. A non-2xx status fails with *APIError and a network
// failure with *TransportError. An empty 2xx body yields EmptySuccess.
func (d *Dispatcher) Dispatch(ctx context.Context, desc endpoint.Descriptor, credential string, args Args) (string, error) {
	r, err := Build(desc, args)
	if err != nil {
		var missing *MissingParameterError
		if errors.As(err, &missing) {
			d.metrics.count(desc, outcomeMissingParameter)
		} else {
			d.metrics.count(desc, outcomeBuildError)
		}
		return "", err
	}

	logger := d.logger.WithCorrelationId(common.ResolveCorrelationID(ctx))
	logger.Debug().
		Str("service", desc.Service).
		Str("operation", desc.Name).
		Str("method", r.Method).
		Str("path", r.Path).
		Bool("body", r.Body != nil).
		Msg("square request")

	var bodyReader io.Reader
	if r.Body != nil {
		bodyReader = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, d.baseURL+r.URL(), bodyReader)
	if err != nil {
		d.metrics.count(desc, outcomeBuildError)
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	d.applyHeaders(req, credential)

	start := time.Now()
	resp, err := d.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		d.metrics.count(desc, outcomeTransportError)
		logger.Error().
			Str("method", r.Method).
			Str("path", r.Path).
			Int64("duration_ms", duration.Milliseconds()).
			Str("error", err.Error()).
			Msg("square request failed")
		return "", &TransportError{Method: r.Method, Path: r.Path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		d.metrics.count(desc, outcomeTransportError)
		return "", &TransportError{Method: r.Method, Path: r.Path, Err: fmt.Errorf("failed to read response: %w", err)}
	}

	d.metrics.count(desc, strconv.Itoa(resp.StatusCode))
	d.metrics.observe(desc, duration)
	logger.Debug().
		Int("status", resp.StatusCode).
		Int64("duration_ms", duration.Milliseconds()).
		Int("bytes", len(body)).
		Msg("square response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &APIError{StatusCode: resp.StatusCode, Status: resp.Status, Body: string(body)}
	}
	if len(body) == 0 {
		return EmptySuccess, nil
	}
	return string(body), nil
}

// applyHeaders sets the headers every Square request carries. Authorization is
// omitted when there is no credential.
func (d *Dispatcher) applyHeaders(req *http.Request, credential string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if credential != "" {
		req.Header.Set("Authorization", "Bearer "+credential)
	}
	if d.version != "" {
		req.Header.Set("Square-Version", d.version)
	}
	if d.userAgent != "" {
		req.Header.Set("User-Agent", d.userAgent)
	}
}
