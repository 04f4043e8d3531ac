// Package fetch requests molecule reports from the compute backend and
// classifies whatever comes back into a typed report response.
package fetch

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

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/pindora-shield/internal/types"
)

// DefaultTimeout is the default HTTP request timeout. Report generation runs
// model inference on the backend, so it is generous.
const DefaultTimeout = 120 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "PindoraShield/1.0"

// DefaultReportPath is the backend route that produces molecule reports.
const DefaultReportPath = "/metrics/metrics_data"

// DefaultMaxBodyBytes caps how much of a response body is read.
const DefaultMaxBodyBytes = 8 << 20

// unknownError is reported when a transport failure carries no message.
const unknownError = "Unknown error"

// Result holds the raw response of a report request.
type Result struct {
	URL         string
	Body        string
	ContentType string
	StatusCode  int
}

// Error represents a transport-level failure while requesting a report.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// userMessage is the text shown to users: the underlying cause when there is one.
func (e *Error) userMessage() string {
	msg := e.Message
	if e.Cause != nil {
		msg = e.Cause.Error()
	}
	if strings.TrimSpace(msg) == "" {
		return unknownError
	}
	return msg
}

// Options configures the fetch behavior.
type Options struct {
	Timeout      time.Duration
	UserAgent    string
	Headers      map[string]string
	MaxBodyBytes int64
	HTTPClient   *http.Client // overrides Timeout when set
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:      DefaultTimeout,
		UserAgent:    DefaultUserAgent,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Client posts report requests to a single configured endpoint.
type Client struct {
	endpoint string
	options  *Options
	http     *http.Client
}

// NewClient creates a client for the given report endpoint URL.
func NewClient(endpoint string, opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		endpoint: endpoint,
		options:  opts,
		http:     httpClient,
	}
}

// Endpoint returns the URL reports are requested from.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// JoinURL joins a base address and an endpoint path with exactly one slash.
func JoinURL(base, endpoint string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(endpoint, "/")
}

// FetchReport requests the report for one molecule. It never returns an
// error: transport and backend failures come back as failure responses.
func (c *Client) FetchReport(ctx context.Context, req types.ReportRequest) types.ReportResponse {
	log := zerolog.Ctx(ctx).With().
		Str("endpoint", c.endpoint).
		Str("smiles", req.MoleculeIdentifier).
		Logger()

	start := time.Now()
	result, err := c.post(ctx, req)
	if err != nil {
		log.Warn().Err(err).Msg("Report request failed")
		msg := unknownError
		var fe *Error
		if errors.As(err, &fe) {
			msg = fe.userMessage()
		}
		return types.NewReportFailure(types.FailureTransport, msg)
	}

	resp := Classify(result)
	event := log.Debug()
	if !resp.OK() {
		event = log.Warn().Str("error", resp.ErrorMessage())
	}
	event.
		Int("status_code", result.StatusCode).
		Str("outcome", string(resp.Outcome)).
		Str("source", resp.Source).
		Dur("took", time.Since(start)).
		Msg("Report request completed")
	return resp
}

// FetchAll requests several reports concurrently, at most limit at a time
// (unbounded when limit <= 0). Responses are index-aligned with reqs.
func (c *Client) FetchAll(ctx context.Context, reqs []types.ReportRequest, limit int) []types.ReportResponse {
	responses := make([]types.ReportResponse, len(reqs))
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, req := range reqs {
		g.Go(func() error {
			responses[i] = c.FetchReport(ctx, req)
			return nil
		})
	}
	_ = g.Wait()
	return responses
}

func (c *Client) post(ctx context.Context, req types.ReportRequest) (*Result, error) {
	parsedURL, err := url.Parse(c.endpoint)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{
			URL:     c.endpoint,
			Message: "invalid URL",
			Cause:   err,
		}
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, &Error{
			URL:     c.endpoint,
			Message: "failed to encode request",
			Cause:   err,
		}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &Error{
			URL:     c.endpoint,
			Message: "failed to create request",
			Cause:   err,
		}
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", c.options.UserAgent)
	for key, value := range c.options.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, &Error{
			URL:     c.endpoint,
			Message: "HTTP request failed",
			Cause:   err,
		}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, c.options.MaxBodyBytes+1))
	if err != nil {
		return nil, &Error{
			URL:     c.endpoint,
			Message: "failed to read response body",
			Cause:   err,
		}
	}
	if int64(len(bodyBytes)) > c.options.MaxBodyBytes {
		return nil, &Error{
			URL:     c.endpoint,
			Message: fmt.Sprintf("response body too large (limit %d bytes)", c.options.MaxBodyBytes),
		}
	}

	return &Result{
		URL:         c.endpoint,
		Body:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}
