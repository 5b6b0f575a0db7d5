package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

const maxResponseBodySize = 1 << 20 // 1MB

// ErrBodyTooLarge is set on [Response.Error] when the body exceeds the
// 1MB limit. The body is discarded rather than truncated.
var ErrBodyTooLarge = errors.New("response body too large")

// connection pooling limits; a single SDK client talks to one origin
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultMaxConnsPerHost     = 10
	defaultIdleConnTimeout     = 60 * time.Second // conservative: matches common ALB defaults
)

// Request describes a single HTTP exchange.
type Request struct {
	// Method is the HTTP method. Empty defaults to GET.
	Method string

	// URL is the absolute target URL.
	URL string

	// Body is sent as-is when non-nil.
	Body []byte

	// Headers are set on the request after the defaults.
	Headers map[string]string
}

// Response holds the result of an HTTP request made by [Client].
type Response struct {
	// Body contains the HTTP response body. Bodies over 1MB are rejected.
	Body []byte

	// StatusCode is the HTTP status code.
	// Zero if the request failed before receiving a response.
	StatusCode int

	// Latency is the total time taken for the request, including any time
	// spent waiting on the rate limiter.
	Latency time.Duration

	// Error is set when no complete response was received: the request could
	// not be built, the limiter wait was cancelled, the connection failed,
	// or the body could not be read. An oversized body reports
	// [ErrBodyTooLarge] with StatusCode set and Body nil.
	Error error
}

// Config configures a [Client].
type Config struct {
	// HTTPClient is copied, never mutated. Nil means a pooled client built
	// by this package.
	HTTPClient *http.Client

	// Jar replaces the cookie jar. Nil keeps the HTTPClient's jar, or
	// creates a public-suffix aware jar when it has none.
	Jar http.CookieJar

	// Timeout bounds each request whose context carries no deadline.
	// Zero disables the default.
	Timeout time.Duration

	// RateLimit caps outgoing requests per second. Zero means unlimited.
	RateLimit rate.Limit

	// Burst is the limiter bucket size; values below 1 are treated as 1.
	Burst int
}

// Client is an HTTP client wrapper that always carries session cookies.
//
// Every request goes through the cookie jar, so Set-Cookie headers from one
// response are sent on the next request to the same origin. Client never
// retries.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
}

// NewClient creates a [Client] from cfg.
func NewClient(cfg Config) (*Client, error) {
	var hc http.Client
	if cfg.HTTPClient != nil {
		hc = *cfg.HTTPClient
	} else {
		hc = http.Client{
			// no default timeout - per-request timeouts come from the context
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				MaxConnsPerHost:     defaultMaxConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		}
	}

	switch {
	case cfg.Jar != nil:
		hc.Jar = cfg.Jar
	case hc.Jar == nil:
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		hc.Jar = jar
	}

	c := &Client{
		httpClient: &hc,
		timeout:    cfg.Timeout,
	}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(cfg.RateLimit, burst)
	}
	return c, nil
}

// Jar returns the cookie jar used for every request.
func (c *Client) Jar() http.CookieJar {
	return c.httpClient.Jar
}

// Do performs req and returns a structured [Response].
//
// Do always returns a Response; failures before a full response was read
// are captured in the Error field. A non-2xx status is not an error here.
func (c *Client) Do(ctx context.Context, req Request) Response {
	start := time.Now()

	if _, hasDeadline := ctx.Deadline(); !hasDeadline && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Response{
				Latency: time.Since(start),
				Error:   fmt.Errorf("rate limiter: %w", err),
			}
		}
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return Response{
			Latency: time.Since(start),
			Error:   fmt.Errorf("failed to create request: %w", err),
		}
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return Response{
			Latency: time.Since(start),
			Error:   fmt.Errorf("request failed: %w", err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	// read one byte past the limit so an oversized body is detected, not cut
	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize+1))
	if err != nil {
		return Response{
			StatusCode: resp.StatusCode,
			Latency:    time.Since(start),
			Error:      fmt.Errorf("failed to read response body: %w", err),
		}
	}
	if len(payload) > maxResponseBodySize {
		return Response{
			StatusCode: resp.StatusCode,
			Latency:    time.Since(start),
			Error:      fmt.Errorf("%w: more than %d bytes", ErrBodyTooLarge, maxResponseBodySize),
		}
	}

	return Response{
		Body:       payload,
		StatusCode: resp.StatusCode,
		Latency:    time.Since(start),
	}
}

// Close closes all idle connections in the client's connection pool.
//
// Safe to call multiple times and on a nil Client. The client remains
// usable afterwards.
func (c *Client) Close() {
	if c == nil || c.httpClient == nil {
		return
	}
	c.httpClient.CloseIdleConnections()
}
