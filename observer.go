package baaskit

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

// CallResult describes the outcome of one request.
//
// It is passed to observers registered with [WithCallObserver] after the
// call has completed and before the call returns to its caller.
type CallResult struct {
	// Method and Path identify the endpoint, e.g. "GET" and "/account/info".
	Method string
	Path   string

	// StatusCode is the HTTP status. Zero if no response was received.
	StatusCode int

	// Latency is the time taken by the HTTP exchange.
	Latency time.Duration

	// CorrelationID is the X-Request-ID the client sent.
	CorrelationID string

	// RequestID is the server's request_id, when the envelope carried one.
	RequestID string

	// Err is the error returned to the caller, or nil on success.
	Err error
}

// Succeeded reports whether the call returned without error.
func (r CallResult) Succeeded() bool {
	return r.Err == nil
}

// finish logs the result and notifies observers.
func (c *Client) finish(res CallResult) {
	attrs := []any{
		"method", res.Method,
		"path", res.Path,
		"status", res.StatusCode,
		"latency_ms", res.Latency.Milliseconds(),
		"correlation_id", res.CorrelationID,
	}
	if res.RequestID != "" {
		attrs = append(attrs, "request_id", res.RequestID)
	}

	if res.Err != nil {
		var apiErr *APIError
		if errors.As(res.Err, &apiErr) {
			attrs = append(attrs, "kind", apiErr.Kind.String(), "error_code", string(apiErr.Code))
		}
		c.logger.Warn("baas call failed", append(attrs, "error", res.Err.Error())...)
	} else {
		c.logger.Debug("baas call completed", attrs...)
	}

	for _, fn := range c.observers {
		c.observeSafe(fn, res)
	}
}

// observeSafe calls an observer with panic recovery. The stack is logged
// under a fresh correlation id so the panic can be found from the log line.
func (c *Client) observeSafe(fn func(CallResult), res CallResult) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("call observer panicked",
				"correlation_id", uuid.NewString(),
				"panic", fmt.Sprintf("%v", r),
				"path", res.Path,
				"stack", string(debug.Stack()),
			)
		}
	}()
	fn(res)
}
