package baaskit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/jpalmerr/baaskit/internal/transport"
)

// HeaderRequestID carries the client-generated correlation id.
const HeaderRequestID = "X-Request-ID"

// call is one endpoint invocation.
type call struct {
	method       string
	path         string // escaped path, starting with "/"
	query        url.Values
	body         any
	requiresAuth bool
}

// invoke performs c and decodes the data of a SUCCESS envelope into T.
//
// Failures are always one of: [*NetworkError] (no response),
// [*MalformedResponseError] (response is not an envelope), or [*APIError]
// (FAIL envelope). Nothing is retried.
func invoke[T any](ctx context.Context, client *Client, c call) (T, error) {
	var out T

	env, res := client.exchange(ctx, c)
	if res.Err == nil {
		var err error
		out, err = DecodeData[T](env)
		if err != nil {
			var malformed *MalformedResponseError
			if errors.As(err, &malformed) {
				malformed.StatusCode = res.StatusCode
			}
			res.Err = err
		}
	}

	client.finish(res)
	return out, res.Err
}

// exchange sends the request and parses the envelope. The returned
// CallResult has Err set on any failure.
func (c *Client) exchange(ctx context.Context, cl call) (*Envelope, CallResult) {
	res := CallResult{
		Method:        cl.method,
		Path:          cl.path,
		CorrelationID: uuid.NewString(),
	}

	target := c.base + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	headers := map[string]string{
		"Accept":        "application/json",
		HeaderRequestID: res.CorrelationID,
	}
	if c.userAgent != "" {
		headers["User-Agent"] = c.userAgent
	}

	var payload []byte
	if cl.body != nil {
		b, err := json.Marshal(cl.body)
		if err != nil {
			res.Err = fmt.Errorf("baaskit: failed to encode request body: %w", err)
			return nil, res
		}
		payload = b
		headers["Content-Type"] = "application/json"
	}

	if cl.requiresAuth && !c.hasSession() {
		c.logger.Debug("authenticated call without session cookie",
			"method", cl.method,
			"path", cl.path,
		)
	}

	resp := c.http.Do(ctx, transport.Request{
		Method:  cl.method,
		URL:     target,
		Body:    payload,
		Headers: headers,
	})
	res.StatusCode = resp.StatusCode
	res.Latency = resp.Latency

	if errors.Is(resp.Error, transport.ErrBodyTooLarge) {
		res.Err = &MalformedResponseError{
			StatusCode: resp.StatusCode,
			Reason:     "body exceeds the 1MB limit",
			Err:        resp.Error,
		}
		return nil, res
	}
	if resp.Error != nil {
		res.Err = &NetworkError{Method: cl.method, URL: target, Err: resp.Error}
		return nil, res
	}

	env, err := ParseEnvelope(resp.Body)
	if err != nil {
		var malformed *MalformedResponseError
		if errors.As(err, &malformed) {
			malformed.StatusCode = resp.StatusCode
		}
		res.Err = err
		return nil, res
	}
	res.RequestID = env.RequestID

	if !env.Succeeded() {
		res.Err = Classify(env, resp.StatusCode)
		return env, res
	}

	// a SUCCESS body on an error status is not a shape this backend sends
	if resp.StatusCode >= http.StatusBadRequest {
		res.Err = &MalformedResponseError{
			StatusCode: resp.StatusCode,
			Reason:     "SUCCESS envelope on error status",
			Body:       snippet(resp.Body),
		}
		return nil, res
	}

	return env, res
}
