package baaskit

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is the semantic class of a server-declared failure.
//
// Callers branch on kinds rather than on individual codes: redirect to login
// on [KindAuth], render field errors on [KindValidation], and so on.
type Kind int

const (
	// KindUnknown is never produced for a declared [ErrorCode].
	KindUnknown Kind = iota
	KindAuth
	KindValidation
	KindConflict
	KindExpired
	KindRateLimit
	KindNotFound
	KindServer
)

var kindNames = map[Kind]string{
	KindUnknown:    "unknown",
	KindAuth:       "auth",
	KindValidation: "validation",
	KindConflict:   "conflict",
	KindExpired:    "expired",
	KindRateLimit:  "rate_limit",
	KindNotFound:   "not_found",
	KindServer:     "server",
}

// String returns the lower-case name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

func (k Kind) valid() bool {
	return k > KindUnknown && k <= KindServer
}

// Sentinel errors for each failure class. Use errors.Is to test a returned
// error against them:
//
//	if errors.Is(err, baaskit.ErrAuth) {
//	    // send the user back to the login form
//	}
var (
	ErrAuth       = errors.New("baaskit: authentication failed")
	ErrValidation = errors.New("baaskit: invalid request")
	ErrConflict   = errors.New("baaskit: conflicting state")
	ErrExpired    = errors.New("baaskit: resource expired")
	ErrRateLimit  = errors.New("baaskit: rate limit exceeded")
	ErrNotFound   = errors.New("baaskit: not found")
	ErrServer     = errors.New("baaskit: server error")

	// ErrConfiguration is matched by [*ConfigurationError].
	ErrConfiguration = errors.New("baaskit: configuration error")

	// ErrMalformedResponse is matched by [*MalformedResponseError].
	ErrMalformedResponse = errors.New("baaskit: malformed response")

	// ErrNetwork is matched by [*NetworkError].
	ErrNetwork = errors.New("baaskit: network error")
)

var kindSentinels = map[Kind]error{
	KindAuth:       ErrAuth,
	KindValidation: ErrValidation,
	KindConflict:   ErrConflict,
	KindExpired:    ErrExpired,
	KindRateLimit:  ErrRateLimit,
	KindNotFound:   ErrNotFound,
	KindServer:     ErrServer,
}

// Sentinel returns the sentinel error for k, or nil for [KindUnknown].
func (k Kind) Sentinel() error {
	return kindSentinels[k]
}

// ValidationDetail describes one invalid input field.
type ValidationDetail struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// APIError is a classified FAIL envelope.
//
// It keeps everything the server sent so callers and logs retain full
// fidelity. RequestID should be quoted when contacting support.
type APIError struct {
	Kind       Kind
	Code       ErrorCode
	Message    string
	HTTPStatus int
	RequestID  string
	Timestamp  string
	Path       string
	Detail     []ValidationDetail
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "baaskit: %s error %s", e.Kind, e.Code)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.RequestID != "" {
		fmt.Fprintf(&b, " (request_id: %s)", e.RequestID)
	}
	return b.String()
}

// Is reports whether target is the sentinel for the error's kind.
func (e *APIError) Is(target error) bool {
	sentinel := e.Kind.Sentinel()
	return sentinel != nil && target == sentinel
}

// FieldErrors returns the per-field details exactly as the server sent them.
// When the server sent none, the top-level message is returned as a single
// entry with an empty Field.
func (e *APIError) FieldErrors() []ValidationDetail {
	if len(e.Detail) > 0 {
		return e.Detail
	}
	return []ValidationDetail{{Reason: e.Message}}
}

// InputError reports input rejected locally before any request was sent.
// It matches [ErrValidation] so callers handle it like a server-side
// validation failure.
type InputError struct {
	Detail []ValidationDetail
}

func (e *InputError) Error() string {
	reasons := make([]string, len(e.Detail))
	for i, d := range e.Detail {
		reasons[i] = d.Field + ": " + d.Reason
	}
	return "baaskit: invalid input: " + strings.Join(reasons, "; ")
}

// Is reports whether target is [ErrValidation].
func (e *InputError) Is(target error) bool {
	return target == ErrValidation
}

// FieldErrors returns the rejected fields.
func (e *InputError) FieldErrors() []ValidationDetail {
	return e.Detail
}

// ConfigurationError reports that a required setting could not be resolved.
// Checked lists every source that was consulted, in precedence order.
type ConfigurationError struct {
	Setting string
	Checked []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("baaskit: %s is not configured; checked %s",
		e.Setting, strings.Join(e.Checked, ", "))
}

// Is reports whether target is [ErrConfiguration].
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

// MalformedResponseError reports a response body that is not a valid
// envelope. It is produced by the client, never sent by the server.
type MalformedResponseError struct {
	StatusCode int
	Reason     string
	Body       string // leading bytes of the body, for diagnostics
	Err        error
}

func (e *MalformedResponseError) Error() string {
	msg := fmt.Sprintf("baaskit: malformed response (status %d): %s", e.StatusCode, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is [ErrMalformedResponse].
func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

// NetworkError reports a request that never produced a response: DNS or
// connection failures, TLS errors, cancellation and deadlines.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("baaskit: %s %s: %v", e.Method, e.URL, e.Err)
}

// Is reports whether target is [ErrNetwork].
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetwork
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// FieldErrors extracts per-field validation details from err, whether the
// failure came from the server or from a local input check. It returns nil
// for errors that carry no field information.
func FieldErrors(err error) []ValidationDetail {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.FieldErrors()
	}
	var inputErr *InputError
	if errors.As(err, &inputErr) {
		return inputErr.FieldErrors()
	}
	return nil
}

// RequestID returns the server request id carried by err, if any.
func RequestID(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.RequestID
	}
	return ""
}
