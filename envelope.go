package baaskit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Result is the discriminant of an [Envelope].
type Result string

const (
	ResultSuccess Result = "SUCCESS"
	ResultFail    Result = "FAIL"
)

// kst is the zone the server stamps failure timestamps in.
var kst = time.FixedZone("KST", 9*60*60)

// Envelope is the uniform wrapper around every response body.
//
// Exactly one of the two shapes is populated, selected by Result:
//
//	{"result":"SUCCESS","data":...,"message":"..."}
//	{"result":"FAIL","errorCode":"...","message":"...","timestamp":"...","request_id":"...","path":"...","detail":[...]}
type Envelope struct {
	Result    Result             `json:"result"`
	Data      json.RawMessage    `json:"data,omitempty"`
	Message   string             `json:"message,omitempty"`
	ErrorCode ErrorCode          `json:"errorCode,omitempty"`
	Timestamp string             `json:"timestamp,omitempty"`
	RequestID string             `json:"request_id,omitempty"`
	Path      string             `json:"path,omitempty"`
	Detail    []ValidationDetail `json:"detail,omitempty"`
}

// ParseEnvelope decodes raw into an [Envelope] and checks its discriminant.
//
// The result field must be exactly "SUCCESS" or "FAIL". A SUCCESS envelope
// must not carry an errorCode and a FAIL envelope must carry one. detail is
// only allowed on a VALIDATION_ERROR failure. Any
// violation is returned as a [*MalformedResponseError] with StatusCode 0;
// the transport fills in the HTTP status.
func ParseEnvelope(raw []byte) (*Envelope, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, &MalformedResponseError{Reason: "empty body"}
	}

	var env Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, &MalformedResponseError{Reason: "body is not an envelope", Body: snippet(trimmed), Err: err}
	}

	switch env.Result {
	case ResultSuccess:
		if env.ErrorCode != "" {
			return nil, &MalformedResponseError{
				Reason: fmt.Sprintf("SUCCESS envelope carries errorCode %q", env.ErrorCode),
				Body:   snippet(trimmed),
			}
		}
		if len(env.Detail) > 0 {
			return nil, &MalformedResponseError{Reason: "SUCCESS envelope carries detail", Body: snippet(trimmed)}
		}
	case ResultFail:
		if env.ErrorCode == "" {
			return nil, &MalformedResponseError{Reason: "FAIL envelope without errorCode", Body: snippet(trimmed)}
		}
		if len(env.Detail) > 0 && env.ErrorCode != CodeValidationError {
			return nil, &MalformedResponseError{
				Reason: fmt.Sprintf("detail on %s envelope", env.ErrorCode),
				Body:   snippet(trimmed),
			}
		}
	default:
		return nil, &MalformedResponseError{
			Reason: fmt.Sprintf("unexpected result %q", env.Result),
			Body:   snippet(trimmed),
		}
	}

	return &env, nil
}

// Succeeded reports whether the envelope is the SUCCESS shape.
func (e *Envelope) Succeeded() bool {
	return e.Result == ResultSuccess
}

// Err returns nil for a SUCCESS envelope and the classified [*APIError] for
// a FAIL envelope. httpStatus is the status line the envelope arrived with.
func (e *Envelope) Err(httpStatus int) error {
	if e.Succeeded() {
		return nil
	}
	return Classify(e, httpStatus)
}

// Time parses the failure timestamp. The server omits the zone, in which
// case KST is assumed.
func (e *Envelope) Time() (time.Time, bool) {
	if e.Timestamp == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339Nano, e.Timestamp); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", e.Timestamp, kst); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// DecodeData decodes the data field of a SUCCESS envelope into T.
//
// The payload shape is not validated beyond what encoding/json requires.
// A missing or null data field yields the zero value of T.
func DecodeData[T any](env *Envelope) (T, error) {
	var out T
	if len(env.Data) == 0 || bytes.Equal(env.Data, []byte("null")) {
		return out, nil
	}
	if err := json.Unmarshal(env.Data, &out); err != nil {
		return out, &MalformedResponseError{Reason: fmt.Sprintf("data does not decode into %T", out), Body: snippet(env.Data), Err: err}
	}
	return out, nil
}

// maxSnippet bounds how much of a bad body is kept on an error.
const maxSnippet = 256

func snippet(b []byte) string {
	if len(b) > maxSnippet {
		return string(b[:maxSnippet]) + "..."
	}
	return string(b)
}
