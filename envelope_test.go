package baaskit

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type nestedPayload struct {
	Name  string            `json:"name"`
	Tags  []string          `json:"tags"`
	Inner map[string]int    `json:"inner"`
	Child *nestedPayload    `json:"child,omitempty"`
	Extra map[string]string `json:"extra,omitempty"`
}

func wrapSuccess(t *testing.T, data any) []byte {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("marshal data: %v", err)
	}
	body, err := json.Marshal(Envelope{Result: ResultSuccess, Data: raw})
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return body
}

func TestEnvelope_RoundTripPrimitive(t *testing.T) {
	env, err := ParseEnvelope(wrapSuccess(t, 42))
	if err != nil {
		t.Fatalf("ParseEnvelope() error = %v", err)
	}
	got, err := DecodeData[int](env)
	if err != nil {
		t.Fatalf("DecodeData() error = %v", err)
	}
	if got != 42 {
		t.Errorf("DecodeData() = %d, want 42", got)
	}

	env, err = ParseEnvelope(wrapSuccess(t, "hello"))
	if err != nil {
		t.Fatalf("ParseEnvelope() error = %v", err)
	}
	s, err := DecodeData[string](env)
	if err != nil || s != "hello" {
		t.Errorf("DecodeData() = %q, %v, want hello", s, err)
	}
}

func TestEnvelope_RoundTripNested(t *testing.T) {
	want := nestedPayload{
		Name:  "outer",
		Tags:  []string{"a", "b"},
		Inner: map[string]int{"x": 1, "y": 2},
		Child: &nestedPayload{Name: "inner", Tags: []string{}, Inner: map[string]int{}},
	}

	env, err := ParseEnvelope(wrapSuccess(t, want))
	if err != nil {
		t.Fatalf("ParseEnvelope() error = %v", err)
	}
	got, err := DecodeData[nestedPayload](env)
	if err != nil {
		t.Fatalf("DecodeData() error = %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvelope_RoundTripNull(t *testing.T) {
	for _, body := range []string{
		`{"result":"SUCCESS","data":null}`,
		`{"result":"SUCCESS"}`,
		`{"result":"SUCCESS","message":"logged out"}`,
	} {
		env, err := ParseEnvelope([]byte(body))
		if err != nil {
			t.Fatalf("ParseEnvelope(%s) error = %v", body, err)
		}
		got, err := DecodeData[*AccountRecord](env)
		if err != nil {
			t.Fatalf("DecodeData(%s) error = %v", body, err)
		}
		if got != nil {
			t.Errorf("DecodeData(%s) = %+v, want nil", body, got)
		}
		if env.Err(200) != nil {
			t.Errorf("Err() = %v for SUCCESS", env.Err(200))
		}
	}
}

func TestParseEnvelope_Fail(t *testing.T) {
	body := `{
		"result": "FAIL",
		"errorCode": "VALIDATION_ERROR",
		"message": "invalid input",
		"timestamp": "2024-03-01T12:30:00",
		"request_id": "abc-123",
		"path": "/account/signup",
		"detail": [{"field": "email", "reason": "must be an email"}]
	}`

	env, err := ParseEnvelope([]byte(body))
	if err != nil {
		t.Fatalf("ParseEnvelope() error = %v", err)
	}

	want := &Envelope{
		Result:    ResultFail,
		ErrorCode: CodeValidationError,
		Message:   "invalid input",
		Timestamp: "2024-03-01T12:30:00",
		RequestID: "abc-123",
		Path:      "/account/signup",
		Detail:    []ValidationDetail{{Field: "email", Reason: "must be an email"}},
	}
	if diff := cmp.Diff(want, env); diff != "" {
		t.Errorf("envelope mismatch (-want +got):\n%s", diff)
	}

	err = env.Err(422)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("Err() = %v, want ErrValidation", err)
	}
	if diff := cmp.Diff(want.Detail, FieldErrors(err)); diff != "" {
		t.Errorf("FieldErrors mismatch (-want +got):\n%s", diff)
	}

	ts, ok := env.Time()
	if !ok {
		t.Fatal("Time() ok = false")
	}
	if _, offset := ts.Zone(); offset != 9*60*60 {
		t.Errorf("Time() offset = %d, want KST", offset)
	}
	if !ts.Equal(time.Date(2024, 3, 1, 3, 30, 0, 0, time.UTC)) {
		t.Errorf("Time() = %v", ts)
	}
}

func TestParseEnvelope_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		reason string
	}{
		{"empty", "", "empty body"},
		{"whitespace", "  \n", "empty body"},
		{"html", "<html>bad gateway</html>", "not an envelope"},
		{"array", `[1,2,3]`, "not an envelope"},
		{"missing result", `{"data":1}`, "unexpected result"},
		{"lowercase result", `{"result":"success","data":1}`, "unexpected result"},
		{"unknown result", `{"result":"OK"}`, "unexpected result"},
		{"success with code", `{"result":"SUCCESS","errorCode":"NOT_FOUND"}`, "carries errorCode"},
		{"fail without code", `{"result":"FAIL","message":"x"}`, "without errorCode"},
		{"success with detail", `{"result":"SUCCESS","data":1,"detail":[{"field":"x","reason":"y"}]}`, "SUCCESS envelope carries detail"},
		{"detail on non-validation failure", `{"result":"FAIL","errorCode":"NOT_FOUND","detail":[{"field":"x","reason":"y"}]}`, "detail on NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEnvelope([]byte(tt.body))
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("ParseEnvelope() error = %v, want ErrMalformedResponse", err)
			}
			if !strings.Contains(err.Error(), tt.reason) {
				t.Errorf("error = %q, want it to contain %q", err, tt.reason)
			}
		})
	}
}

func TestParseEnvelope_ValidationDetailAllowed(t *testing.T) {
	env, err := ParseEnvelope([]byte(`{"result":"FAIL","errorCode":"VALIDATION_ERROR","detail":[{"field":"x","reason":"y"}]}`))
	if err != nil {
		t.Fatalf("ParseEnvelope() error = %v", err)
	}
	want := []ValidationDetail{{Field: "x", Reason: "y"}}
	if diff := cmp.Diff(want, env.Detail); diff != "" {
		t.Errorf("Detail mismatch (-want +got):\n%s", diff)
	}

	// an empty list is the same as no detail
	if _, err := ParseEnvelope([]byte(`{"result":"FAIL","errorCode":"NOT_FOUND","detail":[]}`)); err != nil {
		t.Errorf("ParseEnvelope(empty detail) error = %v", err)
	}
}

func TestDecodeData_TypeMismatch(t *testing.T) {
	env, err := ParseEnvelope([]byte(`{"result":"SUCCESS","data":"not an object"}`))
	if err != nil {
		t.Fatalf("ParseEnvelope() error = %v", err)
	}
	_, err = DecodeData[AccountRecord](env)
	if !errors.Is(err, ErrMalformedResponse) {
		t.Errorf("DecodeData() error = %v, want ErrMalformedResponse", err)
	}
	var jsonErr *json.UnmarshalTypeError
	if !errors.As(err, &jsonErr) {
		t.Errorf("DecodeData() error does not unwrap to json error: %v", err)
	}
}

func TestSnippet_Truncates(t *testing.T) {
	long := strings.Repeat("x", maxSnippet*2)
	got := snippet([]byte(long))
	if len(got) != maxSnippet+3 || !strings.HasSuffix(got, "...") {
		t.Errorf("snippet() len = %d", len(got))
	}
}
