package baaskit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCallObserver_ReceivesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == InfoPath {
			writeEnvelope(t, w, http.StatusUnauthorized, Envelope{
				Result:    ResultFail,
				ErrorCode: CodeTokenExpired,
				RequestID: "srv-1",
			})
			return
		}
		writeEnvelope(t, w, http.StatusOK, Envelope{Result: ResultSuccess})
	}))
	defer srv.Close()

	var results []CallResult
	client := newTestClient(t, srv.URL, WithCallObserver(func(r CallResult) {
		results = append(results, r)
	}))

	ctx := context.Background()
	_ = client.Account().Logout(ctx)
	_, _ = client.Account().Info(ctx)

	if len(results) != 2 {
		t.Fatalf("observer called %d times, want 2", len(results))
	}

	logout := results[0]
	if !logout.Succeeded() || logout.Method != http.MethodPost || logout.Path != LogoutPath {
		t.Errorf("logout result = %+v", logout)
	}
	if logout.CorrelationID == "" {
		t.Error("logout result has no correlation id")
	}

	info := results[1]
	if info.Succeeded() {
		t.Error("info result Succeeded() = true")
	}
	if !errors.Is(info.Err, ErrAuth) {
		t.Errorf("info Err = %v, want ErrAuth", info.Err)
	}
	if info.StatusCode != http.StatusUnauthorized || info.RequestID != "srv-1" {
		t.Errorf("info result = %+v", info)
	}
	if info.CorrelationID == logout.CorrelationID {
		t.Error("correlation ids reused across calls")
	}
}

func TestCallObserver_PanicRecovered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(t, w, http.StatusOK, Envelope{Result: ResultSuccess})
	}))
	defer srv.Close()

	var buf bytes.Buffer
	var secondCalled bool
	client := newTestClient(t, srv.URL,
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		WithCallObserver(func(CallResult) { panic("observer exploded") }),
		WithCallObserver(nil),
		WithCallObserver(func(CallResult) { secondCalled = true }),
	)

	if err := client.Account().Logout(context.Background()); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}
	if !secondCalled {
		t.Error("observer after the panicking one was not called")
	}
	if !strings.Contains(buf.String(), "call observer panicked") {
		t.Errorf("panic not logged:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "observer exploded") {
		t.Errorf("panic value not logged:\n%s", buf.String())
	}
}
