package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/jpalmerr/baaskit"
	"github.com/jpalmerr/baaskit/internal/mockbaas"
)

const testProject = "demo"

// startBackend runs a seeded mock backend for the duration of the test.
func startBackend(t *testing.T) string {
	t.Helper()
	st := mockbaas.NewMemoryStore()
	mockbaas.Seed(st, testProject)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := httptest.NewServer(mockbaas.NewServer(st, logger, mockbaas.Config{}).Handler())
	t.Cleanup(srv.Close)
	return srv.URL
}

func decodeOutput[T any](t *testing.T, output string) T {
	t.Helper()
	var v T
	if err := json.Unmarshal([]byte(output), &v); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, output)
	}
	return v
}

type loginOutput struct {
	AccessToken  string `json:"access_token"`
	TokenProject string `json:"token_project"`
	Cookie       string `json:"cookie"`
}

func TestAccount_Lifecycle(t *testing.T) {
	base := startBackend(t)

	output, err := executeCmd(t, "account", "signup", "--base-url", base,
		"--user-id", "alice01", "--password", "correct-horse", "--email", "alice@example.com")
	if err != nil {
		t.Fatalf("signup error = %v", err)
	}
	if rec := decodeOutput[baaskit.AccountRecord](t, output); rec.UserID != "alice01" || rec.ID == 0 {
		t.Errorf("signup output = %+v", rec)
	}

	output, err = executeCmd(t, "account", "login", "--base-url", base,
		"--user-id", "alice01", "--password", "correct-horse")
	if err != nil {
		t.Fatalf("login error = %v", err)
	}
	login := decodeOutput[loginOutput](t, output)
	if login.AccessToken == "" || login.Cookie != "access_token" {
		t.Fatalf("login output = %+v", login)
	}

	output, err = executeCmd(t, "account", "info", "--base-url", base, "--token", login.AccessToken)
	if err != nil {
		t.Fatalf("info error = %v", err)
	}
	if rec := decodeOutput[baaskit.AccountRecord](t, output); rec.Email != "alice@example.com" {
		t.Errorf("info output = %+v", rec)
	}

	output, err = executeCmd(t, "account", "logout", "--base-url", base, "--token", login.AccessToken)
	if err != nil {
		t.Fatalf("logout error = %v", err)
	}
	if !strings.Contains(output, "Logged out") {
		t.Errorf("logout output = %q", output)
	}

	_, err = executeCmd(t, "account", "info", "--base-url", base, "--token", login.AccessToken)
	if !errors.Is(err, baaskit.ErrAuth) {
		t.Errorf("info after logout error = %v, want ErrAuth", err)
	}
}

func TestAccount_InfoWithoutToken(t *testing.T) {
	base := startBackend(t)

	_, err := executeCmd(t, "account", "info", "--base-url", base)
	var apiErr *baaskit.APIError
	if !errors.As(err, &apiErr) || apiErr.Code != baaskit.CodeUnauthorized {
		t.Errorf("info error = %v, want UNAUTHORIZED", err)
	}
}

func TestAccount_ProjectScoped(t *testing.T) {
	base := startBackend(t)

	_, err := executeCmd(t, "account", "signup", "--base-url", base, "--project-id", testProject,
		"--project", "--user-id", "bob0001", "--password", "correct-horse")
	if err != nil {
		t.Fatalf("project signup error = %v", err)
	}

	output, err := executeCmd(t, "account", "login", "--base-url", base, "--project-id", testProject,
		"--project", "--user-id", "bob0001", "--password", "correct-horse")
	if err != nil {
		t.Fatalf("project login error = %v", err)
	}
	login := decodeOutput[loginOutput](t, output)
	if login.TokenProject != testProject || login.Cookie != "access_token_"+testProject {
		t.Fatalf("login output = %+v", login)
	}

	output, err = executeCmd(t, "account", "info", "--base-url", base,
		"--token", login.AccessToken, "--token-project", testProject)
	if err != nil {
		t.Fatalf("info error = %v", err)
	}
	if rec := decodeOutput[baaskit.AccountRecord](t, output); rec.ProjectID != testProject {
		t.Errorf("info output = %+v", rec)
	}
}

func TestAccount_SignupFailures(t *testing.T) {
	base := startBackend(t)

	_, err := executeCmd(t, "account", "signup", "--base-url", base, "--user-id", "carol01", "--password", "short")
	if !errors.Is(err, baaskit.ErrValidation) {
		t.Fatalf("signup error = %v, want ErrValidation", err)
	}
	if !strings.Contains(err.Error(), "password:") || !strings.Contains(err.Error(), "request id:") {
		t.Errorf("error should list field details and request id, got: %v", err)
	}

	args := []string{"account", "signup", "--base-url", base, "--user-id", "carol01", "--password", "correct-horse"}
	if _, err := executeCmd(t, args...); err != nil {
		t.Fatalf("first signup error = %v", err)
	}
	if _, err := executeCmd(t, args...); !errors.Is(err, baaskit.ErrConflict) {
		t.Errorf("duplicate signup error = %v, want ErrConflict", err)
	}
}

func TestAccount_RequiresFlags(t *testing.T) {
	_, err := executeCmd(t, "account", "login", "--base-url", "http://localhost")
	if err == nil || !strings.Contains(err.Error(), "required flag") {
		t.Errorf("login error = %v, want required flag error", err)
	}
}

func TestRecipient_Register(t *testing.T) {
	base := startBackend(t)

	output, err := executeCmd(t, "recipient", "register", "--base-url", base, "--project-id", testProject,
		"--name", "Kim", "--phone", "01012345678", "--meta", "team=ops")
	if err != nil {
		t.Fatalf("register error = %v", err)
	}
	rec := decodeOutput[baaskit.RecipientRecord](t, output)
	if rec.Phone != "010-1234-5678" {
		t.Errorf("Phone = %q, want normalised", rec.Phone)
	}
	if rec.Metadata["team"] != "ops" {
		t.Errorf("Metadata = %v", rec.Metadata)
	}
}

func TestRecipient_InvalidPhone(t *testing.T) {
	// no backend: the number must be rejected before any request
	_, err := executeCmd(t, "recipient", "register", "--base-url", "http://127.0.0.1:1", "--project-id", testProject,
		"--name", "Kim", "--phone", "02-123-4567")
	if !errors.Is(err, baaskit.ErrValidation) {
		t.Fatalf("register error = %v, want ErrValidation", err)
	}
	if !strings.Contains(err.Error(), "phone:") {
		t.Errorf("error should name the phone field, got: %v", err)
	}
}

func TestRecipient_MissingProject(t *testing.T) {
	clearProjectEnv(t)

	_, err := executeCmd(t, "recipient", "register", "--base-url", "http://127.0.0.1:1",
		"--name", "Kim", "--phone", "010-1234-5678")
	if !errors.Is(err, baaskit.ErrConfiguration) {
		t.Errorf("register error = %v, want ErrConfiguration", err)
	}
}

func TestRecipient_ProjectFromEnvFile(t *testing.T) {
	clearProjectEnv(t)
	base := startBackend(t)
	envFile := writeFile(t, t.TempDir(), ".env", "VITE_PROJECT_ID="+testProject+"\n")

	output, err := executeCmd(t, "recipient", "register", "--base-url", base, "--env-file", envFile,
		"--name", "Lee", "--phone", "010-9876-5432")
	if err != nil {
		t.Fatalf("register error = %v", err)
	}
	if rec := decodeOutput[baaskit.RecipientRecord](t, output); rec.Name != "Lee" {
		t.Errorf("register output = %+v", rec)
	}
}

func TestBoard_List(t *testing.T) {
	base := startBackend(t)

	output, err := executeCmd(t, "board", "list", "--base-url", base, "--project-id", testProject,
		"--kind", "notice", "--limit", "2")
	if err != nil {
		t.Fatalf("board list error = %v", err)
	}
	list := decodeOutput[baaskit.PostList](t, output)
	if list.Total != 3 || len(list.Posts) != 2 || list.Limit != 2 {
		t.Errorf("board list output = %+v", list)
	}
}

func TestBoard_ListAll(t *testing.T) {
	base := startBackend(t)

	output, err := executeCmd(t, "board", "list", "--base-url", base, "--project-id", testProject, "--kind", "ALL")
	if err != nil {
		t.Fatalf("board list error = %v", err)
	}
	byKind := decodeOutput[map[string]baaskit.PostList](t, output)
	if byKind["notice"].Total != 3 || byKind["faq"].Total != 2 {
		t.Errorf("board list output = %+v", byKind)
	}

	output, err = executeCmd(t, "board", "list", "--base-url", base, "--project-id", testProject,
		"--kind", "all", "--keyword", "phone")
	if err != nil {
		t.Fatalf("board list keyword error = %v", err)
	}
	byKind = decodeOutput[map[string]baaskit.PostList](t, output)
	if byKind["notice"].Total != 0 || byKind["faq"].Total != 1 {
		t.Errorf("board list keyword output = %+v", byKind)
	}
}

func TestBoard_ListAllFailsAsOne(t *testing.T) {
	base := startBackend(t)

	_, err := executeCmd(t, "board", "list", "--base-url", base, "--project-id", testProject,
		"--kind", "all", "--limit", "1000")
	if !errors.Is(err, baaskit.ErrValidation) {
		t.Errorf("board list error = %v, want ErrValidation", err)
	}
}

func TestBoard_Get(t *testing.T) {
	base := startBackend(t)

	output, err := executeCmd(t, "board", "list", "--base-url", base, "--project-id", testProject,
		"--kind", "faq", "--keyword", "phone")
	if err != nil {
		t.Fatalf("board list error = %v", err)
	}
	list := decodeOutput[baaskit.PostList](t, output)
	if len(list.Posts) != 1 {
		t.Fatalf("board list output = %+v", list)
	}
	id := list.Posts[0].ID

	output, err = executeCmd(t, "board", "get", "--base-url", base, "--project-id", testProject,
		"--kind", "faq", "--id", strconv.FormatInt(id, 10))
	if err != nil {
		t.Fatalf("board get error = %v", err)
	}
	if post := decodeOutput[baaskit.PostRecord](t, output); !strings.Contains(post.Content, "010-XXXX-XXXX") {
		t.Errorf("board get output = %+v", post)
	}

	_, err = executeCmd(t, "board", "get", "--base-url", base, "--project-id", testProject,
		"--kind", "notice", "--id", strconv.FormatInt(id, 10))
	if !errors.Is(err, baaskit.ErrNotFound) {
		t.Errorf("board get wrong board error = %v, want ErrNotFound", err)
	}
}

func TestBoard_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown kind", []string{"board", "list", "--kind", "qna"}, "qna"},
		{"get all", []string{"board", "get", "--kind", "all", "--id", "1"}, "all"},
		{"zero id", []string{"board", "get", "--kind", "faq", "--id", "0"}, "--id must be positive"},
		{"missing id", []string{"board", "get", "--kind", "faq"}, "required flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append(tt.args, "--base-url", "http://127.0.0.1:1", "--project-id", testProject)
			_, err := executeCmd(t, args...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	clearProjectEnv(t)
	base := startBackend(t)
	configPath := writeFile(t, t.TempDir(), "config.yaml", "base_url: http://127.0.0.1:1\nproject_id: other\n")

	output, err := executeCmd(t, "board", "list", "-c", configPath,
		"--base-url", base, "--project-id", testProject, "--kind", "faq")
	if err != nil {
		t.Fatalf("board list error = %v", err)
	}
	if list := decodeOutput[baaskit.PostList](t, output); list.Total != 2 {
		t.Errorf("board list output = %+v", list)
	}
}

func TestMissingBaseURL(t *testing.T) {
	_, err := executeCmd(t, "board", "list", "--project-id", testProject)
	if err == nil || !strings.Contains(err.Error(), "base URL is required") {
		t.Errorf("error = %v, want base URL is required", err)
	}
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := executeCmd(t, "board", "list", "--base-url", "http://localhost", "--log-level", "loud")
	if err == nil || !strings.Contains(err.Error(), "--log-level") {
		t.Errorf("error = %v, want invalid log level", err)
	}
}
