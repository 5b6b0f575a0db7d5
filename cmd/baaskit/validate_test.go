package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jpalmerr/baaskit"
)

// executeCmd runs the root command with args and returns captured stdout
// and any error. Flags keep their values between Execute calls, so they are
// reset first.
func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else if f.Value.Type() != "stringToString" {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// clearProjectEnv hides any project identifier set in the developer's shell.
func clearProjectEnv(t *testing.T) {
	t.Helper()
	t.Setenv(baaskit.EnvProjectID, "")
	t.Setenv(baaskit.EnvReactProjectID, "")
	t.Setenv(baaskit.EnvNextProjectID, "")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestRunValidate_ValidConfig(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), "config.yaml", `
base_url: https://api.example.com/
project_id: demo
timeout: 10s
signup_path: /account/signup-project
rate_limit:
  requests_per_second: 2.5
  burst: 4
`)

	output, err := executeCmd(t, "validate", "-c", configPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}

	expectedPhrases := []string{
		"Config is valid!",
		"Base URL:    https://api.example.com",
		"Project ID:  demo",
		"Timeout:     10s",
		"Signup path: /account/signup-project",
		"Rate limit:  2.5 req/s, burst 4",
		"Env files:   0",
	}

	for _, phrase := range expectedPhrases {
		if !strings.Contains(output, phrase) {
			t.Errorf("output missing %q\nGot: %s", phrase, output)
		}
	}
}

func TestRunValidate_Defaults(t *testing.T) {
	clearProjectEnv(t)
	configPath := writeFile(t, t.TempDir(), "config.yaml", "base_url: http://localhost:8080\n")

	output, err := executeCmd(t, "validate", "-c", configPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}

	for _, phrase := range []string{
		"Project ID:  not set",
		"Timeout:     30s",
		"Signup path: /account/signup",
		"Rate limit:  disabled",
	} {
		if !strings.Contains(output, phrase) {
			t.Errorf("output missing %q\nGot: %s", phrase, output)
		}
	}
}

func TestRunValidate_ProjectFromEnvFile(t *testing.T) {
	clearProjectEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, ".env", "VITE_PROJECT_ID=from-bundle\n")
	configPath := writeFile(t, dir, "config.yaml", "base_url: http://localhost\nenv_files: [.env]\n")

	output, err := executeCmd(t, "validate", "-c", configPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}
	if !strings.Contains(output, "Project ID:  from-bundle") {
		t.Errorf("output = %s, want project from env file", output)
	}
	if !strings.Contains(output, "Env files:   1") {
		t.Errorf("output = %s, want one env file", output)
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), "invalid.yaml", "timeout: 5s\n")

	_, err := executeCmd(t, "validate", "-c", configPath)
	if err == nil {
		t.Fatal("validate command expected error for invalid config, got nil")
	}

	if !strings.Contains(err.Error(), "base_url is required") {
		t.Errorf("error should mention 'base_url is required', got: %v", err)
	}
}

func TestRunValidate_MissingEnvFile(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), "config.yaml", "base_url: http://localhost\nenv_files: [missing.env]\n")

	_, err := executeCmd(t, "validate", "-c", configPath)
	if err == nil || !strings.Contains(err.Error(), "env_files") {
		t.Errorf("validate command error = %v, want env_files error", err)
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	_, err := executeCmd(t, "validate", "-c", "/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("validate command expected error for missing file, got nil")
	}

	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("error should mention 'failed to read', got: %v", err)
	}
}

func TestRunValidate_RequiresConfig(t *testing.T) {
	_, err := executeCmd(t, "validate")
	if err == nil || !strings.Contains(err.Error(), "config") {
		t.Errorf("validate command error = %v, want missing config error", err)
	}
}

func TestVersion(t *testing.T) {
	output, err := executeCmd(t, "version")
	if err != nil {
		t.Fatalf("version command error = %v", err)
	}
	if !strings.HasPrefix(output, "baaskit dev") {
		t.Errorf("output = %q", output)
	}
}
