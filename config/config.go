// Package config provides YAML configuration parsing for baaskit clients.
//
// This package lets the CLI (and any application that prefers a file over
// code) describe a client declaratively. [BuildOptions] turns a parsed
// [Config] into the functional options accepted by baaskit.New.
//
// Example configuration:
//
//	base_url: https://api.example.com
//	project_id: ${PROJECT_ID:-}
//	timeout: 10s
//	signup_path: /account/signup-project
//
//	rate_limit:
//	  requests_per_second: 5
//	  burst: 10
//
//	env_files:
//	  - .env
//	  - .env.local
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultTimeout = 30 * time.Second

	// timeout bounds; shorter deadlines fail on ordinary network jitter
	minTimeout = 1 * time.Second
	maxTimeout = 5 * time.Minute
)

// Config is the root configuration structure.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// BaseURL is the backend origin. Required.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	BaseURL string `yaml:"base_url"`

	// ProjectID is the explicit project identifier. When empty the client
	// falls back to PROJECT_ID and the framework-prefixed variables.
	ProjectID string `yaml:"project_id"`

	// Timeout applies to calls whose context has no deadline.
	// Accepts duration strings like "10s", "1m". Defaults to 30s.
	Timeout Duration `yaml:"timeout"`

	// SignupPath overrides the signup endpoint, e.g. /account/signup-project.
	SignupPath string `yaml:"signup_path"`

	// UserAgent is sent on every request.
	UserAgent string `yaml:"user_agent"`

	// RateLimit caps outgoing requests. Omit to disable.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// EnvFiles are dotenv files consulted for the project identifier, in
	// order; later files override earlier ones. Relative paths are resolved
	// against the config file's directory by [Load].
	EnvFiles []string `yaml:"env_files"`
}

// RateLimitConfig configures the client-side limiter.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate. Zero disables the limiter.
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// Burst is the bucket size. Defaults to 1 when a rate is set.
	Burst int `yaml:"burst"`
}

// Enabled reports whether a rate was configured.
func (r RateLimitConfig) Enabled() bool {
	return r.RequestsPerSecond > 0
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the file are expanded before validation.
// Relative env_files entries are resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(path)
	for i, f := range cfg.EnvFiles {
		if !filepath.IsAbs(f) {
			cfg.EnvFiles[i] = filepath.Join(dir, f)
		}
	}
	return cfg, nil
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in base_url, project_id, user_agent and
// env_files. Timeout defaults to 30s.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Timeout == 0 {
		cfg.Timeout = Duration(defaultTimeout)
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	var err error

	if c.BaseURL, err = expandEnvVars(c.BaseURL); err != nil {
		return fmt.Errorf("base_url: %w", err)
	}
	if c.ProjectID, err = expandEnvVars(c.ProjectID); err != nil {
		return fmt.Errorf("project_id: %w", err)
	}
	if c.UserAgent, err = expandEnvVars(c.UserAgent); err != nil {
		return fmt.Errorf("user_agent: %w", err)
	}
	c.ProjectID = strings.TrimSpace(c.ProjectID)

	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	parsedURL, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if parsedURL.Scheme == "" {
		return errors.New("base_url must have a scheme (http:// or https://)")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("base_url scheme must be http or https, got %q", parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return errors.New("base_url must have a host")
	}

	if c.Timeout.Duration() < minTimeout {
		return fmt.Errorf("timeout must be at least %s, got %s", minTimeout, c.Timeout.Duration())
	}
	if c.Timeout.Duration() > maxTimeout {
		return fmt.Errorf("timeout must not exceed %s, got %s", maxTimeout, c.Timeout.Duration())
	}

	if c.SignupPath != "" && !strings.HasPrefix(c.SignupPath, "/") {
		return fmt.Errorf("signup_path must start with /, got %q", c.SignupPath)
	}

	if c.RateLimit.RequestsPerSecond < 0 {
		return fmt.Errorf("rate_limit.requests_per_second cannot be negative, got %v", c.RateLimit.RequestsPerSecond)
	}
	if c.RateLimit.Burst < 0 {
		return fmt.Errorf("rate_limit.burst cannot be negative, got %d", c.RateLimit.Burst)
	}
	if c.RateLimit.Burst > 0 && !c.RateLimit.Enabled() {
		return errors.New("rate_limit.burst requires requests_per_second")
	}
	if c.RateLimit.Enabled() && c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 1
	}

	for i, f := range c.EnvFiles {
		expanded, err := expandEnvVars(f)
		if err != nil {
			return fmt.Errorf("env_files[%d]: %w", i, err)
		}
		if strings.TrimSpace(expanded) == "" {
			return fmt.Errorf("env_files[%d]: path is empty", i)
		}
		c.EnvFiles[i] = expanded
	}

	return nil
}
