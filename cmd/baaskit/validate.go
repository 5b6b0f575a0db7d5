package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/jpalmerr/baaskit"
	"github.com/jpalmerr/baaskit/config"
	"github.com/spf13/cobra"
)

// validateCmd validates a config file without calling the backend.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a baaskit configuration file without calling the backend.

This command parses the YAML, expands environment variables, validates
all fields, loads any env_files and resolves the project identifier the
way a client would. It's useful for CI/CD pipelines or pre-deployment checks.

A missing project identifier is reported but is not an error: account
endpoints work without one.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  baaskit validate -c baaskit.yaml
  baaskit validate --config /etc/baaskit/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	if configFile == "" {
		return errors.New(`required flag(s) "config" not set`)
	}

	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	opts, err := config.BuildOptions(cfg)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	client, err := baaskit.New(opts...)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	defer client.Close()

	project := "not set (account endpoints only)"
	if p, err := client.Project(); err == nil {
		project = p.ProjectID
	}

	signupPath := cfg.SignupPath
	if signupPath == "" {
		signupPath = baaskit.SignupPath
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Config is valid!\n")
	fmt.Fprintf(out, "  Base URL:    %s\n", client.BaseURL())
	fmt.Fprintf(out, "  Project ID:  %s\n", project)
	fmt.Fprintf(out, "  Timeout:     %s\n", cfg.Timeout.Duration())
	fmt.Fprintf(out, "  Signup path: %s\n", signupPath)
	printRateLimit(out, cfg.RateLimit)
	fmt.Fprintf(out, "  Env files:   %d\n", len(cfg.EnvFiles))

	return nil
}

func printRateLimit(out io.Writer, rl config.RateLimitConfig) {
	if !rl.Enabled() {
		fmt.Fprintf(out, "  Rate limit:  disabled\n")
		return
	}
	fmt.Fprintf(out, "  Rate limit:  %g req/s, burst %d\n", rl.RequestsPerSecond, rl.Burst)
}
