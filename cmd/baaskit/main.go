// Package main is the entry point for the baaskit CLI.
//
// The CLI wraps the SDK for scripting and manual checks against a
// deployment. Every call is one request; sessions do not survive between
// invocations unless the token printed by login is passed back with --token.
//
// Usage:
//
//	baaskit validate -c baaskit.yaml
//	baaskit account login -c baaskit.yaml --user-id alice01 --password ...
//	baaskit account info -c baaskit.yaml --token <access_token>
//	baaskit recipient register --base-url http://localhost:8080 --project-id demo --name Kim --phone 01012345678
//	baaskit board list --kind all --keyword phone
//	baaskit version
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jpalmerr/baaskit"
	"github.com/jpalmerr/baaskit/config"
	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
var rootCmd = &cobra.Command{
	Use:   "baaskit",
	Short: "Command-line client for the BaaS account, recipient and board APIs",
	Long: `baaskit calls a Backend-as-a-Service deployment from the command line.

Connection settings come from a YAML config file, flags, or both; flags
win. The project identifier falls back to PROJECT_ID,
REACT_APP_PROJECT_ID and NEXT_PUBLIC_PROJECT_ID in the environment, and to
VITE_PROJECT_ID in any --env-file.

Quick start:
  1. Create a config file (baaskit.yaml)
  2. Run: baaskit validate -c baaskit.yaml
  3. Run: baaskit board list -c baaskit.yaml --kind notice

Example config:
  base_url: https://api.example.com
  project_id: ${PROJECT_ID:-}
  timeout: 10s
  env_files:
    - .env`,
	SilenceUsage: true,
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this baaskit binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "baaskit %s\n", version)
		fmt.Fprintf(out, "  commit: %s\n", commit)
		fmt.Fprintf(out, "  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config", "c", "", "path to config file")
	flags.String("base-url", "", "backend origin, overrides base_url")
	flags.String("project-id", "", "project identifier, overrides project_id and the environment")
	flags.StringSlice("env-file", nil, "dotenv file consulted for the project identifier (repeatable)")
	flags.String("token", "", "session token from a previous login")
	flags.String("token-project", "", "project whose session cookie carries --token; empty for the account cookie")
	flags.String("log-level", "warn", "log level: debug, info, warn, error")
}

// newLogger creates a JSON logger for CLI use.
func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", level)
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})), nil
}

// clientOptions collects client options from the config file and flags.
// Options apply in order, so flags appended after the config file win.
func clientOptions(cmd *cobra.Command) ([]baaskit.Option, error) {
	flags := cmd.Flags()
	var opts []baaskit.Option

	if path, _ := flags.GetString("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		cfgOpts, err := config.BuildOptions(cfg)
		if err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
		opts = append(opts, cfgOpts...)
	}

	if baseURL, _ := flags.GetString("base-url"); baseURL != "" {
		opts = append(opts, baaskit.WithBaseURL(baseURL))
	}

	if projectID, _ := flags.GetString("project-id"); projectID != "" {
		opts = append(opts, baaskit.WithProjectID(projectID))
	}

	if files, _ := flags.GetStringSlice("env-file"); len(files) > 0 {
		bundle, err := baaskit.DotEnvEnvironment(files...)
		if err != nil {
			return nil, fmt.Errorf("--env-file: %w", err)
		}
		opts = append(opts, baaskit.WithEnvironment(baaskit.EnvironmentSource{
			Process: baaskit.LayeredEnvironment(baaskit.OSEnvironment().Process, bundle),
			Bundle:  bundle,
		}))
	}

	if token, _ := flags.GetString("token"); token != "" {
		tokenProject, _ := flags.GetString("token-project")
		opts = append(opts, baaskit.WithSessionToken(token, tokenProject))
	}

	level, _ := flags.GetString("log-level")
	logger, err := newLogger(level)
	if err != nil {
		return nil, err
	}
	opts = append(opts, baaskit.WithLogger(logger))

	return opts, nil
}

// newClient builds a client from the config file and flags.
func newClient(cmd *cobra.Command) (*baaskit.Client, error) {
	opts, err := clientOptions(cmd)
	if err != nil {
		return nil, err
	}
	client, err := baaskit.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// describe adds field errors and the request id to an SDK error so they
// reach the terminal; cobra prints only Error().
func describe(err error) error {
	if err == nil {
		return nil
	}
	var b strings.Builder
	for _, d := range baaskit.FieldErrors(err) {
		// the message-only fallback entry repeats Error()
		if d.Field == "" {
			continue
		}
		fmt.Fprintf(&b, "\n  %s: %s", d.Field, d.Reason)
	}
	if id := baaskit.RequestID(err); id != "" {
		fmt.Fprintf(&b, "\n  request id: %s", id)
	}
	if b.Len() == 0 {
		return err
	}
	return fmt.Errorf("%w%s", err, b.String())
}
