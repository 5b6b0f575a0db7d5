package config

import (
	"fmt"

	"github.com/jpalmerr/baaskit"
)

// BuildOptions converts parsed configuration into client options.
//
// Env files are read here, not in [Parse], so a config can be validated
// without the files being present. Values from the files are layered under
// the process environment: a variable set in the shell wins over the same
// variable in a file. VITE_PROJECT_ID is only taken from the files, the way
// a bundler injects it.
func BuildOptions(cfg *Config) ([]baaskit.Option, error) {
	opts := []baaskit.Option{
		baaskit.WithBaseURL(cfg.BaseURL),
	}

	if cfg.ProjectID != "" {
		opts = append(opts, baaskit.WithProjectID(cfg.ProjectID))
	}

	if cfg.Timeout != 0 {
		opts = append(opts, baaskit.WithTimeout(cfg.Timeout.Duration()))
	}

	if cfg.SignupPath != "" {
		opts = append(opts, baaskit.WithSignupPath(cfg.SignupPath))
	}

	if cfg.UserAgent != "" {
		opts = append(opts, baaskit.WithUserAgent(cfg.UserAgent))
	}

	if cfg.RateLimit.Enabled() {
		opts = append(opts, baaskit.WithRateLimit(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst))
	}

	if len(cfg.EnvFiles) > 0 {
		bundle, err := baaskit.DotEnvEnvironment(cfg.EnvFiles...)
		if err != nil {
			return nil, fmt.Errorf("env_files: %w", err)
		}
		opts = append(opts, baaskit.WithEnvironment(baaskit.EnvironmentSource{
			Process: baaskit.LayeredEnvironment(baaskit.OSEnvironment().Process, bundle),
			Bundle:  bundle,
		}))
	}

	return opts, nil
}
