package baaskit

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Environment looks up named configuration values.
type Environment interface {
	LookupEnv(key string) (string, bool)
}

// EnvironmentSource is the explicit set of environments the SDK reads
// configuration from. Nothing is read from the process implicitly.
//
// Process holds server-side and framework-prefixed variables. Bundle holds
// values a bundler injects at build time (the Vite import-time environment);
// in Go these usually come from .env files.
type EnvironmentSource struct {
	Process Environment
	Bundle  Environment
}

// OSEnvironment returns a source whose Process environment is the operating
// system environment. Bundle is empty.
func OSEnvironment() EnvironmentSource {
	return EnvironmentSource{Process: osEnv{}}
}

type osEnv struct{}

func (osEnv) LookupEnv(key string) (string, bool) {
	return os.LookupEnv(key)
}

// MapEnvironment is an [Environment] backed by a map.
type MapEnvironment map[string]string

// LookupEnv implements [Environment].
func (m MapEnvironment) LookupEnv(key string) (string, bool) {
	v, ok := m[key]
	return v, ok
}

// LayeredEnvironment returns an [Environment] that consults envs in order
// and returns the first value found. Nil entries are skipped.
func LayeredEnvironment(envs ...Environment) Environment {
	return layered(envs)
}

type layered []Environment

func (l layered) LookupEnv(key string) (string, bool) {
	for _, env := range l {
		if env == nil {
			continue
		}
		if v, ok := env.LookupEnv(key); ok {
			return v, true
		}
	}
	return "", false
}

// DotEnvEnvironment reads the given .env files into a [MapEnvironment].
// Later files override earlier ones, matching how bundlers layer
// .env, .env.local and mode-specific files.
func DotEnvEnvironment(files ...string) (MapEnvironment, error) {
	env := make(MapEnvironment)
	for _, file := range files {
		values, err := godotenv.Read(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read env file %s: %w", file, err)
		}
		for k, v := range values {
			env[k] = v
		}
	}
	return env, nil
}

func lookup(env Environment, key string) (string, bool) {
	if env == nil {
		return "", false
	}
	return env.LookupEnv(key)
}
