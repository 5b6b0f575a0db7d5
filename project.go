package baaskit

import "strings"

// Variable names consulted by [ResolveProjectID], highest precedence first.
const (
	EnvProjectID      = "PROJECT_ID"
	EnvReactProjectID = "REACT_APP_PROJECT_ID"
	EnvNextProjectID  = "NEXT_PUBLIC_PROJECT_ID"
	EnvViteProjectID  = "VITE_PROJECT_ID"
)

const (
	settingProjectID   = "project id"
	explicitSourceName = "explicit argument"
)

// ProjectContext scopes project-level endpoints. It is resolved once per
// [Client] and never changes afterwards.
type ProjectContext struct {
	ProjectID string
}

// ResolveProjectID returns the project identifier from the first non-empty
// source, in this order:
//
//  1. explicit
//  2. PROJECT_ID in env.Process
//  3. REACT_APP_PROJECT_ID in env.Process
//  4. NEXT_PUBLIC_PROJECT_ID in env.Process
//  5. VITE_PROJECT_ID in env.Bundle
//
// Values are trimmed; whitespace-only values count as empty. When nothing
// yields a value a [*ConfigurationError] naming every variable is returned.
func ResolveProjectID(explicit string, env EnvironmentSource) (string, error) {
	if v := strings.TrimSpace(explicit); v != "" {
		return v, nil
	}

	sources := []struct {
		env Environment
		key string
	}{
		{env.Process, EnvProjectID},
		{env.Process, EnvReactProjectID},
		{env.Process, EnvNextProjectID},
		{env.Bundle, EnvViteProjectID},
	}

	checked := make([]string, 0, len(sources))
	for _, src := range sources {
		if v, ok := lookup(src.env, src.key); ok {
			if v = strings.TrimSpace(v); v != "" {
				return v, nil
			}
		}
		checked = append(checked, src.key)
	}

	return "", &ConfigurationError{
		Setting: settingProjectID,
		Checked: append([]string{explicitSourceName}, checked...),
	}
}
