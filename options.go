package baaskit

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// clientConfig holds mutable state during Client construction.
type clientConfig struct {
	baseURL        string
	projectID      string
	env            *EnvironmentSource
	httpClient     *http.Client
	jar            http.CookieJar
	timeout        time.Duration
	logger         *slog.Logger
	signupPath     string
	rateLimit      rate.Limit
	rateBurst      int
	userAgent      string
	sessionToken   string
	sessionProject string
	observers      []func(CallResult)
}

// Option is a function that configures a [Client] during construction.
//
// Option implements the functional options pattern. Options return an
// error if validation fails, which [New] returns unchanged.
type Option func(*clientConfig) error

// WithBaseURL sets the origin of the backend, e.g. https://api.example.com.
//
// The base URL is fixed per deployment (local or production) and is
// required. A trailing slash is ignored.
//
// Returns an error if the URL is empty.
func WithBaseURL(baseURL string) Option {
	return func(cfg *clientConfig) error {
		baseURL = strings.TrimSpace(baseURL)
		if baseURL == "" {
			return errors.New("base URL cannot be empty")
		}
		cfg.baseURL = baseURL
		return nil
	}
}

// WithProjectID sets the project identifier explicitly. It takes
// precedence over every environment variable; see [ResolveProjectID].
func WithProjectID(projectID string) Option {
	return func(cfg *clientConfig) error {
		cfg.projectID = projectID
		return nil
	}
}

// WithEnvironment sets the environments consulted when the project
// identifier is not given explicitly. Defaults to [OSEnvironment].
//
// Example:
//
//	bundle, err := baaskit.DotEnvEnvironment(".env", ".env.local")
//	if err != nil {
//	    return err
//	}
//	client, err := baaskit.New(
//	    baaskit.WithBaseURL("https://api.example.com"),
//	    baaskit.WithEnvironment(baaskit.EnvironmentSource{
//	        Process: baaskit.LayeredEnvironment(baaskit.OSEnvironment().Process, bundle),
//	        Bundle:  bundle,
//	    }),
//	)
func WithEnvironment(env EnvironmentSource) Option {
	return func(cfg *clientConfig) error {
		cfg.env = &env
		return nil
	}
}

// WithHTTPClient sets the underlying HTTP client. The client is copied;
// if it has no cookie jar one is created for the copy.
//
// Returns an error if the client is nil.
func WithHTTPClient(hc *http.Client) Option {
	return func(cfg *clientConfig) error {
		if hc == nil {
			return errors.New("http client cannot be nil")
		}
		cfg.httpClient = hc
		return nil
	}
}

// WithCookieJar sets the jar that holds session cookies, replacing the
// jar of any client given to [WithHTTPClient]. Sharing one jar between
// clients shares their sessions.
//
// Returns an error if the jar is nil.
func WithCookieJar(jar http.CookieJar) Option {
	return func(cfg *clientConfig) error {
		if jar == nil {
			return errors.New("cookie jar cannot be nil")
		}
		cfg.jar = jar
		return nil
	}
}

// WithTimeout sets the deadline applied to calls whose context has none.
// Defaults to 30 seconds. Calls made with a context that already carries a
// deadline use that deadline instead.
//
// Returns an error if the duration is zero or negative.
func WithTimeout(d time.Duration) Option {
	return func(cfg *clientConfig) error {
		if d <= 0 {
			return errors.New("timeout must be positive")
		}
		cfg.timeout = d
		return nil
	}
}

// WithLogger sets a custom [slog.Logger]. If not specified, [slog.Default]
// is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *clientConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithSignupPath overrides the signup endpoint for every call made by the
// client. Deployments disagree on the path; [SignupPath] is the default and
// [ProjectSignupPath] the project-scoped variant. Individual calls can still
// override it with [WithPath].
//
// Returns an error if the path does not start with "/".
func WithSignupPath(path string) Option {
	return func(cfg *clientConfig) error {
		if !strings.HasPrefix(path, "/") {
			return errors.New("signup path must start with /")
		}
		cfg.signupPath = path
		return nil
	}
}

// WithRateLimit caps outgoing requests to perSecond with the given burst.
// Calls wait for a token, honouring their context. There is no retry: a
// server-side RATE_LIMIT_EXCEEDED is still returned to the caller.
//
// Returns an error if perSecond is not positive.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(cfg *clientConfig) error {
		if perSecond <= 0 {
			return errors.New("rate limit must be positive")
		}
		cfg.rateLimit = rate.Limit(perSecond)
		cfg.rateBurst = burst
		return nil
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(cfg *clientConfig) error {
		cfg.userAgent = ua
		return nil
	}
}

// WithSessionToken seeds the cookie jar with a session cookie, as if a
// previous login had set it. projectID selects the cookie name; empty means
// the administrative access_token cookie. See [SessionCookieName].
//
// Returns an error if the token is empty.
func WithSessionToken(token, projectID string) Option {
	return func(cfg *clientConfig) error {
		if token == "" {
			return errors.New("session token cannot be empty")
		}
		cfg.sessionToken = token
		cfg.sessionProject = projectID
		return nil
	}
}

// WithCallObserver registers a function called after every request with a
// [CallResult] describing its outcome. UI layers use it to drive loading
// and error state without wrapping each call.
//
// Observers run synchronously on the calling goroutine, in registration
// order. Panics are recovered and logged. Nil observers are ignored.
func WithCallObserver(fn func(CallResult)) Option {
	return func(cfg *clientConfig) error {
		if fn == nil {
			return nil
		}
		cfg.observers = append(cfg.observers, fn)
		return nil
	}
}
