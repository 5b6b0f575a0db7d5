package baaskit

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jpalmerr/baaskit/internal/transport"
)

const (
	defaultTimeout = 30 * time.Second
	defaultUA      = "baaskit-go"
)

// Client talks to one backend deployment.
//
// Client is created with [New] and is safe for concurrent use. It keeps two
// pieces of shared state: the cookie jar holding the session, and the
// [ProjectContext], resolved on first use and read-only afterwards.
//
// The typical lifecycle is:
//
//	client, err := baaskit.New(baaskit.WithBaseURL("https://api.example.com"))
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	if _, err := client.Account().Login(ctx, baaskit.LoginRequest{UserID: "u", Password: "p"}); err != nil {
//	    return err
//	}
//	info, err := client.Account().Info(ctx)
type Client struct {
	baseURL    *url.URL
	base       string
	http       *transport.Client
	logger     *slog.Logger
	signupPath string
	userAgent  string
	observers  []func(CallResult)

	explicitProjectID string
	env               EnvironmentSource

	projectOnce sync.Once
	project     ProjectContext
	projectErr  error
}

// New creates a [Client] with the given options.
//
// [WithBaseURL] is required. Other options have defaults:
//   - Timeout: 30 seconds for calls whose context has no deadline
//   - Environment: [OSEnvironment]
//   - Logger: [slog.Default]
//   - Signup path: [SignupPath]
//
// The project identifier is not resolved here; account endpoints do not
// need it. Project-scoped calls resolve it on first use and report a
// [*ConfigurationError] if no source provides it.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		timeout:    defaultTimeout,
		signupPath: SignupPath,
		userAgent:  defaultUA,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.baseURL == "" {
		return nil, errors.New("base URL is required")
	}
	parsed, err := url.Parse(cfg.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errors.New("base URL must have a scheme (http:// or https://)")
	}
	if parsed.Host == "" {
		return nil, errors.New("base URL must have a host")
	}

	httpClient, err := transport.NewClient(transport.Config{
		HTTPClient: cfg.httpClient,
		Jar:        cfg.jar,
		Timeout:    cfg.timeout,
		RateLimit:  cfg.rateLimit,
		Burst:      cfg.rateBurst,
	})
	if err != nil {
		return nil, err
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	env := OSEnvironment()
	if cfg.env != nil {
		env = *cfg.env
	}

	c := &Client{
		baseURL:           parsed,
		base:              strings.TrimRight(parsed.String(), "/"),
		http:              httpClient,
		logger:            logger,
		signupPath:        cfg.signupPath,
		userAgent:         cfg.userAgent,
		observers:         cfg.observers,
		explicitProjectID: cfg.projectID,
		env:               env,
	}

	if cfg.sessionToken != "" {
		c.SetSessionToken(cfg.sessionToken, cfg.sessionProject)
	}

	return c, nil
}

// BaseURL returns the configured origin without a trailing slash.
func (c *Client) BaseURL() string {
	return c.base
}

// Project returns the resolved [ProjectContext].
//
// The first call resolves the identifier via [ResolveProjectID]; the
// result, including a failure, is cached for the client's lifetime.
func (c *Client) Project() (ProjectContext, error) {
	c.projectOnce.Do(func() {
		id, err := ResolveProjectID(c.explicitProjectID, c.env)
		if err != nil {
			c.projectErr = err
			return
		}
		c.project = ProjectContext{ProjectID: id}
		c.logger.Debug("project resolved", "project_id", id)
	})
	return c.project, c.projectErr
}

// SessionCookieName returns the cookie the server uses for sessions:
// access_token for administrative users and access_token_{projectID} for
// project users.
func SessionCookieName(projectID string) string {
	if projectID == "" {
		return "access_token"
	}
	return "access_token_" + projectID
}

// SessionToken returns the session cookie value currently held for
// projectID, if any.
func (c *Client) SessionToken(projectID string) (string, bool) {
	name := SessionCookieName(projectID)
	for _, cookie := range c.http.Jar().Cookies(c.baseURL) {
		if cookie.Name == name {
			return cookie.Value, true
		}
	}
	return "", false
}

// SetSessionToken stores a session cookie for projectID in the jar, as if
// the server had set it.
func (c *Client) SetSessionToken(token, projectID string) {
	c.http.Jar().SetCookies(c.baseURL, []*http.Cookie{{
		Name:     SessionCookieName(projectID),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.baseURL.Scheme == "https",
	}})
}

// hasSession reports whether any session cookie is held.
func (c *Client) hasSession() bool {
	for _, cookie := range c.http.Jar().Cookies(c.baseURL) {
		if strings.HasPrefix(cookie.Name, "access_token") {
			return true
		}
	}
	return false
}

// Account returns the account endpoints.
func (c *Client) Account() *AccountService {
	return &AccountService{client: c}
}

// Recipients returns the recipient (messaging) endpoints.
func (c *Client) Recipients() *RecipientService {
	return &RecipientService{client: c}
}

// Board returns the public board endpoints.
func (c *Client) Board() *BoardService {
	return &BoardService{client: c}
}

// Close releases idle connections. The client remains usable.
func (c *Client) Close() {
	c.http.Close()
}
