package baaskit

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

// Account endpoint paths.
const (
	SignupPath        = "/account/signup"
	ProjectSignupPath = "/account/signup-project"
	LoginPath         = "/account/login"
	LogoutPath        = "/account/logout"
	InfoPath          = "/account/info"
)

// callConfig holds per-call overrides.
type callConfig struct {
	path string
}

// CallOption adjusts a single call.
type CallOption func(*callConfig) error

// WithPath overrides the endpoint path for one call. It exists for
// endpoints whose path differs between deployments, such as signup.
//
// Returns an error if the path does not start with "/".
func WithPath(path string) CallOption {
	return func(cfg *callConfig) error {
		if !strings.HasPrefix(path, "/") {
			return errors.New("path must start with /")
		}
		cfg.path = path
		return nil
	}
}

// AccountService binds the account endpoints. Obtain one from
// [Client.Account].
//
// Login and Logout toggle a server-side session represented only by the
// session cookie; the service itself holds no session state.
type AccountService struct {
	client *Client
}

// Signup creates an account. The path defaults to the client's signup path
// and can be overridden per call with [WithPath].
func (s *AccountService) Signup(ctx context.Context, req SignupRequest, opts ...CallOption) (*AccountRecord, error) {
	cfg := callConfig{path: s.client.signupPath}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	rec, err := invoke[*AccountRecord](ctx, s.client, call{
		method: http.MethodPost,
		path:   cfg.path,
		body:   req,
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Login authenticates and stores the session cookie the server sets.
func (s *AccountService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	res, err := invoke[*LoginResult](ctx, s.client, call{
		method: http.MethodPost,
		path:   LoginPath,
		body:   req,
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Logout ends the current session. The server clears the cookie.
func (s *AccountService) Logout(ctx context.Context) error {
	_, err := invoke[any](ctx, s.client, call{
		method:       http.MethodPost,
		path:         LogoutPath,
		requiresAuth: true,
	})
	return err
}

// Info returns the account of the current session.
func (s *AccountService) Info(ctx context.Context) (*AccountRecord, error) {
	rec, err := invoke[*AccountRecord](ctx, s.client, call{
		method:       http.MethodGet,
		path:         InfoPath,
		requiresAuth: true,
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
