package mockbaas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/jpalmerr/baaskit"
)

const (
	// shutdownTimeout bounds graceful shutdown after the context is cancelled.
	shutdownTimeout = 5 * time.Second

	// sessionTTL is the cookie lifetime handed out on login.
	sessionTTL = 24 * time.Hour

	// timestampLayout matches the server's zone-less local timestamps.
	timestampLayout = "2006-01-02T15:04:05"
)

var kst = time.FixedZone("KST", 9*60*60)

// Config tunes the mock backend.
type Config struct {
	// SecureCookies marks session cookies Secure with SameSite=None, as the
	// production deployment does.
	SecureCookies bool

	// RateLimit caps requests per second per client IP. Zero disables it.
	// Denied requests get RATE_LIMIT_EXCEEDED.
	RateLimit rate.Limit
}

// Server serves the backend API over echo.
//
// Routes:
//   - POST /account/signup, /account/signup-project
//   - POST /account/login, /account/logout
//   - GET  /account/info
//   - POST /recipient/:projectId
//   - GET  /public/board/:kind/:projectId/posts[/:postId]
type Server struct {
	store      Store
	logger     *slog.Logger
	cfg        Config
	echo       *echo.Echo
	validate   *validator.Validate
	httpServer *http.Server
}

// NewServer creates a [Server] backed by st. The server is not listening
// until [Server.Start] is called; [Server.Handler] can be mounted directly
// in tests.
func NewServer(st Store, logger *slog.Logger, cfg Config) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		store:    st,
		logger:   logger,
		cfg:      cfg,
		echo:     echo.New(),
		validate: newValidator(),
	}
	s.routes()
	return s
}

// Handler returns the HTTP handler for all routes.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) routes() {
	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogRequestID: true,
		LogStatus:    true,
		LogURIPath:   true,
		LogMethod:    true,
		LogLatency:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.logger.LogAttrs(c.Request().Context(), slog.LevelInfo, "request",
				slog.String("request_id", v.RequestID),
				slog.String("method", v.Method),
				slog.String("path", v.URIPath),
				slog.Int("status", v.Status),
				slog.Int64("latency_ms", v.Latency.Milliseconds()),
			)
			return nil
		},
	}))
	if s.cfg.RateLimit > 0 {
		e.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
			Store: middleware.NewRateLimiterMemoryStore(s.cfg.RateLimit),
			DenyHandler: func(c echo.Context, identifier string, err error) error {
				return fail(baaskit.CodeRateLimitExceeded, "too many requests")
			},
		}))
	}

	e.POST(baaskit.SignupPath, s.handleSignup(false))
	e.POST(baaskit.ProjectSignupPath, s.handleSignup(true))
	e.POST(baaskit.LoginPath, s.handleLogin)
	e.POST(baaskit.LogoutPath, s.handleLogout)
	e.GET(baaskit.InfoPath, s.handleInfo)
	e.POST("/recipient/:projectId", s.handleRegisterRecipient)
	e.GET("/public/board/:kind/:projectId/posts", s.handleListPosts)
	e.GET("/public/board/:kind/:projectId/posts/:postId", s.handleGetPost)
}

// Start begins serving on addr in a background goroutine and returns the
// bound address, so addr may use port 0.
//
// The server runs until ctx is cancelled, then shuts down gracefully with a
// 5-second timeout.
func (s *Server) Start(ctx context.Context, addr string) (net.Addr, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to bind to %s: %w", addr, err)
	}

	s.httpServer = &http.Server{
		Handler:           s.echo,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("http server shutdown error", "error", err)
		}
	}()

	return ln.Addr(), nil
}

// failure is a handler error rendered as a FAIL envelope.
type failure struct {
	status  int
	code    baaskit.ErrorCode
	message string
	detail  []baaskit.ValidationDetail
}

func (f *failure) Error() string {
	return string(f.code) + ": " + f.message
}

func fail(code baaskit.ErrorCode, message string) *failure {
	return &failure{status: code.HTTPStatus(), code: code, message: message}
}

func failValidation(detail []baaskit.ValidationDetail) *failure {
	f := fail(baaskit.CodeValidationError, "validation failed")
	f.detail = detail
	return f
}

// handleError renders every error as a FAIL envelope.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var f *failure
	if !errors.As(err, &f) {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			f = failureFromHTTP(he)
		} else {
			s.logger.Error("unhandled handler error", "path", c.Request().URL.Path, "error", err)
			f = fail(baaskit.CodeInternalServerError, "internal server error")
		}
	}

	env := baaskit.Envelope{
		Result:    baaskit.ResultFail,
		ErrorCode: f.code,
		Message:   f.message,
		Timestamp: now(),
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
		Path:      c.Request().URL.Path,
		Detail:    f.detail,
	}
	if err := c.JSON(f.status, env); err != nil {
		s.logger.Error("failed to send error response", "error", err)
	}
}

func failureFromHTTP(he *echo.HTTPError) *failure {
	msg := http.StatusText(he.Code)
	if s, ok := he.Message.(string); ok && s != "" {
		msg = s
	}

	switch he.Code {
	case http.StatusNotFound:
		return fail(baaskit.CodeNotFound, msg)
	case http.StatusMethodNotAllowed:
		return fail(baaskit.CodeUnsupportedMethod, msg)
	case http.StatusUnauthorized:
		return fail(baaskit.CodeUnauthorized, msg)
	case http.StatusForbidden:
		return fail(baaskit.CodeForbidden, msg)
	case http.StatusTooManyRequests:
		return fail(baaskit.CodeRateLimitExceeded, msg)
	}
	if he.Code >= 400 && he.Code < 500 {
		return fail(baaskit.CodeBadRequest, msg)
	}
	return fail(baaskit.CodeInternalServerError, msg)
}

// success writes a SUCCESS envelope.
func success(c echo.Context, status int, data any, message string) error {
	env := baaskit.Envelope{Result: baaskit.ResultSuccess, Message: message}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to encode data: %w", err)
		}
		env.Data = raw
	}
	return c.JSON(status, env)
}

// bindAndValidate decodes the JSON body into dst and runs struct validation.
func (s *Server) bindAndValidate(c echo.Context, dst any) error {
	if err := c.Bind(dst); err != nil {
		return fail(baaskit.CodeBadRequest, "malformed request body")
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return failValidation(validationDetails(verrs))
		}
		return err
	}
	return nil
}

func now() string {
	return time.Now().In(kst).Format(timestampLayout)
}
