package mockbaas

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/jpalmerr/baaskit"
)

const (
	// passwordHashCost is the minimum; this backend only ever holds test data.
	passwordHashCost = bcrypt.MinCost

	defaultPageLimit = 20
	maxPageLimit     = 100
)

type signupBody struct {
	UserID    string `json:"user_id" validate:"required,min=4,max=32,alphanum"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Name      string `json:"name" validate:"omitempty,max=50"`
	Email     string `json:"email" validate:"omitempty,email"`
	ProjectID string `json:"project_id"`
}

type loginBody struct {
	UserID    string `json:"user_id" validate:"required"`
	Password  string `json:"password" validate:"required"`
	ProjectID string `json:"project_id"`
}

type recipientBody struct {
	Name     string         `json:"name" validate:"required,max=50"`
	Phone    string         `json:"phone" validate:"required,mobile"`
	Metadata map[string]any `json:"metadata"`
}

func (s *Server) handleSignup(projectScoped bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body signupBody
		if err := s.bindAndValidate(c, &body); err != nil {
			return err
		}

		if projectScoped && body.ProjectID == "" {
			return failValidation([]baaskit.ValidationDetail{{Field: "project_id", Reason: "is required"}})
		}
		if body.ProjectID != "" && !s.store.HasProject(body.ProjectID) {
			return fail(baaskit.CodeNotFound, "project not found")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), passwordHashCost)
		if err != nil {
			return err
		}

		acc, err := s.store.CreateAccount(Account{
			Record: baaskit.AccountRecord{
				UserID:    body.UserID,
				Name:      body.Name,
				Email:     body.Email,
				ProjectID: body.ProjectID,
				Role:      "user",
				CreatedAt: now(),
			},
			PasswordHash: hash,
		})
		if errors.Is(err, ErrDuplicate) {
			return fail(baaskit.CodeAlreadyExists, "user id already in use")
		}
		if err != nil {
			return err
		}

		return success(c, http.StatusCreated, acc.Record, "signed up")
	}
}

func (s *Server) handleLogin(c echo.Context) error {
	var body loginBody
	if err := s.bindAndValidate(c, &body); err != nil {
		return err
	}

	acc, ok := s.store.Account(body.ProjectID, body.UserID)
	if !ok || bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(body.Password)) != nil {
		return fail(baaskit.CodeInvalidUser, "invalid user id or password")
	}

	token := uuid.NewString()
	s.store.CreateSession(token, acc.Record.ID)
	c.SetCookie(s.sessionCookie(baaskit.SessionCookieName(body.ProjectID), token, int(sessionTTL.Seconds())))

	return success(c, http.StatusOK, baaskit.LoginResult{AccessToken: token, TokenType: "cookie"}, "logged in")
}

func (s *Server) handleLogout(c echo.Context) error {
	acc, cookie, err := s.session(c)
	if err != nil {
		return err
	}
	s.store.DeleteSession(cookie.Value)
	c.SetCookie(s.sessionCookie(cookie.Name, "", -1))

	s.logger.Debug("session ended", "account_id", acc.Record.ID)
	return success(c, http.StatusOK, nil, "logged out")
}

func (s *Server) handleInfo(c echo.Context) error {
	acc, _, err := s.session(c)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, acc.Record, "")
}

func (s *Server) handleRegisterRecipient(c echo.Context) error {
	projectID := c.Param("projectId")
	if !s.store.HasProject(projectID) {
		return fail(baaskit.CodeNotFound, "project not found")
	}

	var body recipientBody
	if err := s.bindAndValidate(c, &body); err != nil {
		return err
	}

	rec, err := s.store.AddRecipient(projectID, baaskit.RecipientRecord{
		Name:      body.Name,
		Phone:     body.Phone,
		Metadata:  body.Metadata,
		CreatedAt: now(),
	})
	switch {
	case errors.Is(err, ErrDuplicate):
		return fail(baaskit.CodeAlreadyExists, "phone already registered")
	case errors.Is(err, ErrUnknownProject):
		return fail(baaskit.CodeNotFound, "project not found")
	case err != nil:
		return err
	}

	return success(c, http.StatusCreated, rec, "registered")
}

func (s *Server) handleListPosts(c echo.Context) error {
	kind, projectID, err := s.board(c)
	if err != nil {
		return err
	}

	offset, limit := 0, defaultPageLimit
	var keyword string
	if err := echo.QueryParamsBinder(c).
		Int("offset", &offset).
		Int("limit", &limit).
		String("keyword", &keyword).
		BindError(); err != nil {
		return fail(baaskit.CodeBadRequest, "offset and limit must be integers")
	}
	if offset < 0 || limit < 1 || limit > maxPageLimit {
		return fail(baaskit.CodeBadRequest, "offset must be >= 0 and limit between 1 and 100")
	}

	posts := s.store.Posts(kind, projectID, strings.TrimSpace(keyword))
	total := len(posts)
	start := min(offset, total)
	end := min(start+limit, total)

	return success(c, http.StatusOK, baaskit.PostList{
		Posts:  posts[start:end],
		Total:  total,
		Offset: offset,
		Limit:  limit,
	}, "")
}

func (s *Server) handleGetPost(c echo.Context) error {
	kind, projectID, err := s.board(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("postId"), 10, 64)
	if err != nil {
		return fail(baaskit.CodeInvalidRequest, "post id must be an integer")
	}

	post, ok := s.store.Post(kind, projectID, id)
	if !ok {
		return fail(baaskit.CodeNotFound, "post not found")
	}
	return success(c, http.StatusOK, post, "")
}

// board validates the :kind and :projectId path parameters.
func (s *Server) board(c echo.Context) (baaskit.BoardKind, string, error) {
	kind := baaskit.BoardKind(c.Param("kind"))
	if kind != baaskit.BoardNotice && kind != baaskit.BoardFAQ {
		return "", "", fail(baaskit.CodeNotFound, "board not found")
	}
	projectID := c.Param("projectId")
	if !s.store.HasProject(projectID) {
		return "", "", fail(baaskit.CodeNotFound, "project not found")
	}
	return kind, projectID, nil
}

// session finds the account behind the request's session cookie.
func (s *Server) session(c echo.Context) (Account, *http.Cookie, error) {
	var sawCookie bool
	for _, cookie := range c.Cookies() {
		if !strings.HasPrefix(cookie.Name, baaskit.SessionCookieName("")) {
			continue
		}
		sawCookie = true
		if acc, ok := s.store.Session(cookie.Value); ok {
			return acc, cookie, nil
		}
	}
	if sawCookie {
		return Account{}, nil, fail(baaskit.CodeInvalidToken, "session is invalid or has ended")
	}
	return Account{}, nil, fail(baaskit.CodeUnauthorized, "login required")
}

func (s *Server) sessionCookie(name, value string, maxAge int) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if s.cfg.SecureCookies {
		cookie.Secure = true
		cookie.SameSite = http.SameSiteNoneMode
	}
	return cookie
}
