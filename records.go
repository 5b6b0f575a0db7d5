package baaskit

// SignupRequest is the body of a signup call.
type SignupRequest struct {
	UserID    string `json:"user_id"`
	Password  string `json:"password"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
}

// LoginRequest is the body of a login call. ProjectID selects a
// project-scoped session; leave it empty for an administrative login.
type LoginRequest struct {
	UserID    string `json:"user_id"`
	Password  string `json:"password"`
	ProjectID string `json:"project_id,omitempty"`
}

// LoginResult is returned by a successful login. The server also sets the
// session cookie, which the client keeps.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// AccountRecord mirrors the server's account JSON.
type AccountRecord struct {
	ID        int64  `json:"id"`
	UserID    string `json:"user_id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	ProjectID string `json:"project_id,omitempty"`
	Role      string `json:"role,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// RecipientRequest registers a contact. Metadata is free-form and passed
// through untouched.
type RecipientRequest struct {
	Name     string         `json:"name"`
	Phone    string         `json:"phone"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// RecipientRecord mirrors the server's recipient JSON.
type RecipientRecord struct {
	ID        int64          `json:"id"`
	ProjectID string         `json:"project_id,omitempty"`
	Name      string         `json:"name"`
	Phone     string         `json:"phone"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt string         `json:"created_at,omitempty"`
}

// PostRecord mirrors a board post.
type PostRecord struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content,omitempty"`
	Author    string `json:"author,omitempty"`
	Views     int    `json:"views,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// PostList is one page of board posts.
type PostList struct {
	Posts  []PostRecord `json:"posts"`
	Total  int          `json:"total"`
	Offset int          `json:"offset"`
	Limit  int          `json:"limit"`
}
