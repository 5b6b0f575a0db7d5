package baaskit

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// BoardKind selects one of the public boards.
type BoardKind string

const (
	BoardNotice BoardKind = "notice"
	BoardFAQ    BoardKind = "faq"
)

// BoardKinds returns every board kind.
func BoardKinds() []BoardKind {
	return []BoardKind{BoardNotice, BoardFAQ}
}

// ParseBoardKind converts a user-supplied name into a [BoardKind].
func ParseBoardKind(s string) (BoardKind, error) {
	switch BoardKind(strings.ToLower(strings.TrimSpace(s))) {
	case BoardNotice:
		return BoardNotice, nil
	case BoardFAQ:
		return BoardFAQ, nil
	default:
		return "", fmt.Errorf("unknown board %q (expected notice or faq)", s)
	}
}

// ListOptions filters a board listing. Zero values are omitted from the
// query so the server defaults apply.
type ListOptions struct {
	Offset  int
	Limit   int
	Keyword string
}

func (o ListOptions) query() url.Values {
	q := url.Values{}
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if kw := strings.TrimSpace(o.Keyword); kw != "" {
		q.Set("keyword", kw)
	}
	return q
}

// BoardService binds the public board endpoints. Obtain one from
// [Client.Board]. None of them require a session.
type BoardService struct {
	client *Client
}

// List returns one page of posts from the given board.
func (s *BoardService) List(ctx context.Context, kind BoardKind, opts ListOptions) (*PostList, error) {
	base, err := s.postsPath(kind)
	if err != nil {
		return nil, err
	}

	list, err := invoke[*PostList](ctx, s.client, call{
		method: http.MethodGet,
		path:   base,
		query:  opts.query(),
	})
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = &PostList{}
	}
	return list, nil
}

// Get returns a single post from the given board.
func (s *BoardService) Get(ctx context.Context, kind BoardKind, postID int64) (*PostRecord, error) {
	base, err := s.postsPath(kind)
	if err != nil {
		return nil, err
	}

	post, err := invoke[*PostRecord](ctx, s.client, call{
		method: http.MethodGet,
		path:   base + "/" + strconv.FormatInt(postID, 10),
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Notices lists the notice board.
func (s *BoardService) Notices(ctx context.Context, opts ListOptions) (*PostList, error) {
	return s.List(ctx, BoardNotice, opts)
}

// Notice returns one notice.
func (s *BoardService) Notice(ctx context.Context, postID int64) (*PostRecord, error) {
	return s.Get(ctx, BoardNotice, postID)
}

// FAQs lists the FAQ board.
func (s *BoardService) FAQs(ctx context.Context, opts ListOptions) (*PostList, error) {
	return s.List(ctx, BoardFAQ, opts)
}

// FAQ returns one FAQ entry.
func (s *BoardService) FAQ(ctx context.Context, postID int64) (*PostRecord, error) {
	return s.Get(ctx, BoardFAQ, postID)
}

func (s *BoardService) postsPath(kind BoardKind) (string, error) {
	if kind != BoardNotice && kind != BoardFAQ {
		return "", fmt.Errorf("unknown board %q", kind)
	}
	project, err := s.client.Project()
	if err != nil {
		return "", err
	}
	return "/public/board/" + string(kind) + "/" + url.PathEscape(project.ProjectID) + "/posts", nil
}
