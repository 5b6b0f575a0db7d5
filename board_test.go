package baaskit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBoard_ListQuery(t *testing.T) {
	tests := []struct {
		name string
		opts ListOptions
		want url.Values
	}{
		{"defaults omitted", ListOptions{}, url.Values{}},
		{"all set", ListOptions{Offset: 20, Limit: 10, Keyword: " hello "}, url.Values{
			"offset":  {"20"},
			"limit":   {"10"},
			"keyword": {"hello"},
		}},
		{"negative ignored", ListOptions{Offset: -1, Limit: -5}, url.Values{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, tt.opts.query()); diff != "" {
				t.Errorf("query() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBoard_ListAndGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s", r.Method)
		}
		switch r.URL.Path {
		case "/public/board/notice/proj/posts":
			if r.URL.Query().Get("limit") != "5" {
				t.Errorf("limit = %q", r.URL.Query().Get("limit"))
			}
			writeEnvelope(t, w, http.StatusOK, Envelope{
				Result: ResultSuccess,
				Data: successData(t, PostList{
					Posts: []PostRecord{{ID: 1, Title: "hello"}, {ID: 2, Title: "world"}},
					Total: 2,
					Limit: 5,
				}),
			})
		case "/public/board/faq/proj/posts/9":
			writeEnvelope(t, w, http.StatusOK, Envelope{
				Result: ResultSuccess,
				Data:   successData(t, PostRecord{ID: 9, Title: "why?"}),
			})
		case "/public/board/faq/proj/posts/404":
			writeEnvelope(t, w, http.StatusNotFound, Envelope{Result: ResultFail, ErrorCode: CodeNotFound})
		case "/public/board/faq/proj/posts":
			writeEnvelope(t, w, http.StatusOK, Envelope{Result: ResultSuccess})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL, WithProjectID("proj"))
	ctx := context.Background()

	list, err := client.Board().Notices(ctx, ListOptions{Limit: 5})
	if err != nil {
		t.Fatalf("Notices() error = %v", err)
	}
	if list.Total != 2 || len(list.Posts) != 2 || list.Posts[1].Title != "world" {
		t.Errorf("Notices() = %+v", list)
	}

	post, err := client.Board().FAQ(ctx, 9)
	if err != nil {
		t.Fatalf("FAQ() error = %v", err)
	}
	if post.ID != 9 || post.Title != "why?" {
		t.Errorf("FAQ() = %+v", post)
	}

	_, err = client.Board().Get(ctx, BoardFAQ, 404)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get(404) error = %v, want ErrNotFound", err)
	}

	empty, err := client.Board().FAQs(ctx, ListOptions{})
	if err != nil {
		t.Fatalf("FAQs() error = %v", err)
	}
	if empty == nil || len(empty.Posts) != 0 {
		t.Errorf("FAQs() with null data = %+v, want empty list", empty)
	}
}

func TestBoard_UnknownKind(t *testing.T) {
	client := newTestClient(t, "http://localhost", WithProjectID("proj"))
	if _, err := client.Board().List(context.Background(), BoardKind("blog"), ListOptions{}); err == nil {
		t.Error("List(blog) error = nil")
	}
}

func TestBoard_MissingProject(t *testing.T) {
	client := newTestClient(t, "http://localhost")
	_, err := client.Board().Notice(context.Background(), 1)
	if !errors.Is(err, ErrConfiguration) {
		t.Errorf("Notice() error = %v, want ErrConfiguration", err)
	}
}

func TestParseBoardKind(t *testing.T) {
	tests := []struct {
		in      string
		want    BoardKind
		wantErr bool
	}{
		{"notice", BoardNotice, false},
		{" FAQ ", BoardFAQ, false},
		{"blog", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseBoardKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseBoardKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseBoardKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
