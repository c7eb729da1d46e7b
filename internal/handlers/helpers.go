package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"marianconnect/internal/middleware"
	"marianconnect/internal/models"
	"marianconnect/internal/upload"
)

// Page sizes.
const (
	adminPerPage     = 20
	publicPerPage    = 9
	directoryPerPage = 12
	searchLimit      = 10
	relatedLimit     = 3
	maxSearchLen     = 100
)

// pager is a Pagination plus the links to its neighbours, keeping the
// other query parameters of the current request.
type pager struct {
	models.Pagination
	PrevURL string
	NextURL string
}

func newPager(r *http.Request, p models.Pagination) pager {
	return pager{
		Pagination: p,
		PrevURL:    pageURL(r.URL, p.Prev()),
		NextURL:    pageURL(r.URL, p.Next()),
	}
}

func pageURL(u *url.URL, n int) string {
	q := u.Query()
	if n <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(n))
	}
	if enc := q.Encode(); enc != "" {
		return u.Path + "?" + enc
	}
	return u.Path
}

// pageNumber reads the 1-based ?page= parameter; anything invalid is 1.
func pageNumber(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// choice returns the query parameter if it belongs to allowed, else "".
func choice(r *http.Request, key string, allowed []string) string {
	v := r.URL.Query().Get(key)
	if models.ValidChoice(allowed, v) {
		return v
	}
	return ""
}

// tabs describes a row of category links for a public listing. KeepKey
// and KeepValue carry one extra query parameter into every link.
type tabs struct {
	Path      string
	Param     string
	Current   string
	Choices   []string
	KeepKey   string
	KeepValue string
}

// urlID parses the {id} route parameter.
func urlID(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	return id, err == nil
}

// optional returns a pointer to the trimmed value, or nil when empty.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// formFile returns the uploaded file under key, or nil when none was sent.
func formFile(r *http.Request, key string) upload.File {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[key]
	if len(files) == 0 {
		return nil
	}
	return upload.FromMultipart(files[0])
}

// checked reports whether a checkbox was ticked.
func checked(r *http.Request, key string) bool {
	return r.FormValue(key) != ""
}

// audit logs an admin mutation.
func audit(ctx context.Context, action string, attrs ...any) {
	user := "unknown"
	if sess := middleware.SessionFromCtx(ctx); sess != nil {
		user = sess.Email
	}
	slog.Info("admin action", append([]any{"action", action, "user", user}, attrs...)...)
}

// sessionUserID returns the signed-in user's ID, or nil.
func sessionUserID(ctx context.Context) *uuid.UUID {
	if sess := middleware.SessionFromCtx(ctx); sess != nil {
		id := sess.UserID
		return &id
	}
	return nil
}

// notices are the outcome messages a redirect can ask the next page to
// show via ?notice=.
var notices = map[string]string{
	"created": "Saved successfully.",
	"updated": "Changes saved.",
	"deleted": "Deleted.",
	"read":    "Marked as read.",
}

func noticeFlash(r *http.Request) string {
	return notices[r.URL.Query().Get("notice")]
}
