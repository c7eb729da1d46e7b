package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"marianconnect/internal/metrics"
	"marianconnect/internal/session"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequireAuth(t *testing.T) {
	h := RequireAuth(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/login" {
		t.Errorf("anonymous: got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	req = req.WithContext(WithSession(req.Context(), &session.Data{UserID: uuid.New()}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("signed in: got %d, want 200", rec.Code)
	}
}

func TestRequire2FA(t *testing.T) {
	h := Require2FA(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req = req.WithContext(WithSession(req.Context(), &session.Data{UserID: uuid.New()}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/2fa" {
		t.Errorf("pending 2fa: got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	req = req.WithContext(WithSession(req.Context(), &session.Data{UserID: uuid.New(), TwoFADone: true}))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("2fa done: got %d, want 200", rec.Code)
	}
}

func TestSessionFromCtxEmpty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if SessionFromCtx(req.Context()) != nil {
		t.Error("expected nil session")
	}
}

func csrfCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == CSRFCookieName {
			return c
		}
	}
	return nil
}

func TestCSRFIssuesTokenOnGet(t *testing.T) {
	var seen string
	h := NewCSRF(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CSRFTokenFromCtx(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	c := csrfCookie(rec)
	if c == nil {
		t.Fatal("no csrf cookie set")
	}
	if len(c.Value) != csrfTokenLength*2 {
		t.Errorf("token length = %d", len(c.Value))
	}
	if seen != c.Value {
		t.Errorf("context token %q != cookie %q", seen, c.Value)
	}
}

func TestCSRFRejectsMissingToken(t *testing.T) {
	h := NewCSRF(false)(okHandler)
	form := url.Values{"title": {"x"}}
	req := httptest.NewRequest(http.MethodPost, "/admin/news", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "abc"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want 403", rec.Code)
	}
}

func TestCSRFAcceptsFormAndHeader(t *testing.T) {
	h := NewCSRF(false)(okHandler)

	form := url.Values{CSRFFormField: {"abc"}}
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "abc"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("form token: got %d, want 200", rec.Code)
	}

	req = httptest.NewRequest(http.MethodDelete, "/admin/news/1", nil)
	req.Header.Set(CSRFHeaderName, "abc")
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "abc"})
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("header token: got %d, want 200", rec.Code)
	}
}

func TestCSRFOversizedMultipart(t *testing.T) {
	h := MaxBody(1024)(NewCSRF(false)(okHandler))

	body := "--b\r\nContent-Disposition: form-data; name=\"files\"; filename=\"a.jpg\"\r\n" +
		"Content-Type: image/jpeg\r\n\r\n" + strings.Repeat("x", 4096) + "\r\n--b--\r\n"
	req := httptest.NewRequest(http.MethodPost, "/admin/gallery", strings.NewReader(body))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=b")
	req.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "abc"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("got %d, want 413", rec.Code)
	}
}

func TestMethodOverride(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"DELETE", http.MethodDelete},
		{"put", http.MethodPut},
		{"PATCH", http.MethodPatch},
		{"GET", http.MethodPost},
		{"", http.MethodPost},
	}
	for _, tt := range tests {
		var got string
		h := MethodOverride(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Method
		}))
		form := url.Values{MethodOverrideField: {tt.field}}
		req := httptest.NewRequest(http.MethodPost, "/admin/news/1", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		h.ServeHTTP(httptest.NewRecorder(), req)
		if got != tt.want {
			t.Errorf("_method=%q: got %s, want %s", tt.field, got, tt.want)
		}
	}
}

func TestRecoverer(t *testing.T) {
	before := testutil.ToFloat64(metrics.PanicsRecovered)
	h := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("got %d, want 500", rec.Code)
	}
	if got := testutil.ToFloat64(metrics.PanicsRecovered) - before; got != 1 {
		t.Errorf("panics counter rose by %v, want 1", got)
	}
}

func TestRecovererAbort(t *testing.T) {
	h := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Errorf("recovered %v, want ErrAbortHandler", rec)
		}
	}()
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestSecureHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecureHeaders(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, h := range []string{"X-Content-Type-Options", "X-Frame-Options", "Referrer-Policy", "Permissions-Policy", "Content-Security-Policy"} {
		if rec.Header().Get(h) == "" {
			t.Errorf("missing %s", h)
		}
	}
	if cc := rec.Header().Get("Cache-Control"); cc != "" {
		t.Errorf("public page Cache-Control = %q, want none", cc)
	}

	rec = httptest.NewRecorder()
	SecureHeaders(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/news", nil))
	if cc := rec.Header().Get("Cache-Control"); cc != "no-store" {
		t.Errorf("admin page Cache-Control = %q, want no-store", cc)
	}
}

func TestLoggerCapturesStatus(t *testing.T) {
	h := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("got %d, want 404", rec.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	h := rl.Middleware(okHandler)
	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodPost, "/contact", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 2; i++ {
		if code := send("10.0.0.1:5000"); code != http.StatusOK {
			t.Fatalf("request %d: got %d", i, code)
		}
	}
	if code := send("10.0.0.1:5001"); code != http.StatusTooManyRequests {
		t.Errorf("third request: got %d, want 429", code)
	}
	if code := send("10.0.0.2:5000"); code != http.StatusOK {
		t.Errorf("other client: got %d, want 200", code)
	}

	now = now.Add(61 * time.Second)
	if code := send("10.0.0.1:5000"); code != http.StatusOK {
		t.Errorf("after window: got %d, want 200", code)
	}

	now = now.Add(5 * time.Minute)
	rl.prune()
	if len(rl.clients) != 0 {
		t.Errorf("prune left %d clients", len(rl.clients))
	}
}
