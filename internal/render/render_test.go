package render

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"marianconnect/internal/middleware"
	"marianconnect/internal/models"
	"marianconnect/internal/session"
	"marianconnect/internal/storage"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	backend, err := storage.NewLocal(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	rn, err := New(backend, "Test School")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return rn
}

func TestNewParsesAllTemplates(t *testing.T) {
	rn := newTestRenderer(t)
	for _, name := range []string{"login", "2fa_setup", "2fa_verify", "dashboard", "news_list", "news_form",
		"events_list", "event_form", "pages_list", "page_form", "gallery_list", "gallery_upload",
		"gallery_form", "messages_list", "message_view"} {
		if rn.admin[name] == nil {
			t.Errorf("admin template %q missing", name)
		}
	}
	for _, name := range []string{"home", "news_list", "news_detail", "events_list", "event_detail", "gallery",
		"achievements", "facilities", "organizations", "programs", "administration", "page", "search",
		"contact", "not_found"} {
		if rn.public[name] == nil {
			t.Errorf("public template %q missing", name)
		}
	}
}

func TestLoginStandalone(t *testing.T) {
	rn := newTestRenderer(t)
	req := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	rec := httptest.NewRecorder()
	rn.Page(rec, req, "login", &PageData{Title: "Sign In", Data: map[string]any{"Error": "Invalid email or password."}})

	body := rec.Body.String()
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if strings.Contains(body, "sidebar") {
		t.Error("login page should not use the admin layout")
	}
	if !strings.Contains(body, "Invalid email or password.") {
		t.Error("error message not rendered")
	}
}

func TestAdminPageWithLayoutAndFlashes(t *testing.T) {
	rn := newTestRenderer(t)
	req := httptest.NewRequest(http.MethodGet, "/admin/pages", nil)
	req = req.WithContext(middleware.WithSession(req.Context(), &session.Data{UserID: uuid.New(), DisplayName: "Sister Ana", TwoFADone: true}))

	data := &PageData{
		Title:   "Pages",
		Section: "pages",
		Data: map[string]any{
			"Items": []models.Page{{ID: uuid.New(), Title: "About Us", Slug: "about-us", BodyFormat: models.BodyFormatMarkdown, Status: models.PageStatusPublished}},
			"Pager": testPager{Pagination: models.NewPagination(1, 20, 1)},
		},
	}
	data.AddFlash(FlashSuccess, "Page saved.")

	rec := httptest.NewRecorder()
	rn.Page(rec, req, "pages_list", data)
	body := rec.Body.String()
	for _, want := range []string{"Sister Ana", "About Us", "/page/about-us", "Page saved.", "Test School"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestHTMXRendersContentOnly(t *testing.T) {
	rn := newTestRenderer(t)
	req := httptest.NewRequest(http.MethodGet, "/admin/pages", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	rn.Page(rec, req, "pages_list", &PageData{Data: map[string]any{
		"Pager": testPager{Pagination: models.NewPagination(1, 20, 0)},
	}})
	if strings.Contains(rec.Body.String(), "<html") {
		t.Error("HTMX response should not include the layout")
	}
}

func TestNotFound(t *testing.T) {
	rn := newTestRenderer(t)
	rec := httptest.NewRecorder()
	rn.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Page not found") {
		t.Error("404 body missing")
	}
}

func TestPublicGalleryFallsBackToOriginal(t *testing.T) {
	rn := newTestRenderer(t)
	thumb := "gallery/thumbnails/a.png"
	items := []models.GalleryImage{
		{ID: uuid.New(), Title: "With thumb", ImagePath: "gallery/a.png", ThumbnailPath: &thumb, Category: "campus"},
		{ID: uuid.New(), Title: "No thumb", ImagePath: "gallery/b.png", Category: "campus"},
	}
	rec := httptest.NewRecorder()
	rn.Public(rec, httptest.NewRequest(http.MethodGet, "/gallery", nil), "gallery", &PageData{
		Title:   "Gallery",
		Section: "gallery",
		Data: map[string]any{
			"Items": items,
			"Tabs":  map[string]any{"Path": "/gallery", "Param": "category", "Current": "", "Choices": models.GalleryCategories},
			"Pager": testPager{Pagination: models.NewPagination(1, 9, 2)},
		},
	})
	body := rec.Body.String()
	if !strings.Contains(body, `src="/uploads/gallery/thumbnails/a.png"`) {
		t.Error("thumbnail URL not used")
	}
	if !strings.Contains(body, `src="/uploads/gallery/b.png"`) {
		t.Error("original not used as fallback preview")
	}
}

func TestContextValuesInjected(t *testing.T) {
	rn := newTestRenderer(t)
	var token string
	h := middleware.NewCSRF(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = middleware.CSRFTokenFromCtx(r.Context())
		rn.Public(w, r, "contact", &PageData{Title: "Contact", Data: map[string]any{"Form": map[string]string{}}})
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))
	if token == "" || !strings.Contains(rec.Body.String(), token) {
		t.Error("CSRF token not rendered into the contact form")
	}
}

func TestFormatTime(t *testing.T) {
	d := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	if got := formatTime(d, dateLayout); got != "March 9, 2026" {
		t.Errorf("date = %q", got)
	}
	if got := formatTime(&d, inputDateLayout); got != "2026-03-09" {
		t.Errorf("inputDate = %q", got)
	}
	var nilTime *time.Time
	if got := formatTime(nilTime, dateLayout); got != "" {
		t.Errorf("nil time = %q", got)
	}
}

func TestTruncateAndDict(t *testing.T) {
	if got := truncate("héllo world", 5); got != "héllo…" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if _, err := dict("a"); err == nil {
		t.Error("dict with odd args should fail")
	}
	m, err := dict("a", 1, "b", "two")
	if err != nil || m["a"] != 1 || m["b"] != "two" {
		t.Errorf("dict = %v, %v", m, err)
	}
}

type testPager struct {
	models.Pagination
	PrevURL, NextURL string
}

