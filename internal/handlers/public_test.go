package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestContactPage_RendersForm(t *testing.T) {
	p := offlinePublic(t)

	rec := httptest.NewRecorder()
	p.ContactPage(rec, httptest.NewRequest(http.MethodGet, "/contact", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `name="message"`) {
		t.Error("expected the contact form")
	}
}

func TestContactSubmit_InvalidKeepsInput(t *testing.T) {
	p := offlinePublic(t)

	form := url.Values{
		"name":    {"Juan Dela Cruz"},
		"email":   {"juan-at-example"},
		"subject": {"Tuition"},
		"message": {"How much is tuition?"},
	}
	rec := httptest.NewRecorder()
	p.ContactSubmit(rec, postForm("/contact", form))

	body := rec.Body.String()
	if !strings.Contains(body, "Email must be a valid email address.") {
		t.Error("expected email validation message")
	}
	if !strings.Contains(body, "Juan Dela Cruz") {
		t.Error("expected submitted name to be kept")
	}
}

func TestPublicNotFound(t *testing.T) {
	p := offlinePublic(t)

	rec := httptest.NewRecorder()
	p.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("got status %d, want 404", rec.Code)
	}
}

func TestContactSubmit_Stores(t *testing.T) {
	env := newTestEnv(t)
	const email = "handler-contact@example.com"
	t.Cleanup(func() { env.DB.Exec("DELETE FROM contact_messages WHERE email = $1", email) })

	form := url.Values{
		"name":    {"Ana Reyes"},
		"email":   {email},
		"phone":   {""},
		"subject": {"Visit"},
		"message": {"Can we tour the campus?"},
	}
	rec := httptest.NewRecorder()
	env.Public.ContactSubmit(rec, postForm("/contact", form))

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Your message has been sent.") {
		t.Error("expected success flash")
	}

	var phone *string
	if err := env.DB.QueryRow("SELECT phone FROM contact_messages WHERE email = $1", email).Scan(&phone); err != nil {
		t.Fatalf("message not stored: %v", err)
	}
	if phone != nil {
		t.Errorf("blank phone stored as %q, want NULL", *phone)
	}
}

func TestPublicListings_Return200(t *testing.T) {
	env := newTestEnv(t)

	pages := []struct {
		path    string
		handler http.HandlerFunc
	}{
		{"/", env.Public.Home},
		{"/news?category=sports&page=2", env.Public.NewsList},
		{"/events?when=past", env.Public.EventsList},
		{"/gallery", env.Public.Gallery},
		{"/achievements?category=academic", env.Public.Achievements},
		{"/facilities", env.Public.Facilities},
		{"/organizations", env.Public.Organizations},
		{"/programs?level=senior_high", env.Public.Programs},
		{"/administration?department=finance", env.Public.Administration},
		{"/search?q=enrollment", env.Public.Search},
	}
	for _, pg := range pages {
		t.Run(pg.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			pg.handler(rec, httptest.NewRequest(http.MethodGet, pg.path, nil))
			if rec.Code != http.StatusOK {
				t.Errorf("got status %d, want 200", rec.Code)
			}
		})
	}
}

func TestNewsDetail_UnknownSlug(t *testing.T) {
	env := newTestEnv(t)

	req := withChiURLParam(httptest.NewRequest(http.MethodGet, "/news/missing", nil), "slug", "handler-test-missing")
	rec := httptest.NewRecorder()
	env.Public.NewsDetail(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("got status %d, want 404", rec.Code)
	}
}
