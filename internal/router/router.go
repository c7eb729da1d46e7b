// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for
// MarianConnect. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"marianconnect/internal/cache"
	"marianconnect/internal/handlers"
	"marianconnect/internal/middleware"
	"marianconnect/internal/session"
	"marianconnect/internal/upload"
	"marianconnect/web"
)

// maxBodyBytes caps request bodies. A full gallery batch of maximum-size
// images plus form overhead must fit.
const maxBodyBytes = upload.MaxBatchFiles*upload.MaxFileSize + 8<<20

// Deps are the collaborators the router wires together.
type Deps struct {
	Sessions  *session.Store
	PageCache *cache.PageCache
	Admin     *handlers.Admin
	Auth      *handlers.Auth
	Public    *handlers.Public

	// UploadsDir is served at /uploads/ when uploads are stored locally.
	// Empty when they live in object storage.
	UploadsDir string

	// LoginLimiter and ContactLimiter throttle the two unauthenticated
	// POST endpoints. Nil disables throttling.
	LoginLimiter   *middleware.RateLimiter
	ContactLimiter *middleware.RateLimiter

	// Secure marks cookies Secure (TLS deployments).
	Secure bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request. Method override reads
	// the form, so it runs after the body cap and CSRF check.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(chimw.RealIP)
	r.Use(middleware.MaxBody(maxBodyBytes))
	r.Use(middleware.NewCSRF(d.Secure))
	r.Use(middleware.MethodOverride)
	r.Use(middleware.LoadSession(d.Sessions))

	r.Get("/health", healthHandler)
	r.Handle("/metrics", promhttp.Handler())

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	if d.UploadsDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(uploadsFS{http.Dir(d.UploadsDir)})))
	}

	r.Route("/admin", func(r chi.Router) {
		// Auth pages, accessible without a session.
		r.Get("/login", d.Auth.LoginPage)
		r.With(limit(d.LoginLimiter)).Post("/login", d.Auth.LoginSubmit)
		r.Post("/logout", d.Auth.Logout)

		// 2FA requires a session but not a completed second factor.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa", d.Auth.TwoFA)
			r.Get("/2fa/setup", d.Auth.TwoFASetupPage)
			r.Get("/2fa/verify", d.Auth.TwoFAVerifyPage)
			r.Post("/2fa/verify", d.Auth.TwoFAVerifySubmit)
		})

		// Authenticated and 2FA-verified back office.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)

			r.Get("/", d.Admin.Dashboard)
			r.Get("/dashboard", d.Admin.Dashboard)

			r.Route("/news", func(r chi.Router) {
				r.Get("/", d.Admin.NewsList)
				r.Get("/new", d.Admin.NewsNew)
				r.Post("/", d.Admin.NewsCreate)
				r.Get("/{id}", d.Admin.NewsEdit)
				r.Put("/{id}", d.Admin.NewsUpdate)
				r.Delete("/{id}", d.Admin.NewsDelete)
			})

			r.Route("/events", func(r chi.Router) {
				r.Get("/", d.Admin.EventsList)
				r.Get("/new", d.Admin.EventNew)
				r.Post("/", d.Admin.EventCreate)
				r.Get("/{id}", d.Admin.EventEdit)
				r.Put("/{id}", d.Admin.EventUpdate)
				r.Delete("/{id}", d.Admin.EventDelete)
			})

			r.Route("/pages", func(r chi.Router) {
				r.Get("/", d.Admin.PagesList)
				r.Get("/new", d.Admin.PageNew)
				r.Post("/", d.Admin.PageCreate)
				r.Get("/{id}", d.Admin.PageEdit)
				r.Put("/{id}", d.Admin.PageUpdate)
				r.Delete("/{id}", d.Admin.PageDelete)
			})

			r.Route("/gallery", func(r chi.Router) {
				r.Get("/", d.Admin.GalleryList)
				r.Get("/upload", d.Admin.GalleryUploadPage)
				r.Post("/", d.Admin.GalleryUpload)
				r.Get("/{id}", d.Admin.GalleryEdit)
				r.Put("/{id}", d.Admin.GalleryUpdate)
				r.Delete("/{id}", d.Admin.GalleryDelete)
			})

			r.Route("/messages", func(r chi.Router) {
				r.Get("/", d.Admin.MessagesList)
				r.Get("/{id}", d.Admin.MessageView)
				r.Post("/{id}/read", d.Admin.MessageMarkRead)
				r.Delete("/{id}", d.Admin.MessageDelete)
			})
		})
	})

	// Public pages. Listings are served from the page cache; article
	// detail (view counter) and the contact form (per-visitor token) are not.
	r.Group(func(r chi.Router) {
		r.Use(d.PageCache.Middleware)
		r.Get("/", d.Public.Home)
		r.Get("/news", d.Public.NewsList)
		r.Get("/events", d.Public.EventsList)
		r.Get("/events/{slug}", d.Public.EventDetail)
		r.Get("/gallery", d.Public.Gallery)
		r.Get("/achievements", d.Public.Achievements)
		r.Get("/facilities", d.Public.Facilities)
		r.Get("/organizations", d.Public.Organizations)
		r.Get("/programs", d.Public.Programs)
		r.Get("/administration", d.Public.Administration)
		r.Get("/page/{slug}", d.Public.Page)
	})
	r.Get("/news/{slug}", d.Public.NewsDetail)
	r.Get("/search", d.Public.Search)
	r.Get("/contact", d.Public.ContactPage)
	r.With(limit(d.ContactLimiter)).Post("/contact", d.Public.ContactSubmit)

	r.NotFound(d.Public.NotFound)

	return r
}

// limit returns the limiter's middleware, or a pass-through when nil.
func limit(rl *middleware.RateLimiter) func(http.Handler) http.Handler {
	if rl == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return rl.Middleware
}

// uploadsFS serves files only: directory listings and dot-prefixed
// entries such as the staging directory are hidden.
type uploadsFS struct{ fs http.FileSystem }

func (u uploadsFS) Open(name string) (http.File, error) {
	for _, part := range strings.Split(name, "/") {
		if strings.HasPrefix(part, ".") {
			return nil, fs.ErrNotExist
		}
	}
	f, err := u.fs.Open(name)
	if err != nil {
		return nil, err
	}
	if st, err := f.Stat(); err == nil && st.IsDir() {
		f.Close()
		return nil, fs.ErrNotExist
	}
	return f, nil
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
