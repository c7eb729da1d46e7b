// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the admin back office
// and the public site. Admin pages support full-page and HTMX partial
// rendering, detected via the HX-Request header.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"marianconnect/internal/middleware"
	"marianconnect/internal/session"
	"marianconnect/internal/storage"
)

//go:embed templates/admin/*.html templates/public/*.html
var templateFS embed.FS

// PageData holds all data passed to templates.
type PageData struct {
	Title     string         // Page title for <title> tag
	Section   string         // Active navigation section (e.g., "dashboard", "news")
	SiteName  string         // Set by the renderer
	Session   *session.Data  // Current user session (nil if unauthenticated)
	CSRFToken string         // CSRF token for forms and HTMX headers
	Data      map[string]any // Page-specific data
	Flashes   []Flash        // One-time notification messages
}

// Flash is a one-request notification rendered into the response page.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// Flash types.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// AddFlash appends a notification to the page.
func (d *PageData) AddFlash(typ, msg string) {
	d.Flashes = append(d.Flashes, Flash{Type: typ, Message: msg})
}

// Renderer parses and executes the admin and public template sets.
type Renderer struct {
	admin    map[string]*template.Template
	public   map[string]*template.Template
	siteName string
}

// standaloneTemplates render as full HTML pages without the admin layout.
var standaloneTemplates = map[string]bool{
	"login":      true,
	"2fa_setup":  true,
	"2fa_verify": true,
}

// New parses every embedded template. URLs for stored files are produced
// by backend.
func New(backend storage.Backend, siteName string) (*Renderer, error) {
	funcs := funcMap(backend)

	admin, err := parseSet(funcs, "admin", "base.html", standaloneTemplates)
	if err != nil {
		return nil, err
	}
	public, err := parseSet(funcs, "public", "layout.html", nil)
	if err != nil {
		return nil, err
	}
	return &Renderer{admin: admin, public: public, siteName: siteName}, nil
}

// parseSet pairs each page template in templates/<dir> with the layout.
func parseSet(funcs template.FuncMap, dir, layout string, standalone map[string]bool) (map[string]*template.Template, error) {
	files, err := fs.Glob(templateFS, "templates/"+dir+"/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob %s templates: %w", dir, err)
	}

	set := make(map[string]*template.Template)
	for _, file := range files {
		name := path.Base(file)
		if name == layout {
			continue
		}
		tmplName := strings.TrimSuffix(name, ".html")

		var tmpl *template.Template
		if standalone[tmplName] {
			tmpl, err = template.New(name).Funcs(funcs).ParseFS(templateFS, file)
		} else {
			tmpl, err = template.New(layout).Funcs(funcs).ParseFS(templateFS, "templates/"+dir+"/"+layout, file)
		}
		if err != nil {
			return nil, fmt.Errorf("parse template %s/%s: %w", dir, name, err)
		}
		set[tmplName] = tmpl
	}
	return set, nil
}

// Page renders an admin page, or only its "content" block for HTMX
// requests.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.admin[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}
	rn.fill(r, data)

	execName := "base.html"
	switch {
	case isHTMX(r):
		execName = "content"
	case standaloneTemplates[name]:
		execName = name + ".html"
	}
	rn.execute(w, tmpl, execName, http.StatusOK, data)
}

// Public renders a public site page inside the site layout.
func (rn *Renderer) Public(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	rn.PublicStatus(w, r, name, http.StatusOK, data)
}

// PublicStatus is Public with an explicit status code.
func (rn *Renderer) PublicStatus(w http.ResponseWriter, r *http.Request, name string, status int, data *PageData) {
	tmpl, ok := rn.public[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}
	rn.fill(r, data)
	rn.execute(w, tmpl, "layout.html", status, data)
}

// NotFound renders the public 404 page.
func (rn *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rn.PublicStatus(w, r, "not_found", http.StatusNotFound, &PageData{Title: "Page Not Found"})
}

// fill injects the per-request values every template expects.
func (rn *Renderer) fill(r *http.Request, data *PageData) {
	data.SiteName = rn.siteName
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}
	if data.Data == nil {
		data.Data = map[string]any{}
	}
}

// execute renders into a buffer first so a template error never leaves a
// half-written page behind.
func (rn *Renderer) execute(w http.ResponseWriter, tmpl *template.Template, name string, status int, data *PageData) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		slog.Error("template execution failed", "template", tmpl.Name(), "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// isHTMX returns true if the request was made by HTMX (has HX-Request header).
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
