// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for MarianConnect.
// Handlers are grouped by concern (admin, public, auth) and receive
// their dependencies through the handler struct.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"marianconnect/internal/cache"
	"marianconnect/internal/render"
	"marianconnect/internal/store"
	"marianconnect/internal/upload"
)

// Admin groups all back-office HTTP handlers and their dependencies.
type Admin struct {
	renderer  *render.Renderer
	stores    *store.Stores
	ingester  *upload.Ingester
	pageCache *cache.PageCache
}

// NewAdmin creates a new Admin handler group. pageCache may be nil.
func NewAdmin(renderer *render.Renderer, stores *store.Stores, ingester *upload.Ingester, pageCache *cache.PageCache) *Admin {
	return &Admin{
		renderer:  renderer,
		stores:    stores,
		ingester:  ingester,
		pageCache: pageCache,
	}
}

// Dashboard renders the admin dashboard with site counts.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	counts, err := a.stores.Stats.Counts()
	if err != nil {
		slog.Error("dashboard counts failed", "error", err)
	}
	recent, err := a.stores.News.List(store.NewsFilter{}, 5, 0)
	if err != nil {
		slog.Error("dashboard news failed", "error", err)
	}
	unread, err := a.stores.Contacts.List(true, 5, 0)
	if err != nil {
		slog.Error("dashboard messages failed", "error", err)
	}

	a.renderer.Page(w, r, "dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data: map[string]any{
			"Counts":     counts,
			"RecentNews": recent,
			"Unread":     unread,
		},
	})
}

// changed runs after every successful admin write. Cached public pages
// may list the changed row, so the whole page cache is dropped.
func (a *Admin) changed(r *http.Request, action string, attrs ...any) {
	audit(r.Context(), action, attrs...)
	a.pageCache.InvalidateAll(r.Context())
}

// listPage renders a paginated admin list, adding the ?notice= flash.
func (a *Admin) listPage(w http.ResponseWriter, r *http.Request, name, title, section string, data map[string]any) {
	pd := &render.PageData{Title: title, Section: section, Data: data}
	if msg := noticeFlash(r); msg != "" {
		pd.AddFlash(render.FlashSuccess, msg)
	}
	a.renderer.Page(w, r, name, pd)
}

// uploadMessage turns an image save error into a message for the form.
// Validation failures name the file and reason; anything else is generic.
func uploadMessage(err error) string {
	var fe *upload.FileError
	if errors.As(err, &fe) {
		return "Image " + fe.Error()
	}
	slog.Error("image save failed", "error", err)
	return "The image could not be stored. Please try again."
}

// serverError logs err and responds with 500.
func serverError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
