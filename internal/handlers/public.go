// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"marianconnect/internal/markdown"
	"marianconnect/internal/models"
	"marianconnect/internal/render"
	"marianconnect/internal/store"
)

// Public groups handlers for the public-facing site. Full-page caching is
// applied by the router, not here.
type Public struct {
	renderer *render.Renderer
	stores   *store.Stores
}

// NewPublic creates a new Public handler group.
func NewPublic(renderer *render.Renderer, stores *store.Stores) *Public {
	return &Public{renderer: renderer, stores: stores}
}

// Home renders the landing page: featured and latest news, upcoming events
// and featured gallery images. A failing section is logged and left empty.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	featured, err := p.stores.News.List(store.NewsFilter{PublishedOnly: true, FeaturedOnly: true}, 3, 0)
	if err != nil {
		slog.Error("home featured news failed", "error", err)
	}
	latest, err := p.stores.News.List(store.NewsFilter{PublishedOnly: true}, 6, 0)
	if err != nil {
		slog.Error("home latest news failed", "error", err)
	}
	upcoming, err := p.stores.Events.List(store.EventFilter{When: store.WhenUpcoming}, 4, 0)
	if err != nil {
		slog.Error("home upcoming events failed", "error", err)
	}
	gallery, err := p.stores.Gallery.List(store.GalleryFilter{FeaturedOnly: true}, 8, 0)
	if err != nil {
		slog.Error("home gallery failed", "error", err)
	}

	p.renderer.Public(w, r, "home", &render.PageData{
		Data: map[string]any{
			"Featured": featured,
			"Latest":   latest,
			"Upcoming": upcoming,
			"Gallery":  gallery,
		},
	})
}

// NewsList renders published news with category and search filters.
func (p *Public) NewsList(w http.ResponseWriter, r *http.Request) {
	f := store.NewsFilter{
		Category:      choice(r, "category", models.NewsCategories),
		Search:        searchTerm(r),
		PublishedOnly: true,
	}
	total, err := p.stores.News.Count(f)
	if err != nil {
		serverError(w, "count public news failed", err)
		return
	}
	pg := models.NewPagination(pageNumber(r), publicPerPage, total)
	items, err := p.stores.News.List(f, pg.PerPage, pg.Offset())
	if err != nil {
		serverError(w, "list public news failed", err)
		return
	}

	p.renderer.Public(w, r, "news_list", &render.PageData{
		Title:   "News",
		Section: "news",
		Data: map[string]any{
			"Items":  items,
			"Search": f.Search,
			"Tabs":   tabs{Path: "/news", Param: "category", Current: f.Category, Choices: models.NewsCategories},
			"Pager":  newPager(r, pg),
		},
	})
}

// NewsDetail renders one published article, counts the view and lists
// related articles.
func (p *Public) NewsDetail(w http.ResponseWriter, r *http.Request) {
	n, err := p.stores.News.FindPublishedBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		serverError(w, "find news by slug failed", err)
		return
	}
	if n == nil {
		p.renderer.NotFound(w, r)
		return
	}
	if err := p.stores.News.IncrementViews(n.ID); err != nil {
		slog.Warn("increment views failed", "error", err, "id", n.ID)
	} else {
		n.Views++
	}
	related, err := p.stores.News.Related(n, relatedLimit)
	if err != nil {
		slog.Error("related news failed", "error", err, "id", n.ID)
	}

	p.renderer.Public(w, r, "news_detail", &render.PageData{
		Title:   n.Title,
		Section: "news",
		Data: map[string]any{
			"Item":            n,
			"Related":         related,
			"MetaDescription": deref(n.Excerpt),
		},
	})
}

// EventsList renders events on an upcoming or past tab with a category
// filter.
func (p *Public) EventsList(w http.ResponseWriter, r *http.Request) {
	when := store.WhenUpcoming
	if r.URL.Query().Get("when") == store.WhenPast {
		when = store.WhenPast
	}
	f := store.EventFilter{
		Category: choice(r, "category", models.EventCategories),
		When:     when,
	}
	total, err := p.stores.Events.Count(f)
	if err != nil {
		serverError(w, "count public events failed", err)
		return
	}
	pg := models.NewPagination(pageNumber(r), publicPerPage, total)
	items, err := p.stores.Events.List(f, pg.PerPage, pg.Offset())
	if err != nil {
		serverError(w, "list public events failed", err)
		return
	}

	t := tabs{Path: "/events", Param: "category", Current: f.Category, Choices: models.EventCategories}
	if when == store.WhenPast {
		t.KeepKey, t.KeepValue = "when", store.WhenPast
	}
	p.renderer.Public(w, r, "events_list", &render.PageData{
		Title:   "Events",
		Section: "events",
		Data: map[string]any{
			"Items": items,
			"When":  when,
			"Tabs":  t,
			"Pager": newPager(r, pg),
		},
	})
}

// EventDetail renders one event with the gallery images linked to it.
func (p *Public) EventDetail(w http.ResponseWriter, r *http.Request) {
	e, err := p.stores.Events.FindBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		serverError(w, "find event by slug failed", err)
		return
	}
	if e == nil {
		p.renderer.NotFound(w, r)
		return
	}
	images, err := p.stores.Gallery.ListByEvent(e.ID)
	if err != nil {
		slog.Error("event gallery failed", "error", err, "id", e.ID)
	}

	p.renderer.Public(w, r, "event_detail", &render.PageData{
		Title:   e.Title,
		Section: "events",
		Data:    map[string]any{"Item": e, "Gallery": images},
	})
}

// Gallery renders the public photo gallery with a category filter.
func (p *Public) Gallery(w http.ResponseWriter, r *http.Request) {
	f := store.GalleryFilter{Category: choice(r, "category", models.GalleryCategories)}
	total, err := p.stores.Gallery.Count(f)
	if err != nil {
		serverError(w, "count public gallery failed", err)
		return
	}
	pg := models.NewPagination(pageNumber(r), publicPerPage, total)
	items, err := p.stores.Gallery.List(f, pg.PerPage, pg.Offset())
	if err != nil {
		serverError(w, "list public gallery failed", err)
		return
	}

	p.renderer.Public(w, r, "gallery", &render.PageData{
		Title:   "Gallery",
		Section: "gallery",
		Data: map[string]any{
			"Items": items,
			"Tabs":  tabs{Path: "/gallery", Param: "category", Current: f.Category, Choices: models.GalleryCategories},
			"Pager": newPager(r, pg),
		},
	})
}

// Page renders a published static page, converting markdown bodies.
func (p *Public) Page(w http.ResponseWriter, r *http.Request) {
	page, err := p.stores.Pages.FindPublishedBySlug(chi.URLParam(r, "slug"))
	if err != nil {
		serverError(w, "find page by slug failed", err)
		return
	}
	if page == nil {
		p.renderer.NotFound(w, r)
		return
	}

	body := template.HTML(page.Content)
	if page.IsMarkdown() {
		if body, err = markdown.ToHTML(page.Content); err != nil {
			serverError(w, "render markdown failed", err)
			return
		}
	}

	p.renderer.Public(w, r, "page", &render.PageData{
		Title: page.Title,
		Data: map[string]any{
			"Item":            page,
			"Body":            body,
			"MetaDescription": deref(page.MetaDescription),
		},
	})
}

// Search runs the site search over news, events and pages.
func (p *Public) Search(w http.ResponseWriter, r *http.Request) {
	q := searchTerm(r)
	results, err := p.stores.Search.Search(q, searchLimit)
	if err != nil {
		serverError(w, "search failed", err)
		return
	}
	p.renderer.Public(w, r, "search", &render.PageData{
		Title: "Search",
		Data:  map[string]any{"Query": q, "Results": results},
	})
}

// NotFound renders the public 404 page.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	p.renderer.NotFound(w, r)
}

// searchTerm reads ?q=, trimmed and capped in length.
func searchTerm(r *http.Request) string {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if utf8.RuneCountInString(q) > maxSearchLen {
		q = string([]rune(q)[:maxSearchLen])
	}
	return q
}
