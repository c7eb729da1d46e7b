package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"marianconnect/internal/models"
	"marianconnect/internal/render"
	"marianconnect/internal/slug"
	"marianconnect/internal/storage"
	"marianconnect/internal/store"
)

// NewsList renders the news management page with filters.
func (a *Admin) NewsList(w http.ResponseWriter, r *http.Request) {
	f := store.NewsFilter{
		Category: choice(r, "category", models.NewsCategories),
		Status:   choice(r, "status", models.NewsStatuses),
		Search:   strings.TrimSpace(r.URL.Query().Get("q")),
	}
	total, err := a.stores.News.Count(f)
	if err != nil {
		serverError(w, "count news failed", err)
		return
	}
	p := models.NewPagination(pageNumber(r), adminPerPage, total)
	items, err := a.stores.News.List(f, p.PerPage, p.Offset())
	if err != nil {
		serverError(w, "list news failed", err)
		return
	}

	a.listPage(w, r, "news_list", "News", "news", map[string]any{
		"Items":      items,
		"Filter":     f,
		"Pager":      newPager(r, p),
		"Categories": models.NewsCategories,
		"Statuses":   models.NewsStatuses,
	})
}

// NewsNew renders the new article form.
func (a *Admin) NewsNew(w http.ResponseWriter, r *http.Request) {
	a.newsForm(w, r, &models.News{Category: "general", Status: models.NewsStatusDraft}, true, "")
}

// NewsCreate handles the new article form submission.
func (a *Admin) NewsCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form := newsFormFrom(r)
	item := &models.News{AuthorID: sessionUserID(ctx)}
	form.apply(item, r)

	if msg := validateForm(form); msg != "" {
		a.newsForm(w, r, item, true, msg)
		return
	}
	if item.Slug = slug.Generate(form.slugSource()); item.Slug == "" {
		a.newsForm(w, r, item, true, "Slug could not be generated from the title.")
		return
	}

	if f := formFile(r, "featured_image"); f != nil {
		key, err := a.ingester.Save(ctx, storage.PrefixNews, f)
		if err != nil {
			a.newsForm(w, r, item, true, uploadMessage(err))
			return
		}
		item.FeaturedImage = &key
	}

	created, err := a.stores.News.Create(item)
	if err != nil {
		a.ingester.Delete(ctx, deref(item.FeaturedImage))
		item.FeaturedImage = nil
		a.newsForm(w, r, item, true, saveMessage(err, "news", "article"))
		return
	}

	a.changed(r, "news.create", "id", created.ID, "slug", created.Slug)
	http.Redirect(w, r, "/admin/news?notice=created", http.StatusSeeOther)
}

// NewsEdit renders the edit form for an article.
func (a *Admin) NewsEdit(w http.ResponseWriter, r *http.Request) {
	item, ok := a.findNews(w, r)
	if !ok {
		return
	}
	a.newsForm(w, r, item, false, "")
}

// NewsUpdate handles the edit form submission. A new upload replaces the
// featured image; the old file is removed only after the row is saved.
func (a *Admin) NewsUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	existing, ok := a.findNews(w, r)
	if !ok {
		return
	}
	oldImage := deref(existing.FeaturedImage)

	item := *existing
	form := newsFormFrom(r)
	form.apply(&item, r)

	if msg := validateForm(form); msg != "" {
		a.newsForm(w, r, &item, false, msg)
		return
	}
	if item.Slug = slug.Generate(form.slugSource()); item.Slug == "" {
		a.newsForm(w, r, &item, false, "Slug could not be generated from the title.")
		return
	}

	newImage := ""
	if f := formFile(r, "featured_image"); f != nil {
		key, err := a.ingester.Save(ctx, storage.PrefixNews, f)
		if err != nil {
			a.newsForm(w, r, &item, false, uploadMessage(err))
			return
		}
		newImage = key
		item.FeaturedImage = &newImage
	} else if checked(r, "remove_image") {
		item.FeaturedImage = nil
	}

	if err := a.stores.News.Update(&item); err != nil {
		a.ingester.Delete(ctx, newImage)
		item.FeaturedImage = existing.FeaturedImage
		a.newsForm(w, r, &item, false, saveMessage(err, "news", "article"))
		return
	}
	if oldImage != "" && oldImage != deref(item.FeaturedImage) {
		a.ingester.Delete(ctx, oldImage)
	}

	a.changed(r, "news.update", "id", item.ID, "slug", item.Slug)
	http.Redirect(w, r, "/admin/news?notice=updated", http.StatusSeeOther)
}

// NewsDelete removes an article and its featured image.
func (a *Admin) NewsDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	deleted, err := a.stores.News.Delete(id)
	if err != nil {
		serverError(w, "delete news failed", err)
		return
	}
	if deleted == nil {
		http.NotFound(w, r)
		return
	}
	a.ingester.Delete(r.Context(), deref(deleted.FeaturedImage))

	a.changed(r, "news.delete", "id", deleted.ID, "slug", deleted.Slug)
	http.Redirect(w, r, "/admin/news?notice=deleted", http.StatusSeeOther)
}

func (a *Admin) findNews(w http.ResponseWriter, r *http.Request) (*models.News, bool) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	item, err := a.stores.News.FindByID(id)
	if err != nil {
		serverError(w, "find news failed", err)
		return nil, false
	}
	if item == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return item, true
}

func (a *Admin) newsForm(w http.ResponseWriter, r *http.Request, item *models.News, isNew bool, errMsg string) {
	title := "Edit Article"
	if isNew {
		title = "New Article"
	}
	data := map[string]any{
		"Item":       item,
		"IsNew":      isNew,
		"Categories": models.NewsCategories,
		"Statuses":   models.NewsStatuses,
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	a.renderer.Page(w, r, "news_form", &render.PageData{Title: title, Section: "news", Data: data})
}

func newsFormFrom(r *http.Request) newsForm {
	return newsForm{
		Title:    strings.TrimSpace(r.FormValue("title")),
		Slug:     strings.TrimSpace(r.FormValue("slug")),
		Excerpt:  strings.TrimSpace(r.FormValue("excerpt")),
		Content:  r.FormValue("content"),
		Category: orDefault(r.FormValue("category"), "general"),
		Status:   orDefault(r.FormValue("status"), string(models.NewsStatusDraft)),
	}
}

// apply copies the submitted values onto n so a rejected form re-renders
// with what the admin typed.
func (f newsForm) apply(n *models.News, r *http.Request) {
	n.Title = f.Title
	n.Slug = f.Slug
	n.Excerpt = optional(f.Excerpt)
	n.Content = f.Content
	n.Category = f.Category
	n.Status = models.NewsStatus(f.Status)
	n.IsFeatured = checked(r, "is_featured")
}

func (f newsForm) slugSource() string {
	if f.Slug != "" {
		return f.Slug
	}
	return f.Title
}

// saveMessage maps a store write error to a form message.
func saveMessage(err error, table, noun string) string {
	if errors.Is(err, store.ErrSlugTaken) {
		return "That slug is already used by another " + noun + "."
	}
	slog.Error("save failed", "table", table, "error", err)
	return "The " + noun + " could not be saved. Please try again."
}

func orDefault(v, fallback string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return fallback
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
