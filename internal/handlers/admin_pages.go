package handlers

import (
	"net/http"
	"strings"

	"marianconnect/internal/models"
	"marianconnect/internal/render"
	"marianconnect/internal/slug"
)

// PagesList renders the static page management list.
func (a *Admin) PagesList(w http.ResponseWriter, r *http.Request) {
	total, err := a.stores.Pages.Count()
	if err != nil {
		serverError(w, "count pages failed", err)
		return
	}
	p := models.NewPagination(pageNumber(r), adminPerPage, total)
	items, err := a.stores.Pages.List(p.PerPage, p.Offset())
	if err != nil {
		serverError(w, "list pages failed", err)
		return
	}
	a.listPage(w, r, "pages_list", "Pages", "pages", map[string]any{
		"Items": items,
		"Pager": newPager(r, p),
	})
}

// PageNew renders the new page form.
func (a *Admin) PageNew(w http.ResponseWriter, r *http.Request) {
	a.pageForm(w, r, &models.Page{BodyFormat: models.BodyFormatMarkdown, Status: models.PageStatusDraft}, true, "")
}

// PageCreate handles the new page form submission.
func (a *Admin) PageCreate(w http.ResponseWriter, r *http.Request) {
	form := pageFormFrom(r)
	item := &models.Page{}
	form.apply(item)

	if msg := validateForm(form); msg != "" {
		a.pageForm(w, r, item, true, msg)
		return
	}
	if item.Slug = slug.Generate(orDefault(form.Slug, form.Title)); item.Slug == "" {
		a.pageForm(w, r, item, true, "Slug could not be generated from the title.")
		return
	}

	created, err := a.stores.Pages.Create(item)
	if err != nil {
		a.pageForm(w, r, item, true, saveMessage(err, "pages", "page"))
		return
	}

	a.changed(r, "page.create", "id", created.ID, "slug", created.Slug)
	http.Redirect(w, r, "/admin/pages?notice=created", http.StatusSeeOther)
}

// PageEdit renders the edit form for a page.
func (a *Admin) PageEdit(w http.ResponseWriter, r *http.Request) {
	item, ok := a.findPage(w, r)
	if !ok {
		return
	}
	a.pageForm(w, r, item, false, "")
}

// PageUpdate handles the edit form submission.
func (a *Admin) PageUpdate(w http.ResponseWriter, r *http.Request) {
	existing, ok := a.findPage(w, r)
	if !ok {
		return
	}
	item := *existing
	form := pageFormFrom(r)
	form.apply(&item)

	if msg := validateForm(form); msg != "" {
		a.pageForm(w, r, &item, false, msg)
		return
	}
	if item.Slug = slug.Generate(orDefault(form.Slug, form.Title)); item.Slug == "" {
		a.pageForm(w, r, &item, false, "Slug could not be generated from the title.")
		return
	}

	if err := a.stores.Pages.Update(&item); err != nil {
		a.pageForm(w, r, &item, false, saveMessage(err, "pages", "page"))
		return
	}

	a.changed(r, "page.update", "id", item.ID, "slug", item.Slug)
	http.Redirect(w, r, "/admin/pages?notice=updated", http.StatusSeeOther)
}

// PageDelete removes a page.
func (a *Admin) PageDelete(w http.ResponseWriter, r *http.Request) {
	item, ok := a.findPage(w, r)
	if !ok {
		return
	}
	if err := a.stores.Pages.Delete(item.ID); err != nil {
		serverError(w, "delete page failed", err)
		return
	}
	a.changed(r, "page.delete", "id", item.ID, "slug", item.Slug)
	http.Redirect(w, r, "/admin/pages?notice=deleted", http.StatusSeeOther)
}

func (a *Admin) findPage(w http.ResponseWriter, r *http.Request) (*models.Page, bool) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	item, err := a.stores.Pages.FindByID(id)
	if err != nil {
		serverError(w, "find page failed", err)
		return nil, false
	}
	if item == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return item, true
}

func (a *Admin) pageForm(w http.ResponseWriter, r *http.Request, item *models.Page, isNew bool, errMsg string) {
	title := "Edit Page"
	if isNew {
		title = "New Page"
	}
	data := map[string]any{"Item": item, "IsNew": isNew}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	a.renderer.Page(w, r, "page_form", &render.PageData{Title: title, Section: "pages", Data: data})
}

func pageFormFrom(r *http.Request) pageForm {
	return pageForm{
		Title:           strings.TrimSpace(r.FormValue("title")),
		Slug:            strings.TrimSpace(r.FormValue("slug")),
		Content:         r.FormValue("content"),
		BodyFormat:      orDefault(r.FormValue("body_format"), string(models.BodyFormatMarkdown)),
		MetaDescription: strings.TrimSpace(r.FormValue("meta_description")),
		Status:          orDefault(r.FormValue("status"), string(models.PageStatusDraft)),
	}
}

func (f pageForm) apply(p *models.Page) {
	p.Title = f.Title
	p.Slug = f.Slug
	p.Content = f.Content
	p.BodyFormat = models.BodyFormat(f.BodyFormat)
	p.MetaDescription = optional(f.MetaDescription)
	p.Status = models.PageStatus(f.Status)
}
