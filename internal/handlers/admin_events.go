package handlers

import (
	"net/http"
	"strings"
	"time"

	"marianconnect/internal/models"
	"marianconnect/internal/render"
	"marianconnect/internal/slug"
	"marianconnect/internal/storage"
	"marianconnect/internal/store"
)

// EventsList renders the event management page with filters.
func (a *Admin) EventsList(w http.ResponseWriter, r *http.Request) {
	f := store.EventFilter{
		Category: choice(r, "category", models.EventCategories),
		Status:   choice(r, "status", models.EventStatuses),
		Search:   strings.TrimSpace(r.URL.Query().Get("q")),
	}
	total, err := a.stores.Events.Count(f)
	if err != nil {
		serverError(w, "count events failed", err)
		return
	}
	p := models.NewPagination(pageNumber(r), adminPerPage, total)
	items, err := a.stores.Events.List(f, p.PerPage, p.Offset())
	if err != nil {
		serverError(w, "list events failed", err)
		return
	}

	a.listPage(w, r, "events_list", "Events", "events", map[string]any{
		"Items":      items,
		"Filter":     f,
		"Pager":      newPager(r, p),
		"Categories": models.EventCategories,
		"Statuses":   models.EventStatuses,
	})
}

// EventNew renders the new event form.
func (a *Admin) EventNew(w http.ResponseWriter, r *http.Request) {
	a.eventForm(w, r, &models.Event{
		Category:  "academic",
		Status:    models.EventStatusUpcoming,
		StartDate: time.Now(),
	}, true, "")
}

// EventCreate handles the new event form submission.
func (a *Admin) EventCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form := eventFormFrom(r)
	item := &models.Event{CreatedBy: sessionUserID(ctx)}

	if msg := form.apply(item, r); msg != "" {
		a.eventForm(w, r, item, true, msg)
		return
	}
	if item.Slug = slug.Generate(orDefault(form.Slug, form.Title)); item.Slug == "" {
		a.eventForm(w, r, item, true, "Slug could not be generated from the title.")
		return
	}

	if f := formFile(r, "image"); f != nil {
		key, err := a.ingester.Save(ctx, storage.PrefixEvents, f)
		if err != nil {
			a.eventForm(w, r, item, true, uploadMessage(err))
			return
		}
		item.ImagePath = &key
	}

	created, err := a.stores.Events.Create(item)
	if err != nil {
		a.ingester.Delete(ctx, deref(item.ImagePath))
		item.ImagePath = nil
		a.eventForm(w, r, item, true, saveMessage(err, "events", "event"))
		return
	}

	a.changed(r, "event.create", "id", created.ID, "slug", created.Slug)
	http.Redirect(w, r, "/admin/events?notice=created", http.StatusSeeOther)
}

// EventEdit renders the edit form for an event.
func (a *Admin) EventEdit(w http.ResponseWriter, r *http.Request) {
	item, ok := a.findEvent(w, r)
	if !ok {
		return
	}
	a.eventForm(w, r, item, false, "")
}

// EventUpdate handles the edit form submission, replacing or removing the
// image when asked.
func (a *Admin) EventUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	existing, ok := a.findEvent(w, r)
	if !ok {
		return
	}
	oldImage := deref(existing.ImagePath)

	item := *existing
	form := eventFormFrom(r)
	if msg := form.apply(&item, r); msg != "" {
		a.eventForm(w, r, &item, false, msg)
		return
	}
	if item.Slug = slug.Generate(orDefault(form.Slug, form.Title)); item.Slug == "" {
		a.eventForm(w, r, &item, false, "Slug could not be generated from the title.")
		return
	}

	newImage := ""
	if f := formFile(r, "image"); f != nil {
		key, err := a.ingester.Save(ctx, storage.PrefixEvents, f)
		if err != nil {
			a.eventForm(w, r, &item, false, uploadMessage(err))
			return
		}
		newImage = key
		item.ImagePath = &newImage
	} else if checked(r, "remove_image") {
		item.ImagePath = nil
	}

	if err := a.stores.Events.Update(&item); err != nil {
		a.ingester.Delete(ctx, newImage)
		item.ImagePath = existing.ImagePath
		a.eventForm(w, r, &item, false, saveMessage(err, "events", "event"))
		return
	}
	if oldImage != "" && oldImage != deref(item.ImagePath) {
		a.ingester.Delete(ctx, oldImage)
	}

	a.changed(r, "event.update", "id", item.ID, "slug", item.Slug)
	http.Redirect(w, r, "/admin/events?notice=updated", http.StatusSeeOther)
}

// EventDelete removes an event and its image. Gallery images linked to the
// event stay and lose the link.
func (a *Admin) EventDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	deleted, err := a.stores.Events.Delete(id)
	if err != nil {
		serverError(w, "delete event failed", err)
		return
	}
	if deleted == nil {
		http.NotFound(w, r)
		return
	}
	a.ingester.Delete(r.Context(), deref(deleted.ImagePath))

	a.changed(r, "event.delete", "id", deleted.ID, "slug", deleted.Slug)
	http.Redirect(w, r, "/admin/events?notice=deleted", http.StatusSeeOther)
}

func (a *Admin) findEvent(w http.ResponseWriter, r *http.Request) (*models.Event, bool) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	item, err := a.stores.Events.FindByID(id)
	if err != nil {
		serverError(w, "find event failed", err)
		return nil, false
	}
	if item == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return item, true
}

func (a *Admin) eventForm(w http.ResponseWriter, r *http.Request, item *models.Event, isNew bool, errMsg string) {
	title := "Edit Event"
	if isNew {
		title = "New Event"
	}
	data := map[string]any{
		"Item":       item,
		"IsNew":      isNew,
		"Categories": models.EventCategories,
		"Statuses":   models.EventStatuses,
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	a.renderer.Page(w, r, "event_form", &render.PageData{Title: title, Section: "events", Data: data})
}

func eventFormFrom(r *http.Request) eventForm {
	return eventForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Slug:        strings.TrimSpace(r.FormValue("slug")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    orDefault(r.FormValue("category"), "other"),
		Location:    strings.TrimSpace(r.FormValue("location")),
		StartDate:   strings.TrimSpace(r.FormValue("start_date")),
		EndDate:     strings.TrimSpace(r.FormValue("end_date")),
		StartTime:   strings.TrimSpace(r.FormValue("start_time")),
		EndTime:     strings.TrimSpace(r.FormValue("end_time")),
		Status:      orDefault(r.FormValue("status"), string(models.EventStatusUpcoming)),
	}
}

// apply validates the form and copies it onto e. It returns a message when
// the form is invalid; e still receives whatever values could be parsed.
func (f eventForm) apply(e *models.Event, r *http.Request) string {
	e.Title = f.Title
	e.Slug = f.Slug
	e.Description = f.Description
	e.Category = f.Category
	e.Location = optional(f.Location)
	e.StartTime = optional(f.StartTime)
	e.EndTime = optional(f.EndTime)
	e.Status = models.EventStatus(f.Status)
	e.IsFeatured = checked(r, "is_featured")

	if msg := validateForm(f); msg != "" {
		return msg
	}

	start, _ := time.Parse(time.DateOnly, f.StartDate)
	e.StartDate = start
	e.EndDate = nil
	if f.EndDate != "" {
		end, _ := time.Parse(time.DateOnly, f.EndDate)
		if end.Before(start) {
			return "End date cannot be before the start date."
		}
		if !end.Equal(start) {
			e.EndDate = &end
		}
	}
	if f.StartTime != "" && f.EndTime != "" && e.EndDate == nil && f.EndTime < f.StartTime {
		return "End time cannot be before the start time."
	}
	return ""
}
