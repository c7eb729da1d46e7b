package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"marianconnect/internal/models"
	"marianconnect/internal/render"
	"marianconnect/internal/store"
	"marianconnect/internal/upload"
)

// uploadField is the multipart field holding gallery files.
const uploadField = "images"

// GalleryList renders the gallery management grid.
func (a *Admin) GalleryList(w http.ResponseWriter, r *http.Request) {
	f := store.GalleryFilter{Category: choice(r, "category", models.GalleryCategories)}
	total, err := a.stores.Gallery.Count(f)
	if err != nil {
		serverError(w, "count gallery failed", err)
		return
	}
	p := models.NewPagination(pageNumber(r), adminPerPage, total)
	items, err := a.stores.Gallery.List(f, p.PerPage, p.Offset())
	if err != nil {
		serverError(w, "list gallery failed", err)
		return
	}
	a.listPage(w, r, "gallery_list", "Gallery", "gallery", map[string]any{
		"Items":      items,
		"Filter":     f,
		"Pager":      newPager(r, p),
		"Categories": models.GalleryCategories,
	})
}

// GalleryUploadPage renders the batch upload form.
func (a *Admin) GalleryUploadPage(w http.ResponseWriter, r *http.Request) {
	a.uploadPage(w, r, upload.Batch{Category: "campus"}, nil, nil)
}

// GalleryUpload ingests a multi-file upload. Each file is validated and
// stored on its own; the page reports the stored images plus one warning
// per rejected file.
func (a *Admin) GalleryUpload(w http.ResponseWriter, r *http.Request) {
	form := galleryForm{
		Title:       strings.TrimSpace(r.FormValue("title")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Category:    orDefault(r.FormValue("category"), "other"),
		EventID:     strings.TrimSpace(r.FormValue("event_id")),
	}
	batch := upload.Batch{
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		IsFeatured:  checked(r, "is_featured"),
		UploadedBy:  sessionUserID(r.Context()),
	}

	if msg := validateForm(form); msg != "" {
		a.uploadPage(w, r, batch, nil, []render.Flash{{Type: render.FlashError, Message: msg}})
		return
	}
	if form.EventID != "" {
		eventID, msg := a.eventRef(form.EventID)
		if msg != "" {
			a.uploadPage(w, r, batch, nil, []render.Flash{{Type: render.FlashError, Message: msg}})
			return
		}
		batch.EventID = eventID
	}

	var files []upload.File
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File[uploadField] {
			files = append(files, upload.FromMultipart(fh))
		}
	}
	if len(files) == 0 {
		a.uploadPage(w, r, batch, nil, []render.Flash{{Type: render.FlashError, Message: "Choose at least one image to upload."}})
		return
	}
	if len(files) > upload.MaxBatchFiles {
		msg := fmt.Sprintf("Upload at most %d images at a time.", upload.MaxBatchFiles)
		a.uploadPage(w, r, batch, nil, []render.Flash{{Type: render.FlashError, Message: msg}})
		return
	}

	res := a.ingester.Ingest(r.Context(), batch, files)

	var flashes []render.Flash
	if n := len(res.Uploaded); n > 0 {
		flashes = append(flashes, render.Flash{Type: render.FlashSuccess, Message: fmt.Sprintf("Uploaded %d of %d image(s).", n, len(files))})
		a.changed(r, "gallery.upload", "uploaded", n, "rejected", len(res.Errors))
	}
	failType := render.FlashWarning
	if len(res.Uploaded) == 0 {
		failType = render.FlashError
	}
	for _, msg := range res.Errors {
		flashes = append(flashes, render.Flash{Type: failType, Message: msg})
	}
	a.uploadPage(w, r, batch, res.Uploaded, flashes)
}

// GalleryEdit renders the metadata form for one image.
func (a *Admin) GalleryEdit(w http.ResponseWriter, r *http.Request) {
	item, ok := a.findGallery(w, r)
	if !ok {
		return
	}
	a.galleryForm(w, r, item, "")
}

// GalleryUpdate saves image metadata. Files are never replaced.
func (a *Admin) GalleryUpdate(w http.ResponseWriter, r *http.Request) {
	existing, ok := a.findGallery(w, r)
	if !ok {
		return
	}
	order, err := strconv.Atoi(strings.TrimSpace(r.FormValue("display_order")))
	if err != nil {
		order = -1
	}
	form := galleryForm{
		Title:        strings.TrimSpace(r.FormValue("title")),
		Description:  strings.TrimSpace(r.FormValue("description")),
		Category:     orDefault(r.FormValue("category"), "other"),
		EventID:      strings.TrimSpace(r.FormValue("event_id")),
		DisplayOrder: order,
	}

	item := *existing
	item.Title = form.Title
	item.Description = optional(form.Description)
	item.Category = form.Category
	item.IsFeatured = checked(r, "is_featured")
	item.DisplayOrder = max(order, 0)

	msg := validateForm(form)
	if msg == "" && form.Title == "" {
		msg = "Title is required."
	}
	if msg == "" {
		item.EventID = nil
		if form.EventID != "" {
			item.EventID, msg = a.eventRef(form.EventID)
		}
	}
	if msg != "" {
		a.galleryForm(w, r, &item, msg)
		return
	}

	if err := a.stores.Gallery.Update(&item); err != nil {
		a.galleryForm(w, r, &item, saveMessage(err, "gallery", "image"))
		return
	}
	a.changed(r, "gallery.update", "id", item.ID)
	http.Redirect(w, r, "/admin/gallery?notice=updated", http.StatusSeeOther)
}

// GalleryDelete removes an image row and both of its files.
func (a *Admin) GalleryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	deleted, err := a.stores.Gallery.Delete(id)
	if err != nil {
		serverError(w, "delete gallery image failed", err)
		return
	}
	if deleted == nil {
		http.NotFound(w, r)
		return
	}
	a.ingester.Delete(r.Context(), deleted.StorageKeys()...)

	a.changed(r, "gallery.delete", "id", deleted.ID, "path", deleted.ImagePath)
	http.Redirect(w, r, "/admin/gallery?notice=deleted", http.StatusSeeOther)
}

// eventRef resolves a submitted event ID, returning a form message when it
// does not name an existing event.
func (a *Admin) eventRef(raw string) (*uuid.UUID, string) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, "Event has an invalid value."
	}
	e, err := a.stores.Events.FindByID(id)
	if err != nil {
		return nil, saveMessage(err, "events", "image")
	}
	if e == nil {
		return nil, "The selected event no longer exists."
	}
	return &id, ""
}

func (a *Admin) findGallery(w http.ResponseWriter, r *http.Request) (*models.GalleryImage, bool) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	item, err := a.stores.Gallery.FindByID(id)
	if err != nil {
		serverError(w, "find gallery image failed", err)
		return nil, false
	}
	if item == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return item, true
}

func (a *Admin) eventOptions() []models.Event {
	events, err := a.stores.Events.Options()
	if err != nil {
		slog.Error("list event options failed", "error", err)
	}
	return events
}

func (a *Admin) uploadPage(w http.ResponseWriter, r *http.Request, batch upload.Batch, uploaded []models.GalleryImage, flashes []render.Flash) {
	a.renderer.Page(w, r, "gallery_upload", &render.PageData{
		Title:   "Upload Images",
		Section: "gallery",
		Flashes: flashes,
		Data: map[string]any{
			"Batch":      batch,
			"Uploaded":   uploaded,
			"Categories": models.GalleryCategories,
			"Events":     a.eventOptions(),
			"MaxFiles":   upload.MaxBatchFiles,
		},
	})
}

func (a *Admin) galleryForm(w http.ResponseWriter, r *http.Request, item *models.GalleryImage, errMsg string) {
	data := map[string]any{
		"Item":       item,
		"Categories": models.GalleryCategories,
		"Events":     a.eventOptions(),
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	a.renderer.Page(w, r, "gallery_form", &render.PageData{Title: "Edit Image", Section: "gallery", Data: data})
}
