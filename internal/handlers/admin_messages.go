package handlers

import (
	"net/http"

	"marianconnect/internal/models"
	"marianconnect/internal/render"
)

// MessagesList renders contact form submissions, optionally only unread.
func (a *Admin) MessagesList(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") == "1"
	total, err := a.stores.Contacts.Count(unreadOnly)
	if err != nil {
		serverError(w, "count messages failed", err)
		return
	}
	p := models.NewPagination(pageNumber(r), adminPerPage, total)
	items, err := a.stores.Contacts.List(unreadOnly, p.PerPage, p.Offset())
	if err != nil {
		serverError(w, "list messages failed", err)
		return
	}
	a.listPage(w, r, "messages_list", "Messages", "messages", map[string]any{
		"Items":      items,
		"UnreadOnly": unreadOnly,
		"Pager":      newPager(r, p),
	})
}

// MessageView shows one message and marks it read.
func (a *Admin) MessageView(w http.ResponseWriter, r *http.Request) {
	m, ok := a.findMessage(w, r)
	if !ok {
		return
	}
	if !m.IsRead {
		if err := a.stores.Contacts.MarkRead(m.ID); err != nil {
			serverError(w, "mark message read failed", err)
			return
		}
		m.IsRead = true
	}
	a.renderer.Page(w, r, "message_view", &render.PageData{
		Title:   m.Subject,
		Section: "messages",
		Data:    map[string]any{"Item": m},
	})
}

// MessageMarkRead marks a message read without opening it.
func (a *Admin) MessageMarkRead(w http.ResponseWriter, r *http.Request) {
	m, ok := a.findMessage(w, r)
	if !ok {
		return
	}
	if err := a.stores.Contacts.MarkRead(m.ID); err != nil {
		serverError(w, "mark message read failed", err)
		return
	}
	audit(r.Context(), "message.read", "id", m.ID)
	http.Redirect(w, r, "/admin/messages?notice=read", http.StatusSeeOther)
}

// MessageDelete removes a message.
func (a *Admin) MessageDelete(w http.ResponseWriter, r *http.Request) {
	m, ok := a.findMessage(w, r)
	if !ok {
		return
	}
	if err := a.stores.Contacts.Delete(m.ID); err != nil {
		serverError(w, "delete message failed", err)
		return
	}
	audit(r.Context(), "message.delete", "id", m.ID)
	http.Redirect(w, r, "/admin/messages?notice=deleted", http.StatusSeeOther)
}

func (a *Admin) findMessage(w http.ResponseWriter, r *http.Request) (*models.ContactMessage, bool) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return nil, false
	}
	m, err := a.stores.Contacts.FindByID(id)
	if err != nil {
		serverError(w, "find message failed", err)
		return nil, false
	}
	if m == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return m, true
}
