package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"marianconnect/internal/models"
	"marianconnect/internal/render"
)

// ContactPage renders the public contact form.
func (p *Public) ContactPage(w http.ResponseWriter, r *http.Request) {
	p.contactPage(w, r, contactForm{}, "", false)
}

// ContactSubmit validates and stores a contact form message.
func (p *Public) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	form := contactForm{
		Name:    strings.TrimSpace(r.FormValue("name")),
		Email:   strings.TrimSpace(r.FormValue("email")),
		Phone:   strings.TrimSpace(r.FormValue("phone")),
		Subject: strings.TrimSpace(r.FormValue("subject")),
		Message: strings.TrimSpace(r.FormValue("message")),
	}
	if msg := validateForm(form); msg != "" {
		p.contactPage(w, r, form, msg, false)
		return
	}

	m, err := p.stores.Contacts.Create(&models.ContactMessage{
		Name:    form.Name,
		Email:   form.Email,
		Phone:   optional(form.Phone),
		Subject: form.Subject,
		Message: form.Message,
	})
	if err != nil {
		slog.Error("save contact message failed", "error", err)
		p.contactPage(w, r, form, "Your message could not be sent. Please try again later.", false)
		return
	}
	slog.Info("contact message received", "id", m.ID, "email", m.Email)
	p.contactPage(w, r, contactForm{}, "", true)
}

func (p *Public) contactPage(w http.ResponseWriter, r *http.Request, form contactForm, errMsg string, sent bool) {
	pd := &render.PageData{
		Title:   "Contact Us",
		Section: "contact",
		Data:    map[string]any{"Form": form, "Sent": sent},
	}
	if errMsg != "" {
		pd.Data["Error"] = errMsg
	}
	if sent {
		pd.AddFlash(render.FlashSuccess, "Thank you! Your message has been sent.")
	}
	p.renderer.Public(w, r, "contact", pd)
}
