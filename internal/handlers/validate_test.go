package handlers

import (
	"strings"
	"testing"
)

func validContact() contactForm {
	return contactForm{
		Name:    "Maria Santos",
		Email:   "maria@example.com",
		Subject: "Enrollment",
		Message: "When does enrollment open?",
	}
}

func TestValidateContactForm(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*contactForm)
		want   string
	}{
		{"valid", func(*contactForm) {}, ""},
		{"missing name", func(f *contactForm) { f.Name = "" }, "Name is required."},
		{"bad email", func(f *contactForm) { f.Email = "not-an-email" }, "Email must be a valid email address."},
		{"missing message", func(f *contactForm) { f.Message = "" }, "Message is required."},
		{"long subject", func(f *contactForm) { f.Subject = strings.Repeat("a", 201) }, "Subject is too long (max 200 characters)."},
		{"phone optional", func(f *contactForm) { f.Phone = "" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validContact()
			tt.modify(&f)
			if got := validateForm(f); got != tt.want {
				t.Errorf("validateForm = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateCountsRunesNotBytes(t *testing.T) {
	f := validContact()
	f.Name = strings.Repeat("ñ", 100) // 200 bytes, 100 characters
	if got := validateForm(f); got != "" {
		t.Errorf("100 two-byte characters should pass, got %q", got)
	}
}

func TestValidateVocabulary(t *testing.T) {
	f := newsForm{Title: "Title", Content: "Body", Category: "general", Status: "draft"}
	if got := validateForm(f); got != "" {
		t.Fatalf("valid news form rejected: %q", got)
	}
	f.Category = "gossip"
	if got := validateForm(f); got != "Category has an invalid value." {
		t.Errorf("unknown category: got %q", got)
	}
}

func TestValidateEventDates(t *testing.T) {
	f := eventForm{
		Title:       "Foundation Day",
		Description: "Celebration",
		Category:    "cultural",
		Status:      "upcoming",
		StartDate:   "2026-12-08",
	}
	if got := validateForm(f); got != "" {
		t.Fatalf("valid event form rejected: %q", got)
	}

	f.StartDate = "08/12/2026"
	if got := validateForm(f); got != "Start date must be a date like 2026-05-31." {
		t.Errorf("bad date: got %q", got)
	}

	f.StartDate = "2026-12-08"
	f.StartTime = "9am"
	if got := validateForm(f); got != "Start time must be a time like 14:30." {
		t.Errorf("bad time: got %q", got)
	}
}

func TestValidateGalleryForm(t *testing.T) {
	f := galleryForm{Category: "campus", EventID: "not-a-uuid"}
	if got := validateForm(f); got != "Event has an invalid value." {
		t.Errorf("bad event id: got %q", got)
	}
	f = galleryForm{Category: "campus", DisplayOrder: -1}
	if got := validateForm(f); got != "Display order must be at least 0." {
		t.Errorf("negative order: got %q", got)
	}
}
