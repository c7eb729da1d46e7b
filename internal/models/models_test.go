package models

import (
	"slices"
	"testing"
	"time"
)

func TestNewsIsPublished(t *testing.T) {
	tests := []struct {
		status NewsStatus
		want   bool
	}{
		{NewsStatusPublished, true},
		{NewsStatusDraft, false},
		{NewsStatusArchived, false},
		{NewsStatus(""), false},
	}
	for _, tt := range tests {
		n := &News{Status: tt.status}
		if got := n.IsPublished(); got != tt.want {
			t.Errorf("News{Status: %q}.IsPublished() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestNewsDisplayDate(t *testing.T) {
	created := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	published := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	n := &News{CreatedAt: created}
	if !n.DisplayDate().Equal(created) {
		t.Errorf("DisplayDate() without publish date = %v, want %v", n.DisplayDate(), created)
	}
	n.PublishedDate = &published
	if !n.DisplayDate().Equal(published) {
		t.Errorf("DisplayDate() = %v, want %v", n.DisplayDate(), published)
	}
}

func TestGalleryImagePreviewPath(t *testing.T) {
	thumb := "gallery/thumbnails/a.png"
	empty := ""

	tests := []struct {
		name  string
		thumb *string
		want  string
	}{
		{name: "thumbnail present", thumb: &thumb, want: thumb},
		{name: "nil thumbnail", thumb: nil, want: "gallery/a.png"},
		{name: "empty thumbnail", thumb: &empty, want: "gallery/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := &GalleryImage{ImagePath: "gallery/a.png", ThumbnailPath: tt.thumb}
			if got := g.PreviewPath(); got != tt.want {
				t.Errorf("PreviewPath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGalleryImageStorageKeys(t *testing.T) {
	thumb := "gallery/thumbnails/a.png"
	g := &GalleryImage{ImagePath: "gallery/a.png", ThumbnailPath: &thumb}
	if got := g.StorageKeys(); !slices.Equal(got, []string{"gallery/a.png", thumb}) {
		t.Errorf("StorageKeys() = %v", got)
	}
	if got := (&GalleryImage{}).StorageKeys(); len(got) != 0 {
		t.Errorf("StorageKeys() on empty row = %v, want none", got)
	}
}

func TestEventIsPast(t *testing.T) {
	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	day := func(d int) time.Time { return time.Date(2026, 5, d, 0, 0, 0, 0, time.UTC) }
	end := day(12)

	tests := []struct {
		name string
		ev   Event
		want bool
	}{
		{name: "yesterday", ev: Event{StartDate: day(9)}, want: true},
		{name: "today", ev: Event{StartDate: day(10)}, want: false},
		{name: "tomorrow", ev: Event{StartDate: day(11)}, want: false},
		{name: "started earlier, ends later", ev: Event{StartDate: day(1), EndDate: &end}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ev.IsPast(now); got != tt.want {
				t.Errorf("IsPast() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestValidChoice(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"sports", true},
		{"general", true},
		{"SPORTS", false},
		{"", false},
		{"sports' OR 1=1", false},
	}
	for _, tt := range tests {
		if got := ValidChoice(NewsCategories, tt.value); got != tt.want {
			t.Errorf("ValidChoice(NewsCategories, %q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestLabel(t *testing.T) {
	tests := map[string]string{
		"junior_high":     "Junior High",
		"sports":          "Sports",
		"student_affairs": "Student Affairs",
		"":                "",
	}
	for in, want := range tests {
		if got := Label(in); got != want {
			t.Errorf("Label(%q) = %q, want %q", in, got, want)
		}
	}
}
