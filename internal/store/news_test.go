package store

import (
	"errors"
	"testing"

	"marianconnect/internal/models"
)

func newTestNews(title, slug string, status models.NewsStatus) *models.News {
	return &models.News{
		Title:    title,
		Slug:     slug,
		Content:  "<p>" + title + "</p>",
		Category: "general",
		Status:   status,
	}
}

func TestNewsStoreSlugUniqueness(t *testing.T) {
	db := testDB(t)
	s := NewNewsStore(db)
	t.Cleanup(func() { cleanBySlug(t, db, "news", "store-test-a", "store-test-b") })

	a, err := s.Create(newTestNews("A", "store-test-a", models.NewsStatusDraft))
	if err != nil {
		t.Fatalf("Create a: %v", err)
	}
	b, err := s.Create(newTestNews("B", "store-test-b", models.NewsStatusDraft))
	if err != nil {
		t.Fatalf("Create b: %v", err)
	}

	// Creating a third row with a's slug fails and inserts nothing.
	before, _ := s.Count(NewsFilter{})
	if _, err := s.Create(newTestNews("Dup", "store-test-a", models.NewsStatusDraft)); !errors.Is(err, ErrSlugTaken) {
		t.Errorf("Create duplicate: got %v, want ErrSlugTaken", err)
	}
	after, _ := s.Count(NewsFilter{})
	if after != before {
		t.Errorf("row count changed from %d to %d after rejected create", before, after)
	}

	// Editing b to a's slug is rejected.
	b.Slug = "store-test-a"
	if err := s.Update(b); !errors.Is(err, ErrSlugTaken) {
		t.Errorf("Update to taken slug: got %v, want ErrSlugTaken", err)
	}

	// Keeping its own slug is allowed.
	a.Title = "A edited"
	if err := s.Update(a); err != nil {
		t.Errorf("Update keeping own slug: %v", err)
	}
}

func TestNewsStorePublishDate(t *testing.T) {
	db := testDB(t)
	s := NewNewsStore(db)
	t.Cleanup(func() { cleanBySlug(t, db, "news", "store-test-publish") })

	n, err := s.Create(newTestNews("Publish", "store-test-publish", models.NewsStatusDraft))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n.PublishedDate != nil {
		t.Fatal("draft should have no publish date")
	}

	n.Status = models.NewsStatusPublished
	if err := s.Update(n); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if n.PublishedDate == nil {
		t.Fatal("expected publish date after first publish")
	}
	first := *n.PublishedDate

	n.Status = models.NewsStatusArchived
	s.Update(n)
	n.Status = models.NewsStatusPublished
	s.Update(n)
	if n.PublishedDate == nil || !n.PublishedDate.Equal(first) {
		t.Errorf("publish date changed on re-publish: %v -> %v", first, n.PublishedDate)
	}

	found, err := s.FindPublishedBySlug("store-test-publish")
	if err != nil || found == nil {
		t.Fatalf("FindPublishedBySlug: %v, %v", found, err)
	}
	if err := s.IncrementViews(found.ID); err != nil {
		t.Fatalf("IncrementViews: %v", err)
	}
	again, _ := s.FindByID(found.ID)
	if again.Views != found.Views+1 {
		t.Errorf("views = %d, want %d", again.Views, found.Views+1)
	}
}

func TestNewsStorePagePastEnd(t *testing.T) {
	db := testDB(t)
	s := NewNewsStore(db)

	total, err := s.Count(NewsFilter{})
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	p := models.NewPagination(total/20+5, 20, total)
	items, err := s.List(NewsFilter{}, p.PerPage, p.Offset())
	if err != nil {
		t.Fatalf("List past end: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no rows past the last page, got %d", len(items))
	}
}

func TestNewsStoreDeleteReturnsRow(t *testing.T) {
	db := testDB(t)
	s := NewNewsStore(db)
	t.Cleanup(func() { cleanBySlug(t, db, "news", "store-test-delete") })

	img := "news/123_abc_0.jpg"
	n := newTestNews("Delete", "store-test-delete", models.NewsStatusDraft)
	n.FeaturedImage = &img
	n, err := s.Create(n)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	deleted, err := s.Delete(n.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if deleted == nil || deleted.FeaturedImage == nil || *deleted.FeaturedImage != img {
		t.Errorf("Delete returned %+v, want row with image %q", deleted, img)
	}

	again, err := s.Delete(n.ID)
	if err != nil || again != nil {
		t.Errorf("second Delete = %v, %v; want nil, nil", again, err)
	}
}
