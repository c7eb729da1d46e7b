package store

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"marianconnect/internal/models"
)

func TestGalleryStoreCreateWithCommits(t *testing.T) {
	db := testDB(t)
	s := NewGalleryStore(db)

	called := false
	g, err := s.CreateWith(context.Background(), &models.GalleryImage{
		Title:     "Campus",
		ImagePath: "gallery/store-test-commit.jpg",
		Category:  "campus",
	}, func(g *models.GalleryImage) error {
		called = true
		if g.ID == uuid.Nil {
			t.Error("finalize received row without ID")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("CreateWith: %v", err)
	}
	t.Cleanup(func() { s.Delete(g.ID) })

	if !called {
		t.Error("finalize was not called")
	}
	found, err := s.FindByID(g.ID)
	if err != nil || found == nil {
		t.Fatalf("FindByID after commit: %v, %v", found, err)
	}
	if found.ThumbnailPath != nil {
		t.Errorf("ThumbnailPath = %v, want nil", *found.ThumbnailPath)
	}
}

func TestGalleryStoreCreateWithRollsBack(t *testing.T) {
	db := testDB(t)
	s := NewGalleryStore(db)

	before, _ := s.Count(GalleryFilter{})
	boom := errors.New("promote failed")
	var id uuid.UUID
	_, err := s.CreateWith(context.Background(), &models.GalleryImage{
		Title:     "Rollback",
		ImagePath: "gallery/store-test-rollback.jpg",
		Category:  "campus",
	}, func(g *models.GalleryImage) error {
		id = g.ID
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("CreateWith: got %v, want %v", err, boom)
	}

	if found, _ := s.FindByID(id); found != nil {
		t.Error("row exists after rollback")
	}
	after, _ := s.Count(GalleryFilter{})
	if after != before {
		t.Errorf("count changed from %d to %d", before, after)
	}
}

func TestGalleryStoreEventLink(t *testing.T) {
	db := testDB(t)
	events := NewEventStore(db)
	gallery := NewGalleryStore(db)
	t.Cleanup(func() { cleanBySlug(t, db, "events", "store-test-gallery-event") })

	ev, err := events.Create(&models.Event{
		Title:    "Foundation Day",
		Slug:     "store-test-gallery-event",
		Category: "cultural",
		Status:   models.EventStatusUpcoming,
	})
	if err != nil {
		t.Fatalf("Create event: %v", err)
	}

	g, err := gallery.CreateWith(context.Background(), &models.GalleryImage{
		Title: "Parade", ImagePath: "gallery/store-test-event.jpg", Category: "events", EventID: &ev.ID,
	}, nil)
	if err != nil {
		t.Fatalf("CreateWith: %v", err)
	}
	t.Cleanup(func() { gallery.Delete(g.ID) })

	linked, err := gallery.ListByEvent(ev.ID)
	if err != nil || len(linked) != 1 {
		t.Fatalf("ListByEvent = %d rows, %v", len(linked), err)
	}
	if linked[0].EventTitle == nil || *linked[0].EventTitle != "Foundation Day" {
		t.Errorf("EventTitle = %v", linked[0].EventTitle)
	}

	// Deleting the event detaches the image instead of deleting it.
	if _, err := events.Delete(ev.ID); err != nil {
		t.Fatalf("Delete event: %v", err)
	}
	after, _ := gallery.FindByID(g.ID)
	if after == nil || after.EventID != nil {
		t.Errorf("image after event delete = %+v, want detached row", after)
	}
}
