// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"marianconnect/internal/models"
)

// GalleryStore handles all gallery-related database operations.
type GalleryStore struct {
	db *sql.DB
}

// NewGalleryStore creates a new GalleryStore with the given database connection.
func NewGalleryStore(db *sql.DB) *GalleryStore {
	return &GalleryStore{db: db}
}

// GalleryFilter narrows a gallery listing.
type GalleryFilter struct {
	Category     string
	EventID      *uuid.UUID
	FeaturedOnly bool
}

func (f GalleryFilter) build() *filter {
	w := &filter{}
	if models.ValidChoice(models.GalleryCategories, f.Category) {
		w.add("g.category = ?", f.Category)
	}
	if f.EventID != nil {
		w.add("g.event_id = ?", *f.EventID)
	}
	if f.FeaturedOnly {
		w.add("g.is_featured = TRUE")
	}
	return w
}

const galleryColumns = `g.id, g.title, g.description, g.image_path, g.thumbnail_path, g.category,
	g.event_id, e.title, g.uploaded_by, g.is_featured, g.display_order, g.created_at, g.updated_at`

const galleryFrom = ` FROM gallery g LEFT JOIN events e ON e.id = g.event_id`

const galleryOrder = ` ORDER BY g.display_order ASC, g.created_at DESC`

func scanGallery(s rowScanner) (*models.GalleryImage, error) {
	var g models.GalleryImage
	err := s.Scan(
		&g.ID, &g.Title, &g.Description, &g.ImagePath, &g.ThumbnailPath, &g.Category,
		&g.EventID, &g.EventTitle, &g.UploadedBy, &g.IsFeatured, &g.DisplayOrder,
		&g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (s *GalleryStore) query(q string, args ...any) ([]models.GalleryImage, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list gallery: %w", err)
	}
	defer rows.Close()

	var items []models.GalleryImage
	for rows.Next() {
		g, err := scanGallery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan gallery: %w", err)
		}
		items = append(items, *g)
	}
	return items, rows.Err()
}

// List returns one page of gallery images matching f.
func (s *GalleryStore) List(f GalleryFilter, limit, offset int) ([]models.GalleryImage, error) {
	w := f.build()
	return s.query(`SELECT `+galleryColumns+galleryFrom+w.where()+galleryOrder+w.page(limit, offset), w.args...)
}

// Count returns the number of gallery images matching f.
func (s *GalleryStore) Count(f GalleryFilter) (int, error) {
	w := f.build()
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM gallery g`+w.where(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count gallery: %w", err)
	}
	return n, nil
}

// ListByEvent returns every image attached to an event.
func (s *GalleryStore) ListByEvent(eventID uuid.UUID) ([]models.GalleryImage, error) {
	return s.query(`SELECT `+galleryColumns+galleryFrom+` WHERE g.event_id = $1`+galleryOrder, eventID)
}

// FindByID retrieves a gallery image by its UUID. Returns nil if not found.
func (s *GalleryStore) FindByID(id uuid.UUID) (*models.GalleryImage, error) {
	g, err := scanGallery(s.db.QueryRow(`SELECT `+galleryColumns+galleryFrom+` WHERE g.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find gallery image by id: %w", err)
	}
	return g, nil
}

// CreateWith inserts g inside a transaction and runs finalize before
// committing. finalize receives the inserted row; if it fails the insert
// is rolled back and its error returned. A commit failure is returned
// after finalize has run, so the caller must undo whatever finalize did.
func (s *GalleryStore) CreateWith(ctx context.Context, g *models.GalleryImage, finalize func(*models.GalleryImage) error) (*models.GalleryImage, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin gallery insert: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO gallery (title, description, image_path, thumbnail_path, category,
			event_id, uploaded_by, is_featured, display_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, g.Title, g.Description, g.ImagePath, g.ThumbnailPath, g.Category,
		g.EventID, g.UploadedBy, g.IsFeatured, g.DisplayOrder,
	).Scan(&g.ID, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert gallery image: %w", err)
	}

	if finalize != nil {
		if err := finalize(g); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit gallery insert: %w", err)
	}
	return g, nil
}

// Update saves the editable metadata of a gallery image. File paths are
// never changed after upload.
func (s *GalleryStore) Update(g *models.GalleryImage) error {
	_, err := s.db.Exec(`
		UPDATE gallery SET title = $1, description = $2, category = $3, event_id = $4,
			is_featured = $5, display_order = $6, updated_at = NOW()
		WHERE id = $7
	`, g.Title, g.Description, g.Category, g.EventID, g.IsFeatured, g.DisplayOrder, g.ID)
	if err != nil {
		return fmt.Errorf("update gallery image: %w", err)
	}
	return nil
}

// Delete removes a gallery image and returns the deleted row so the caller
// can remove its files. Returns nil if not found.
func (s *GalleryStore) Delete(id uuid.UUID) (*models.GalleryImage, error) {
	g, err := s.FindByID(id)
	if err != nil || g == nil {
		return nil, err
	}
	if _, err := s.db.Exec(`DELETE FROM gallery WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete gallery image: %w", err)
	}
	return g, nil
}
