package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"marianconnect/internal/models"
)

// PageStore handles all static-page database operations.
type PageStore struct {
	db *sql.DB
}

// NewPageStore creates a new PageStore with the given database connection.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db}
}

const pageColumns = `id, title, slug, content, body_format, meta_description, status, created_at, updated_at`

func scanPage(s rowScanner) (*models.Page, error) {
	var p models.Page
	err := s.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.BodyFormat, &p.MetaDescription,
		&p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PageStore) query(q string, args ...any) ([]models.Page, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer rows.Close()

	var items []models.Page
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan page: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// List returns one page of static pages ordered by title.
func (s *PageStore) List(limit, offset int) ([]models.Page, error) {
	return s.query(`SELECT `+pageColumns+` FROM pages ORDER BY title ASC LIMIT $1 OFFSET $2`, limit, offset)
}

// ListPublished returns every published page, for navigation.
func (s *PageStore) ListPublished() ([]models.Page, error) {
	return s.query(`SELECT ` + pageColumns + ` FROM pages WHERE status = 'published' ORDER BY title ASC`)
}

// Count returns the total number of pages.
func (s *PageStore) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM pages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count pages: %w", err)
	}
	return n, nil
}

// FindByID retrieves a page by its UUID. Returns nil if not found.
func (s *PageStore) FindByID(id uuid.UUID) (*models.Page, error) {
	p, err := scanPage(s.db.QueryRow(`SELECT `+pageColumns+` FROM pages WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by id: %w", err)
	}
	return p, nil
}

// FindPublishedBySlug retrieves a published page. Returns nil if not found.
func (s *PageStore) FindPublishedBySlug(slug string) (*models.Page, error) {
	p, err := scanPage(s.db.QueryRow(
		`SELECT `+pageColumns+` FROM pages WHERE slug = $1 AND status = 'published'`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by slug: %w", err)
	}
	return p, nil
}

// SlugExists reports whether another page already uses slug.
func (s *PageStore) SlugExists(slug string, exclude *uuid.UUID) (bool, error) {
	return slugExists(s.db, "pages", slug, exclude)
}

// Create inserts a page. Returns ErrSlugTaken on a slug collision.
func (s *PageStore) Create(p *models.Page) (*models.Page, error) {
	taken, err := s.SlugExists(p.Slug, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	err = s.db.QueryRow(`
		INSERT INTO pages (title, slug, content, body_format, meta_description, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`, p.Title, p.Slug, p.Content, p.BodyFormat, p.MetaDescription, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, ErrSlugTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return p, nil
}

// Update saves an edited page. Returns ErrSlugTaken on a slug collision.
func (s *PageStore) Update(p *models.Page) error {
	taken, err := s.SlugExists(p.Slug, &p.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlugTaken
	}

	_, err = s.db.Exec(`
		UPDATE pages SET title = $1, slug = $2, content = $3, body_format = $4,
			meta_description = $5, status = $6, updated_at = NOW()
		WHERE id = $7
	`, p.Title, p.Slug, p.Content, p.BodyFormat, p.MetaDescription, p.Status, p.ID)
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("update page: %w", err)
	}
	return nil
}

// Delete removes a page by ID.
func (s *PageStore) Delete(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM pages WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	return nil
}
