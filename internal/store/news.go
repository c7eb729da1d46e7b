// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store provides database access methods for all MarianConnect
// entities. Each store struct wraps a *sql.DB and exposes typed query methods.
package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"marianconnect/internal/models"
)

// NewsStore handles all news-related database operations.
type NewsStore struct {
	db *sql.DB
}

// NewNewsStore creates a new NewsStore with the given database connection.
func NewNewsStore(db *sql.DB) *NewsStore {
	return &NewsStore{db: db}
}

// NewsFilter narrows a news listing. Values outside the known category and
// status vocabularies are ignored.
type NewsFilter struct {
	Category      string
	Status        string
	Search        string
	FeaturedOnly  bool
	PublishedOnly bool
}

func (f NewsFilter) build() *filter {
	w := &filter{}
	if models.ValidChoice(models.NewsCategories, f.Category) {
		w.add("n.category = ?", f.Category)
	}
	if f.PublishedOnly {
		w.add("n.status = ?", string(models.NewsStatusPublished))
	} else if models.ValidChoice(models.NewsStatuses, f.Status) {
		w.add("n.status = ?", f.Status)
	}
	if f.Search != "" {
		term := like(f.Search)
		w.add("(n.title ILIKE ? OR n.content ILIKE ?)", term, term)
	}
	if f.FeaturedOnly {
		w.add("n.is_featured = TRUE")
	}
	return w
}

const newsColumns = `n.id, n.title, n.slug, n.excerpt, n.content, n.category, n.featured_image,
	n.author_id, COALESCE(u.display_name, ''), n.status, n.is_featured, n.published_date,
	n.views, n.created_at, n.updated_at`

const newsFrom = ` FROM news n LEFT JOIN users u ON u.id = n.author_id`

func scanNews(s rowScanner) (*models.News, error) {
	var n models.News
	err := s.Scan(
		&n.ID, &n.Title, &n.Slug, &n.Excerpt, &n.Content, &n.Category, &n.FeaturedImage,
		&n.AuthorID, &n.AuthorName, &n.Status, &n.IsFeatured, &n.PublishedDate,
		&n.Views, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *NewsStore) query(q string, args ...any) ([]models.News, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list news: %w", err)
	}
	defer rows.Close()

	var items []models.News
	for rows.Next() {
		n, err := scanNews(rows)
		if err != nil {
			return nil, fmt.Errorf("scan news: %w", err)
		}
		items = append(items, *n)
	}
	return items, rows.Err()
}

// List returns one page of news matching f. Published listings are ordered
// by publish date, admin listings by creation date.
func (s *NewsStore) List(f NewsFilter, limit, offset int) ([]models.News, error) {
	w := f.build()
	order := " ORDER BY n.created_at DESC"
	if f.PublishedOnly {
		order = " ORDER BY n.published_date DESC NULLS LAST, n.created_at DESC"
	}
	q := `SELECT ` + newsColumns + newsFrom + w.where() + order + w.page(limit, offset)
	return s.query(q, w.args...)
}

// Count returns the number of news rows matching f.
func (s *NewsStore) Count(f NewsFilter) (int, error) {
	w := f.build()
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM news n`+w.where(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count news: %w", err)
	}
	return n, nil
}

// FindByID retrieves a news article by its UUID. Returns nil if not found.
func (s *NewsStore) FindByID(id uuid.UUID) (*models.News, error) {
	n, err := scanNews(s.db.QueryRow(`SELECT `+newsColumns+newsFrom+` WHERE n.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find news by id: %w", err)
	}
	return n, nil
}

// FindPublishedBySlug retrieves a published article by slug. Returns nil if
// no published article has that slug.
func (s *NewsStore) FindPublishedBySlug(slug string) (*models.News, error) {
	n, err := scanNews(s.db.QueryRow(
		`SELECT `+newsColumns+newsFrom+` WHERE n.slug = $1 AND n.status = 'published'`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find news by slug: %w", err)
	}
	return n, nil
}

// SlugExists reports whether another article already uses slug. Pass the
// article's own ID as exclude when editing.
func (s *NewsStore) SlugExists(slug string, exclude *uuid.UUID) (bool, error) {
	return slugExists(s.db, "news", slug, exclude)
}

// Create inserts a news article. The publish date is set when the article
// is created already published. Returns ErrSlugTaken on a slug collision.
func (s *NewsStore) Create(n *models.News) (*models.News, error) {
	taken, err := s.SlugExists(n.Slug, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	err = s.db.QueryRow(`
		INSERT INTO news (title, slug, excerpt, content, category, featured_image,
			author_id, status, is_featured, published_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9,
			CASE WHEN $8 = 'published' THEN NOW() END)
		RETURNING id, published_date, views, created_at, updated_at
	`, n.Title, n.Slug, n.Excerpt, n.Content, n.Category, n.FeaturedImage,
		n.AuthorID, n.Status, n.IsFeatured,
	).Scan(&n.ID, &n.PublishedDate, &n.Views, &n.CreatedAt, &n.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, ErrSlugTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create news: %w", err)
	}
	return n, nil
}

// Update saves an edited article. The publish date is set on the first
// transition to published and kept afterwards.
func (s *NewsStore) Update(n *models.News) error {
	taken, err := s.SlugExists(n.Slug, &n.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlugTaken
	}

	err = s.db.QueryRow(`
		UPDATE news SET title = $1, slug = $2, excerpt = $3, content = $4, category = $5,
			featured_image = $6, status = $7, is_featured = $8,
			published_date = COALESCE(published_date, CASE WHEN $7 = 'published' THEN NOW() END),
			updated_at = NOW()
		WHERE id = $9
		RETURNING published_date, updated_at
	`, n.Title, n.Slug, n.Excerpt, n.Content, n.Category, n.FeaturedImage,
		n.Status, n.IsFeatured, n.ID,
	).Scan(&n.PublishedDate, &n.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("update news: %w", err)
	}
	return nil
}

// Delete removes an article and returns the deleted row so the caller can
// clean up its image. Returns nil if no row matched.
func (s *NewsStore) Delete(id uuid.UUID) (*models.News, error) {
	n, err := s.FindByID(id)
	if err != nil || n == nil {
		return nil, err
	}
	if _, err := s.db.Exec(`DELETE FROM news WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("delete news: %w", err)
	}
	return n, nil
}

// IncrementViews bumps the public view counter of an article.
func (s *NewsStore) IncrementViews(id uuid.UUID) error {
	if _, err := s.db.Exec(`UPDATE news SET views = views + 1 WHERE id = $1`, id); err != nil {
		return fmt.Errorf("increment news views: %w", err)
	}
	return nil
}

// Related returns the latest published articles in the same category as n,
// excluding n itself.
func (s *NewsStore) Related(n *models.News, limit int) ([]models.News, error) {
	return s.query(`SELECT `+newsColumns+newsFrom+`
		WHERE n.status = 'published' AND n.category = $1 AND n.id <> $2
		ORDER BY n.published_date DESC NULLS LAST LIMIT $3`, n.Category, n.ID, limit)
}
