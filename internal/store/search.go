package store

import (
	"database/sql"
	"fmt"

	"marianconnect/internal/models"
)

// SearchResults groups public search hits by section.
type SearchResults struct {
	News   []models.News
	Events []models.Event
	Pages  []models.Page
}

// Total returns the number of hits across all sections.
func (r SearchResults) Total() int {
	return len(r.News) + len(r.Events) + len(r.Pages)
}

// SearchStore runs the public site search across several tables.
type SearchStore struct {
	db *sql.DB
}

// NewSearchStore creates a new SearchStore with the given database connection.
func NewSearchStore(db *sql.DB) *SearchStore {
	return &SearchStore{db: db}
}

// Search finds published news, non-cancelled events and published pages
// whose title or body contains q. Each section is capped at limit rows.
func (s *SearchStore) Search(q string, limit int) (SearchResults, error) {
	db := s.db
	var res SearchResults
	if q == "" {
		return res, nil
	}
	term := like(q)

	news := &NewsStore{db: db}
	items, err := news.query(`SELECT `+newsColumns+newsFrom+`
		WHERE n.status = 'published' AND (n.title ILIKE $1 OR n.content ILIKE $1)
		ORDER BY n.published_date DESC NULLS LAST LIMIT $2`, term, limit)
	if err != nil {
		return res, fmt.Errorf("search news: %w", err)
	}
	res.News = items

	events := &EventStore{db: db}
	res.Events, err = events.query(`SELECT `+eventColumns+` FROM events
		WHERE status <> 'cancelled' AND (title ILIKE $1 OR description ILIKE $1)
		ORDER BY start_date DESC LIMIT $2`, term, limit)
	if err != nil {
		return res, fmt.Errorf("search events: %w", err)
	}

	pages := &PageStore{db: db}
	res.Pages, err = pages.query(`SELECT `+pageColumns+` FROM pages
		WHERE status = 'published' AND (title ILIKE $1 OR content ILIKE $1)
		ORDER BY title ASC LIMIT $2`, term, limit)
	if err != nil {
		return res, fmt.Errorf("search pages: %w", err)
	}
	return res, nil
}
