package store

import (
	"database/sql"
	"fmt"
)

// SiteCounts holds the totals shown on the admin dashboard.
type SiteCounts struct {
	News           int
	PublishedNews  int
	Events         int
	UpcomingEvents int
	Gallery        int
	Pages          int
	UnreadMessages int
}

// StatsStore computes dashboard aggregates.
type StatsStore struct {
	db *sql.DB
}

// NewStatsStore creates a new StatsStore with the given database connection.
func NewStatsStore(db *sql.DB) *StatsStore {
	return &StatsStore{db: db}
}

// Counts returns every dashboard total in a single round trip.
func (s *StatsStore) Counts() (SiteCounts, error) {
	var c SiteCounts
	err := s.db.QueryRow(`
		SELECT
			(SELECT COUNT(*) FROM news),
			(SELECT COUNT(*) FROM news WHERE status = 'published'),
			(SELECT COUNT(*) FROM events),
			(SELECT COUNT(*) FROM events WHERE COALESCE(end_date, start_date) >= CURRENT_DATE AND status <> 'cancelled'),
			(SELECT COUNT(*) FROM gallery),
			(SELECT COUNT(*) FROM pages),
			(SELECT COUNT(*) FROM contact_messages WHERE is_read = FALSE)
	`).Scan(&c.News, &c.PublishedNews, &c.Events, &c.UpcomingEvents, &c.Gallery, &c.Pages, &c.UnreadMessages)
	if err != nil {
		return c, fmt.Errorf("dashboard counts: %w", err)
	}
	return c, nil
}
