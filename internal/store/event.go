package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"marianconnect/internal/models"
)

// EventStore handles all event-related database operations.
type EventStore struct {
	db *sql.DB
}

// NewEventStore creates a new EventStore with the given database connection.
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

// Event listing tabs.
const (
	WhenUpcoming = "upcoming"
	WhenPast     = "past"
)

// EventFilter narrows an event listing. When selects the public
// upcoming/past tab; any other value lists every event.
type EventFilter struct {
	Category string
	Status   string
	Search   string
	When     string
}

func (f EventFilter) build() *filter {
	w := &filter{}
	if models.ValidChoice(models.EventCategories, f.Category) {
		w.add("category = ?", f.Category)
	}
	if models.ValidChoice(models.EventStatuses, f.Status) {
		w.add("status = ?", f.Status)
	}
	if f.Search != "" {
		term := like(f.Search)
		w.add("(title ILIKE ? OR description ILIKE ?)", term, term)
	}
	switch f.When {
	case WhenUpcoming:
		w.add("COALESCE(end_date, start_date) >= CURRENT_DATE AND status <> 'cancelled'")
	case WhenPast:
		w.add("COALESCE(end_date, start_date) < CURRENT_DATE")
	}
	return w
}

func (f EventFilter) order() string {
	if f.When == WhenUpcoming {
		return " ORDER BY start_date ASC, start_time ASC NULLS LAST"
	}
	return " ORDER BY start_date DESC"
}

const eventColumns = `id, title, slug, description, category, location, start_date, end_date,
	start_time, end_time, image_path, status, is_featured, created_by, created_at, updated_at`

func scanEvent(s rowScanner) (*models.Event, error) {
	var e models.Event
	err := s.Scan(
		&e.ID, &e.Title, &e.Slug, &e.Description, &e.Category, &e.Location, &e.StartDate, &e.EndDate,
		&e.StartTime, &e.EndTime, &e.ImagePath, &e.Status, &e.IsFeatured, &e.CreatedBy,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *EventStore) query(q string, args ...any) ([]models.Event, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var items []models.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, *e)
	}
	return items, rows.Err()
}

// List returns one page of events matching f.
func (s *EventStore) List(f EventFilter, limit, offset int) ([]models.Event, error) {
	w := f.build()
	q := `SELECT ` + eventColumns + ` FROM events` + w.where() + f.order() + w.page(limit, offset)
	return s.query(q, w.args...)
}

// Count returns the number of events matching f.
func (s *EventStore) Count(f EventFilter) (int, error) {
	w := f.build()
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM events`+w.where(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// Options returns every event, newest first, for select inputs.
func (s *EventStore) Options() ([]models.Event, error) {
	return s.query(`SELECT ` + eventColumns + ` FROM events ORDER BY start_date DESC`)
}

// FindByID retrieves an event by its UUID. Returns nil if not found.
func (s *EventStore) FindByID(id uuid.UUID) (*models.Event, error) {
	e, err := scanEvent(s.db.QueryRow(`SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find event by id: %w", err)
	}
	return e, nil
}

// FindBySlug retrieves an event by slug. Returns nil if not found.
func (s *EventStore) FindBySlug(slug string) (*models.Event, error) {
	e, err := scanEvent(s.db.QueryRow(`SELECT `+eventColumns+` FROM events WHERE slug = $1`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find event by slug: %w", err)
	}
	return e, nil
}

// SlugExists reports whether another event already uses slug.
func (s *EventStore) SlugExists(slug string, exclude *uuid.UUID) (bool, error) {
	return slugExists(s.db, "events", slug, exclude)
}

// Create inserts an event. Returns ErrSlugTaken on a slug collision.
func (s *EventStore) Create(e *models.Event) (*models.Event, error) {
	taken, err := s.SlugExists(e.Slug, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrSlugTaken
	}

	err = s.db.QueryRow(`
		INSERT INTO events (title, slug, description, category, location, start_date, end_date,
			start_time, end_time, image_path, status, is_featured, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`, e.Title, e.Slug, e.Description, e.Category, e.Location, e.StartDate, e.EndDate,
		e.StartTime, e.EndTime, e.ImagePath, e.Status, e.IsFeatured, e.CreatedBy,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if isUniqueViolation(err) {
		return nil, ErrSlugTaken
	}
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return e, nil
}

// Update saves an edited event. Returns ErrSlugTaken on a slug collision.
func (s *EventStore) Update(e *models.Event) error {
	taken, err := s.SlugExists(e.Slug, &e.ID)
	if err != nil {
		return err
	}
	if taken {
		return ErrSlugTaken
	}

	_, err = s.db.Exec(`
		UPDATE events SET title = $1, slug = $2, description = $3, category = $4, location = $5,
			start_date = $6, end_date = $7, start_time = $8, end_time = $9, image_path = $10,
			status = $11, is_featured = $12, updated_at = NOW()
		WHERE id = $13
	`, e.Title, e.Slug, e.Description, e.Category, e.Location, e.StartDate, e.EndDate,
		e.StartTime, e.EndTime, e.ImagePath, e.Status, e.IsFeatured, e.ID)
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return nil
}

// Delete removes an event and returns the deleted row. Gallery images that
// referenced it are detached by the foreign key. Returns nil if not found.
func (s *EventStore) Delete(id uuid.UUID) (*models.Event, error) {
	e, err := scanEvent(s.db.QueryRow(`DELETE FROM events WHERE id = $1 RETURNING `+eventColumns, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete event: %w", err)
	}
	return e, nil
}

// RefreshStatuses moves events whose last day has passed to completed and
// events running today to ongoing. Cancelled events are left alone.
// Returns the number of rows changed.
func (s *EventStore) RefreshStatuses() (int64, error) {
	res, err := s.db.Exec(`
		UPDATE events SET status = CASE
				WHEN COALESCE(end_date, start_date) < CURRENT_DATE THEN 'completed'
				ELSE 'ongoing'
			END,
			updated_at = NOW()
		WHERE status IN ('upcoming', 'ongoing')
		  AND (COALESCE(end_date, start_date) < CURRENT_DATE
		       OR (start_date <= CURRENT_DATE AND status = 'upcoming'))
	`)
	if err != nil {
		return 0, fmt.Errorf("refresh event statuses: %w", err)
	}
	return res.RowsAffected()
}
