package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"marianconnect/internal/models"
)

// ContactStore handles contact-form messages.
type ContactStore struct {
	db *sql.DB
}

// NewContactStore creates a new ContactStore with the given database connection.
func NewContactStore(db *sql.DB) *ContactStore {
	return &ContactStore{db: db}
}

const contactColumns = `id, name, email, phone, subject, message, is_read, created_at`

func scanContact(s rowScanner) (*models.ContactMessage, error) {
	var m models.ContactMessage
	if err := s.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Subject, &m.Message, &m.IsRead, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func contactFilter(unreadOnly bool) *filter {
	w := &filter{}
	if unreadOnly {
		w.add("is_read = FALSE")
	}
	return w
}

// Create stores a submitted message.
func (s *ContactStore) Create(m *models.ContactMessage) (*models.ContactMessage, error) {
	err := s.db.QueryRow(`
		INSERT INTO contact_messages (name, email, phone, subject, message)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_read, created_at
	`, m.Name, m.Email, m.Phone, m.Subject, m.Message).Scan(&m.ID, &m.IsRead, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create contact message: %w", err)
	}
	return m, nil
}

// List returns one page of messages, newest first.
func (s *ContactStore) List(unreadOnly bool, limit, offset int) ([]models.ContactMessage, error) {
	w := contactFilter(unreadOnly)
	rows, err := s.db.Query(`SELECT `+contactColumns+` FROM contact_messages`+w.where()+
		` ORDER BY created_at DESC`+w.page(limit, offset), w.args...)
	if err != nil {
		return nil, fmt.Errorf("list contact messages: %w", err)
	}
	defer rows.Close()

	var items []models.ContactMessage
	for rows.Next() {
		m, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		items = append(items, *m)
	}
	return items, rows.Err()
}

// Count returns the number of messages, optionally only unread ones.
func (s *ContactStore) Count(unreadOnly bool) (int, error) {
	w := contactFilter(unreadOnly)
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM contact_messages`+w.where(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count contact messages: %w", err)
	}
	return n, nil
}

// FindByID retrieves a message. Returns nil if not found.
func (s *ContactStore) FindByID(id uuid.UUID) (*models.ContactMessage, error) {
	m, err := scanContact(s.db.QueryRow(`SELECT `+contactColumns+` FROM contact_messages WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find contact message: %w", err)
	}
	return m, nil
}

// MarkRead flags a message as read.
func (s *ContactStore) MarkRead(id uuid.UUID) error {
	if _, err := s.db.Exec(`UPDATE contact_messages SET is_read = TRUE WHERE id = $1`, id); err != nil {
		return fmt.Errorf("mark contact message read: %w", err)
	}
	return nil
}

// Delete removes a message.
func (s *ContactStore) Delete(id uuid.UUID) error {
	if _, err := s.db.Exec(`DELETE FROM contact_messages WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete contact message: %w", err)
	}
	return nil
}
