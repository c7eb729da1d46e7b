package store

import (
	"database/sql"
	"fmt"

	"marianconnect/internal/models"
)

// DirectoryStore reads the flat directory tables behind the public
// achievements, facilities, organizations, programs and administration
// pages.
type DirectoryStore struct {
	db *sql.DB
}

// NewDirectoryStore creates a new DirectoryStore with the given database connection.
func NewDirectoryStore(db *sql.DB) *DirectoryStore {
	return &DirectoryStore{db: db}
}

// directoryQuery describes how one directory table is listed.
type directoryQuery struct {
	table    string
	columns  string
	category string // column holding the category value
	allowed  []string
	active   bool // restrict to status = 'active'
	order    string
}

// listDirectory runs a filtered, paginated listing of q and returns the
// page of rows together with the total number of matching rows.
func listDirectory[T any](db *sql.DB, q directoryQuery, category string, limit, offset int, scan func(rowScanner) (T, error)) ([]T, int, error) {
	w := &filter{}
	if q.active {
		w.add("status = 'active'")
	}
	if models.ValidChoice(q.allowed, category) {
		w.add(q.category+" = ?", category)
	}

	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM `+q.table+w.where(), w.args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", q.table, err)
	}

	rows, err := db.Query(`SELECT `+q.columns+` FROM `+q.table+w.where()+` ORDER BY `+q.order+w.page(limit, offset), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", q.table, err)
	}
	defer rows.Close()

	var items []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan %s: %w", q.table, err)
		}
		items = append(items, item)
	}
	return items, total, rows.Err()
}

var achievementsQuery = directoryQuery{
	table:    "achievements",
	columns:  "id, title, description, category, recipient, achievement_date, image_path, is_featured, created_at",
	category: "category",
	allowed:  models.AchievementCategories,
	order:    "is_featured DESC, achievement_date DESC NULLS LAST, created_at DESC",
}

// Achievements returns one page of achievements, featured first.
func (s *DirectoryStore) Achievements(category string, limit, offset int) ([]models.Achievement, int, error) {
	return listDirectory(s.db, achievementsQuery, category, limit, offset, func(r rowScanner) (models.Achievement, error) {
		var a models.Achievement
		err := r.Scan(&a.ID, &a.Title, &a.Description, &a.Category, &a.Recipient,
			&a.AchievementDate, &a.ImagePath, &a.IsFeatured, &a.CreatedAt)
		return a, err
	})
}

var facilitiesQuery = directoryQuery{
	table:    "facilities",
	columns:  "id, name, description, category, image_path, display_order, created_at",
	category: "category",
	allowed:  models.FacilityCategories,
	order:    "display_order ASC, name ASC",
}

// Facilities returns one page of campus facilities.
func (s *DirectoryStore) Facilities(category string, limit, offset int) ([]models.Facility, int, error) {
	return listDirectory(s.db, facilitiesQuery, category, limit, offset, func(r rowScanner) (models.Facility, error) {
		var f models.Facility
		err := r.Scan(&f.ID, &f.Name, &f.Description, &f.Category, &f.ImagePath, &f.DisplayOrder, &f.CreatedAt)
		return f, err
	})
}

var organizationsQuery = directoryQuery{
	table:    "student_organizations",
	columns:  "id, name, description, category, adviser, logo_path, status, display_order, created_at",
	category: "category",
	allowed:  models.OrganizationCategories,
	active:   true,
	order:    "display_order ASC, name ASC",
}

// Organizations returns one page of active student organizations.
func (s *DirectoryStore) Organizations(category string, limit, offset int) ([]models.Organization, int, error) {
	return listDirectory(s.db, organizationsQuery, category, limit, offset, func(r rowScanner) (models.Organization, error) {
		var o models.Organization
		err := r.Scan(&o.ID, &o.Name, &o.Description, &o.Category, &o.Adviser, &o.LogoPath,
			&o.Status, &o.DisplayOrder, &o.CreatedAt)
		return o, err
	})
}

var programsQuery = directoryQuery{
	table:    "academic_programs",
	columns:  "id, name, description, level, duration, image_path, status, display_order, created_at",
	category: "level",
	allowed:  models.ProgramLevels,
	active:   true,
	order:    "display_order ASC, name ASC",
}

// Programs returns one page of active academic programs, filtered by level.
func (s *DirectoryStore) Programs(level string, limit, offset int) ([]models.Program, int, error) {
	return listDirectory(s.db, programsQuery, level, limit, offset, func(r rowScanner) (models.Program, error) {
		var p models.Program
		err := r.Scan(&p.ID, &p.Name, &p.Description, &p.Level, &p.Duration, &p.ImagePath,
			&p.Status, &p.DisplayOrder, &p.CreatedAt)
		return p, err
	})
}

var administrationQuery = directoryQuery{
	table:    "administration",
	columns:  "id, name, position, department, bio, email, photo_path, status, display_order, created_at",
	category: "department",
	allowed:  models.Departments,
	active:   true,
	order:    "display_order ASC, name ASC",
}

// Administration returns one page of active administrators, filtered by department.
func (s *DirectoryStore) Administration(department string, limit, offset int) ([]models.Administrator, int, error) {
	return listDirectory(s.db, administrationQuery, department, limit, offset, func(r rowScanner) (models.Administrator, error) {
		var a models.Administrator
		err := r.Scan(&a.ID, &a.Name, &a.Position, &a.Department, &a.Bio, &a.Email, &a.PhotoPath,
			&a.Status, &a.DisplayOrder, &a.CreatedAt)
		return a, err
	})
}
