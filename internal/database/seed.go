package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data. It creates a
// default admin user and a handful of directory rows when the respective
// tables are empty. The admin will be prompted to set up 2FA on first login.
func Seed(db *sql.DB) error {
	if err := seedAdmin(db); err != nil {
		return err
	}
	if err := seedPages(db); err != nil {
		return err
	}
	return seedDirectory(db)
}

func seedAdmin(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return fmt.Errorf("seed check users: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping admin")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO users (email, password_hash, display_name, role, totp_enabled)
		VALUES ($1, $2, $3, $4, $5)
	`, "admin@marianconnect.local", string(hash), "Admin", "admin", false)
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@marianconnect.local",
		"password", "admin",
	)
	return nil
}

func seedPages(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM pages").Scan(&count); err != nil {
		return fmt.Errorf("seed check pages: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err := db.Exec(`
		INSERT INTO pages (title, slug, content, body_format, meta_description, status)
		VALUES ($1, $2, $3, 'markdown', $4, 'published')
	`, "About Us", "about",
		"## Our Mission\n\nForming competent, compassionate and committed learners in the Marian tradition.\n\n## History\n\nFounded by the Religious of the Virgin Mary, the school has served the community for decades.",
		"About the school, its mission and history.")
	if err != nil {
		return fmt.Errorf("seed insert page: %w", err)
	}
	return nil
}

// directorySeeds holds one INSERT per directory table. Each runs only when
// its table is empty.
var directorySeeds = []struct {
	table string
	query string
}{
	{"achievements", `INSERT INTO achievements (title, description, category, recipient, achievement_date, is_featured) VALUES
		('Regional Science Fair Champion', 'First place in the regional science and technology fair.', 'academic', 'Grade 10 Robotics Team', CURRENT_DATE - 30, TRUE),
		('Division Meet Basketball Gold', 'The varsity team won the division athletic meet.', 'sports', 'Varsity Basketball', CURRENT_DATE - 60, FALSE)`},
	{"facilities", `INSERT INTO facilities (name, description, category, display_order) VALUES
		('Science Laboratory', 'Fully equipped chemistry, physics and biology laboratory.', 'academic', 1),
		('Covered Court', 'Multi-purpose covered court for sports and assemblies.', 'sports', 2),
		('Library', 'Learning resource center with print and digital collections.', 'academic', 3)`},
	{"student_organizations", `INSERT INTO student_organizations (name, description, category, adviser, display_order) VALUES
		('Supreme Student Government', 'The highest governing student body.', 'government', 'Ms. Reyes', 1),
		('Campus Ministry', 'Faith formation and outreach activities.', 'religious', 'Sr. Teresa', 2)`},
	{"academic_programs", `INSERT INTO academic_programs (name, description, level, duration, display_order) VALUES
		('Junior High School', 'Grades 7 to 10 following the K-12 curriculum.', 'junior_high', '4 years', 1),
		('STEM Strand', 'Science, Technology, Engineering and Mathematics.', 'senior_high', '2 years', 2)`},
	{"administration", `INSERT INTO administration (name, position, department, bio, display_order) VALUES
		('Sr. Maria Santos, RVM', 'School Directress', 'administration', 'Leads the school community.', 1),
		('Mr. Jose Cruz', 'Principal', 'academic', 'Oversees academic programs.', 2)`},
}

func seedDirectory(db *sql.DB) error {
	for _, s := range directorySeeds {
		var count int
		if err := db.QueryRow("SELECT COUNT(*) FROM " + s.table).Scan(&count); err != nil {
			return fmt.Errorf("seed check %s: %w", s.table, err)
		}
		if count > 0 {
			continue
		}
		if _, err := db.Exec(s.query); err != nil {
			return fmt.Errorf("seed insert %s: %w", s.table, err)
		}
		slog.Info("seeded directory table", "table", s.table)
	}
	return nil
}
