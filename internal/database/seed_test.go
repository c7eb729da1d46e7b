package database

import (
	"testing"
)

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed creates data only when tables are empty, so calling it twice
	// must not fail or duplicate rows.
	if err := Seed(db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	var before int
	db.QueryRow("SELECT COUNT(*) FROM facilities").Scan(&before)

	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}
	var after int
	db.QueryRow("SELECT COUNT(*) FROM facilities").Scan(&after)
	if before != after {
		t.Errorf("facilities count changed on reseed: %d -> %d", before, after)
	}

	var userCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM users").Scan(&userCount); err != nil {
		t.Fatalf("count users: %v", err)
	}
	if userCount < 1 {
		t.Errorf("expected at least 1 user, got %d", userCount)
	}

	var pageCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM pages").Scan(&pageCount); err != nil {
		t.Fatalf("count pages: %v", err)
	}
	if pageCount < 1 {
		t.Errorf("expected at least 1 page, got %d", pageCount)
	}
}
