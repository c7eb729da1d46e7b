package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// slugExists reports whether table already has a row with the slug, other
// than the row identified by exclude. table is always a package constant.
func slugExists(db *sql.DB, table, slug string, exclude *uuid.UUID) (bool, error) {
	var exists bool
	var err error
	if exclude != nil {
		err = db.QueryRow(`SELECT EXISTS(SELECT 1 FROM `+table+` WHERE slug = $1 AND id <> $2)`, slug, *exclude).Scan(&exists)
	} else {
		err = db.QueryRow(`SELECT EXISTS(SELECT 1 FROM `+table+` WHERE slug = $1)`, slug).Scan(&exists)
	}
	if err != nil {
		return false, fmt.Errorf("check %s slug: %w", table, err)
	}
	return exists, nil
}
