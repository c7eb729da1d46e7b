package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrSlugTaken is returned when a create or update would give a row a slug
// already used by another row of the same table.
var ErrSlugTaken = errors.New("slug already in use")

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
