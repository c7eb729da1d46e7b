// Package database handles PostgreSQL connection management and migration
// execution using goose. It provides a Connect function that returns a
// ready-to-use *sql.DB pool and a Migrate function for schema management.
package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Pool settings.
const (
	MaxOpenConns    = 25
	MaxIdleConns    = 5
	ConnMaxLifetime = 30 * time.Minute
)

// Connect retries the first ping this many times, waiting a little longer
// after each failure, so the server can start alongside its database
// container.
const (
	pingAttempts = 5
	pingTimeout  = 3 * time.Second
)

// retryDelay is the wait after the first failed ping; tests shorten it.
var retryDelay = time.Second

// Connect opens a PostgreSQL connection pool using the provided DSN and
// returns once the server answers a ping.
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}

	db.SetMaxOpenConns(MaxOpenConns)
	db.SetMaxIdleConns(MaxIdleConns)
	db.SetConnMaxLifetime(ConnMaxLifetime)

	var pingErr error
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		pingErr = db.PingContext(ctx)
		cancel()
		if pingErr == nil {
			slog.Info("database connected", "attempts", attempt)
			return db, nil
		}
		if attempt < pingAttempts {
			slog.Warn("database not ready", "attempt", attempt, "error", pingErr)
			time.Sleep(retryDelay * time.Duration(attempt))
		}
	}

	db.Close()
	return nil, fmt.Errorf("database ping: %w", pingErr)
}

// Migrate applies pending goose migrations from the embedded SQL files and
// logs the resulting schema version.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("goose version: %w", err)
	}
	slog.Info("database migrations applied", "version", version)
	return nil
}
