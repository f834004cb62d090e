package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const defaultTimeout = 5 * time.Second

// Open connects to the SQLite database at dsn and verifies the connection.
// The pool is capped at a single connection so writes serialize inside the
// driver instead of failing with SQLITE_BUSY under concurrency.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// Migrate creates the schema when it does not exist yet. AUTOINCREMENT keeps
// row ids monotonic so deleted ids are never reused.
func Migrate(db *sql.DB) error {
	const stmt = `
	CREATE TABLE IF NOT EXISTS users (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		name          TEXT NOT NULL,
		role          TEXT NOT NULL DEFAULT 'user',
		created_at    INTEGER NOT NULL,
		updated_at    INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS products (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price       REAL NOT NULL,
		image_url   TEXT NOT NULL DEFAULT '',
		user_id     INTEGER NOT NULL REFERENCES users(id),
		created_at  INTEGER NOT NULL,
		updated_at  INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS orders (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id     INTEGER NOT NULL REFERENCES users(id),
		product_id  INTEGER NOT NULL REFERENCES products(id),
		quantity    INTEGER NOT NULL,
		total_price REAL NOT NULL,
		status      TEXT NOT NULL DEFAULT 'pending',
		created_at  INTEGER NOT NULL,
		updated_at  INTEGER NOT NULL
	);
	`
	_, err := db.Exec(stmt)
	return err
}

// isUniqueViolation reports whether err is a SQLite unique-constraint error.
func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	return errors.As(err, &serr) && serr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

// now returns the current time truncated to whole seconds, matching the
// unix-epoch column representation.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
