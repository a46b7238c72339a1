// Package sqlite implements the persistence repositories on top of a SQLite
// database accessed through the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps the shared database handle used by the repositories.
type DB struct {
	db *sql.DB
}

// Open connects to the SQLite database identified by dsn and enables foreign
// key enforcement, which the cascade delete of course records relies on.
func Open(dsn string) (*DB, error) {
	handle, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", dsn, err)
	}
	// SQLite serializes writes anyway, and a single pooled connection keeps
	// the per-connection pragma (and in-memory databases) consistent.
	handle.SetMaxOpenConns(1)
	if _, err := handle.Exec("PRAGMA foreign_keys = ON"); err != nil {
		_ = handle.Close()
		return nil, fmt.Errorf("sqlite: enable foreign keys: %w", err)
	}
	return &DB{db: handle}, nil
}

// Close releases the underlying database handle.
func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Ping verifies the connection.
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

const schema = `
CREATE TABLE IF NOT EXISTS courses (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	type           TEXT NOT NULL DEFAULT 'course',
	color          TEXT NOT NULL DEFAULT '#4A90E2',
	min_percentage REAL,
	min_classes    INTEGER,
	semester_total INTEGER,
	created_at     TEXT NOT NULL,
	updated_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS schedule_slots (
	course_id  TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	day        TEXT NOT NULL,
	start_time TEXT NOT NULL,
	end_time   TEXT NOT NULL,
	PRIMARY KEY (course_id, position)
);

CREATE TABLE IF NOT EXISTS attendance_records (
	id         TEXT PRIMARY KEY,
	course_id  TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
	date       TEXT NOT NULL,
	status     TEXT NOT NULL CHECK (status IN ('present', 'absent')),
	notes      TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	UNIQUE (course_id, date)
);

CREATE INDEX IF NOT EXISTS idx_attendance_course_date
	ON attendance_records (course_id, date DESC);
`

// Migrate applies the schema. Statements are idempotent, so repeated startup
// runs are safe.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	return nil
}

// withTransaction executes fn inside a transaction, rolling back when fn
// returns an error.
func (d *DB) withTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("sqlite: transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit transaction: %w", err)
	}
	return nil
}
