package sqlite

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// Open opens (or creates) the sqlite database file. A single connection is used
// so writers never contend for the file lock.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	ctx2, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx2); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// EnsureSchema creates the predictions table when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const q = `
CREATE TABLE IF NOT EXISTS predictions (
  "id"         TEXT NOT NULL PRIMARY KEY,
  "result"     TEXT NOT NULL,
  "suggestion" TEXT NOT NULL,
  "created_at" TEXT NOT NULL
);`
	_, err := db.ExecContext(ctx, q)
	return err
}
