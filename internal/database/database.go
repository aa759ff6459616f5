// Package database opens the local SQLite store that holds sealed
// credentials and the upload journal, and migrates its schema.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// storeMode is applied to the database file, which holds sealed tokens.
const storeMode fs.FileMode = 0o600

func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "synchronous(NORMAL)")
	return path + "?" + q.Encode()
}

// Open opens the store at path. Its directory is created owner-only and the
// file itself is restricted to the owner.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	// SQLite allows one writer; a single connection keeps pragmas and
	// transactions on the same handle.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening store %s: %w", path, err)
	}
	if err := restrict(path); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func restrict(path string) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking store file: %w", err)
	}
	if info.Mode().Perm()&^storeMode == 0 {
		return nil
	}
	if err := os.Chmod(path, storeMode); err != nil {
		return fmt.Errorf("restricting store file: %w", err)
	}
	return nil
}

// OpenAndMigrate opens path and applies pending migrations.
func OpenAndMigrate(ctx context.Context, path string) (*sql.DB, error) {
	db, err := Open(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
