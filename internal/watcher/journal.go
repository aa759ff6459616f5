package watcher

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/sydlexius/discogs"
)

// Journal remembers which files were already uploaded so a file dropped
// twice is not sent twice.
type Journal interface {
	Uploaded(ctx context.Context, kind discogs.UploadKind, checksum string) (bool, error)
	Record(ctx context.Context, r Result) error
}

// SQLJournal stores upload results in the upload_journal table.
type SQLJournal struct {
	db *sql.DB
}

// NewSQLJournal creates a journal over a migrated database.
func NewSQLJournal(db *sql.DB) *SQLJournal {
	return &SQLJournal{db: db}
}

// Uploaded reports whether a successful upload with this checksum exists.
func (j *SQLJournal) Uploaded(ctx context.Context, kind discogs.UploadKind, checksum string) (bool, error) {
	var count int
	err := j.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM upload_journal WHERE kind = ? AND checksum = ? AND error = ''",
		string(kind), checksum,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking upload journal: %w", err)
	}
	return count > 0, nil
}

// Record appends r to the journal. Skipped results are not recorded.
func (j *SQLJournal) Record(ctx context.Context, r Result) error {
	if r.Skipped {
		return nil
	}
	errText := ""
	if r.Err != nil {
		errText = r.Err.Error()
	}
	_, err := j.db.ExecContext(ctx,
		"INSERT INTO upload_journal (id, kind, filename, checksum, upload_id, error) VALUES (?, ?, ?, ?, ?, ?)",
		uuid.New().String(), string(r.Kind), r.Filename, r.Checksum, r.UploadID, errText,
	)
	if err != nil {
		return fmt.Errorf("recording upload of %s: %w", r.Filename, err)
	}
	return nil
}

// fileChecksum returns the hex SHA-256 of the file at path.
func fileChecksum(path string) (string, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is inside the watched drop folder
	if err != nil {
		return "", err
	}
	defer f.Close() //nolint:errcheck

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
