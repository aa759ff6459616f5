// Package maintenance reports on and tidies the local store database.
package maintenance

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/sydlexius/discogs/internal/database"
)

const lastOptimizeKey = "maintenance.last_optimize_at"

// ErrCorrupt is returned by Check when SQLite reports integrity problems.
var ErrCorrupt = errors.New("maintenance: integrity check failed")

// Status describes the store file and its contents.
type Status struct {
	DBFileSize     int64
	WALFileSize    int64
	PageCount      int64
	PageSize       int64
	SchemaVersion  int64
	Profiles       int
	JournalEntries int
	LastOptimizeAt string
}

// Service provides store maintenance operations.
type Service struct {
	db     *sql.DB
	dbPath string
	logger *slog.Logger
}

// NewService creates a maintenance service for the database at dbPath.
func NewService(db *sql.DB, dbPath string, logger *slog.Logger) *Service {
	return &Service{
		db:     db,
		dbPath: dbPath,
		logger: logger.With(slog.String("component", "maintenance")),
	}
}

// Status gathers file sizes, page statistics and row counts.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	st := &Status{}
	if fi, err := os.Stat(s.dbPath); err == nil {
		st.DBFileSize = fi.Size()
	}
	if fi, err := os.Stat(s.dbPath + "-wal"); err == nil {
		st.WALFileSize = fi.Size()
	}

	scalars := []struct {
		query string
		dst   any
	}{
		{"PRAGMA page_count", &st.PageCount},
		{"PRAGMA page_size", &st.PageSize},
		{"SELECT COUNT(*) FROM credentials", &st.Profiles},
		{"SELECT COUNT(*) FROM upload_journal", &st.JournalEntries},
	}
	for _, q := range scalars {
		if err := s.db.QueryRowContext(ctx, q.query).Scan(q.dst); err != nil {
			return nil, fmt.Errorf("%s: %w", q.query, err)
		}
	}

	v, err := database.Version(ctx, s.db)
	if err != nil {
		return nil, err
	}
	st.SchemaVersion = v

	err = s.db.QueryRowContext(ctx, "SELECT value FROM store_meta WHERE key = ?", lastOptimizeKey).Scan(&st.LastOptimizeAt)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("reading last optimize time: %w", err)
	}
	return st, nil
}

// Check runs PRAGMA integrity_check and returns [ErrCorrupt] with the
// reported problems when the result is not "ok".
func (s *Service) Check(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, "PRAGMA integrity_check")
	if err != nil {
		return fmt.Errorf("PRAGMA integrity_check: %w", err)
	}
	defer rows.Close() //nolint:errcheck

	var problems []string
	for rows.Next() {
		var line string
		if err := rows.Scan(&line); err != nil {
			return fmt.Errorf("scanning integrity_check: %w", err)
		}
		if line != "ok" {
			problems = append(problems, line)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("reading integrity_check: %w", err)
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrCorrupt, strings.Join(problems, "; "))
	}
	return nil
}

// Optimize runs PRAGMA optimize followed by a WAL checkpoint, then records
// the time in store_meta.
func (s *Service) Optimize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA optimize"); err != nil {
		return fmt.Errorf("PRAGMA optimize: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		return fmt.Errorf("WAL checkpoint: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO store_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		lastOptimizeKey, now)
	if err != nil {
		return fmt.Errorf("recording optimize time: %w", err)
	}
	s.logger.Info("optimize complete")
	return nil
}

// Vacuum rebuilds the database file.
func (s *Service) Vacuum(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("VACUUM: %w", err)
	}
	s.logger.Info("vacuum complete")
	return nil
}

// PruneJournal deletes upload journal entries created before cutoff and
// returns how many were removed.
func (s *Service) PruneJournal(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM upload_journal WHERE created_at < ?",
		cutoff.UTC().Format("2006-01-02T15:04:05Z"))
	if err != nil {
		return 0, fmt.Errorf("pruning upload journal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("pruning upload journal: %w", err)
	}
	s.logger.Info("upload journal pruned", slog.Int64("removed", n))
	return n, nil
}
