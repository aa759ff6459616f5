// Package backup snapshots the local store database and prunes old copies.
package backup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"
)

const stampLayout = "20060102-150405"

// filePattern matches snapshot filenames: discogs-YYYYMMDD-HHMMSS.db
var filePattern = regexp.MustCompile(`^discogs-\d{8}-\d{6}\.db$`)

// Info describes a snapshot file.
type Info struct {
	Filename  string
	Path      string
	Size      int64
	CreatedAt time.Time
}

// Service writes snapshots of db into dir.
type Service struct {
	db     *sql.DB
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a backup service.
func NewService(db *sql.DB, dir string, logger *slog.Logger) *Service {
	return &Service{
		db:     db,
		dir:    dir,
		logger: logger.With(slog.String("component", "backup")),
		now:    time.Now,
	}
}

// Dir returns the snapshot directory.
func (s *Service) Dir() string {
	return s.dir
}

// Backup writes a consistent copy of the database with VACUUM INTO. Two
// snapshots within the same second collide and the second one fails.
func (s *Service) Backup(ctx context.Context) (*Info, error) {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating backup directory: %w", err)
	}

	now := s.now().UTC()
	filename := "discogs-" + now.Format(stampLayout) + ".db"
	dest := filepath.Join(s.dir, filename)
	if _, err := os.Stat(dest); err == nil {
		return nil, fmt.Errorf("backup %s already exists", filename)
	}

	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
		return nil, fmt.Errorf("VACUUM INTO: %w", err)
	}
	fi, err := os.Stat(dest)
	if err != nil {
		return nil, fmt.Errorf("stat backup file: %w", err)
	}

	s.logger.Info("backup complete", slog.String("path", dest), slog.Int64("size", fi.Size()))
	return &Info{Filename: filename, Path: dest, Size: fi.Size(), CreatedAt: now}, nil
}

// List returns snapshots newest first. A missing directory is empty.
func (s *Service) List() ([]Info, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	var out []Info
	for _, e := range entries {
		if e.IsDir() || !filePattern.MatchString(e.Name()) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(e.Name(), "discogs-"), ".db")
		ts, err := time.Parse(stampLayout, stamp)
		if err != nil {
			ts = fi.ModTime()
		}
		out = append(out, Info{
			Filename:  e.Name(),
			Path:      filepath.Join(s.dir, e.Name()),
			Size:      fi.Size(),
			CreatedAt: ts,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Prune keeps the newest keep snapshots, and of those drops any older than
// maxAge when maxAge is positive. It returns the removed filenames.
func (s *Service) Prune(keep int, maxAge time.Duration) ([]string, error) {
	if keep < 0 {
		return nil, fmt.Errorf("invalid keep count %d", keep)
	}
	backups, err := s.List()
	if err != nil {
		return nil, err
	}

	cutoff := time.Time{}
	if maxAge > 0 {
		cutoff = s.now().UTC().Add(-maxAge)
	}

	var removed []string
	for i, b := range backups {
		if i < keep && (cutoff.IsZero() || !b.CreatedAt.Before(cutoff)) {
			continue
		}
		if err := os.Remove(b.Path); err != nil {
			s.logger.Warn("failed to remove backup", slog.String("filename", b.Filename), slog.Any("error", err))
			continue
		}
		s.logger.Info("pruned backup", slog.String("filename", b.Filename))
		removed = append(removed, b.Filename)
	}
	return removed, nil
}

// Delete removes a single snapshot by filename.
func (s *Service) Delete(filename string) error {
	if !ValidFilename(filename) {
		return fmt.Errorf("invalid backup filename %q", filename)
	}
	if err := os.Remove(filepath.Join(s.dir, filename)); err != nil { //nolint:gosec // G304: filename validated above
		return fmt.Errorf("removing backup: %w", err)
	}
	s.logger.Info("backup deleted", slog.String("filename", filename))
	return nil
}

// ValidFilename reports whether filename names a snapshot and contains no
// path separators.
func ValidFilename(filename string) bool {
	if strings.ContainsAny(filename, `/\`) || strings.Contains(filename, "..") {
		return false
	}
	return filePattern.MatchString(filename)
}
