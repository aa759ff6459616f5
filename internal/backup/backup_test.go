package backup

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sydlexius/discogs/internal/database"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenAndMigrate(context.Background(), filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	_, err = db.ExecContext(context.Background(), "INSERT INTO store_meta (key, value) VALUES ('probe', 'hello')")
	if err != nil {
		t.Fatalf("inserting row: %v", err)
	}
	return db
}

// newTestService returns a service whose clock advances one second per call.
func newTestService(t *testing.T, dir string) *Service {
	t.Helper()
	svc := NewService(setupTestDB(t), dir, slog.New(slog.NewTextHandler(io.Discard, nil)))
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return svc
}

func TestBackup(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	svc := newTestService(t, dir)

	info, err := svc.Backup(context.Background())
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if info.Filename != "discogs-20260301-120001.db" {
		t.Errorf("Filename = %q", info.Filename)
	}
	if info.Size == 0 {
		t.Error("expected non-zero file size")
	}

	snap, err := sql.Open("sqlite", info.Path)
	if err != nil {
		t.Fatalf("opening backup: %v", err)
	}
	defer snap.Close()

	var value string
	if err := snap.QueryRowContext(context.Background(), "SELECT value FROM store_meta WHERE key = 'probe'").Scan(&value); err != nil {
		t.Fatalf("querying backup: %v", err)
	}
	if value != "hello" {
		t.Errorf("expected 'hello', got %q", value)
	}
}

func TestBackup_RefusesToOverwrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	svc := newTestService(t, dir)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	if _, err := svc.Backup(context.Background()); err != nil {
		t.Fatalf("first Backup: %v", err)
	}
	if _, err := svc.Backup(context.Background()); err == nil {
		t.Fatal("expected error when snapshot exists")
	}
}

func TestList(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	svc := newTestService(t, dir)

	for i := 0; i < 3; i++ {
		if _, err := svc.Backup(context.Background()); err != nil {
			t.Fatalf("Backup %d: %v", i, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	backups, err := svc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(backups) != 3 {
		t.Fatalf("expected 3 backups, got %d", len(backups))
	}
	if backups[0].Filename != "discogs-20260301-120003.db" {
		t.Errorf("newest = %q", backups[0].Filename)
	}
	if !backups[0].CreatedAt.After(backups[1].CreatedAt) {
		t.Error("expected backups sorted by date descending")
	}
}

func TestList_MissingDir(t *testing.T) {
	svc := newTestService(t, filepath.Join(t.TempDir(), "nonexistent"))

	backups, err := svc.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(backups) != 0 {
		t.Errorf("expected 0 backups, got %d", len(backups))
	}
}

func TestPrune_KeepCount(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	svc := newTestService(t, dir)

	for i := 0; i < 4; i++ {
		if _, err := svc.Backup(context.Background()); err != nil {
			t.Fatalf("Backup %d: %v", i, err)
		}
	}

	removed, err := svc.Prune(2, 0)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if len(removed) != 2 {
		t.Errorf("removed = %v", removed)
	}

	backups, err := svc.List()
	if err != nil {
		t.Fatalf("List after prune: %v", err)
	}
	if len(backups) != 2 {
		t.Fatalf("expected 2 backups after prune, got %d", len(backups))
	}
	if backups[1].Filename != "discogs-20260301-120003.db" {
		t.Errorf("oldest survivor = %q", backups[1].Filename)
	}
}

func TestPrune_MaxAge(t *testing.T) {
	dir := t.TempDir()
	svc := newTestService(t, dir)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	recent := "discogs-" + now.Add(-time.Hour).Format(stampLayout) + ".db"
	old := "discogs-" + now.AddDate(0, 0, -60).Format(stampLayout) + ".db"
	for _, name := range []string{recent, old} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("snapshot"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := svc.Prune(100, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("Prune: %v", err)
	}
	if len(removed) != 1 || removed[0] != old {
		t.Errorf("removed = %v, want [%s]", removed, old)
	}
}

func TestPrune_RejectsNegativeKeep(t *testing.T) {
	svc := newTestService(t, t.TempDir())
	if _, err := svc.Prune(-1, 0); err == nil {
		t.Fatal("expected error")
	}
}

func TestDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backups")
	svc := newTestService(t, dir)

	info, err := svc.Backup(context.Background())
	if err != nil {
		t.Fatalf("Backup: %v", err)
	}
	if err := svc.Delete(info.Filename); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(info.Path); !os.IsNotExist(err) {
		t.Errorf("snapshot still present: %v", err)
	}

	if err := svc.Delete("../evil.db"); err == nil {
		t.Error("expected error for invalid filename")
	}
	if err := svc.Delete("discogs-20260101-000000.db"); err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestValidFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid", "discogs-20260220-143022.db", true},
		{"path traversal", "../discogs-20260220-143022.db", false},
		{"backslash", "..\\discogs-20260220-143022.db", false},
		{"wrong prefix", "backup-20260220-143022.db", false},
		{"wrong extension", "discogs-20260220-143022.sql", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValidFilename(tt.input); got != tt.want {
				t.Errorf("ValidFilename(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
