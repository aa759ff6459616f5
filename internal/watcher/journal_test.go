package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sydlexius/discogs"
	"github.com/sydlexius/discogs/internal/database"
)

func TestSQLJournal(t *testing.T) {
	ctx := context.Background()
	db, err := database.OpenAndMigrate(ctx, filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	j := NewSQLJournal(db)

	ok, err := j.Uploaded(ctx, discogs.UploadAdd, "abc")
	if err != nil || ok {
		t.Fatalf("empty journal Uploaded = %v, %v", ok, err)
	}

	if err := j.Record(ctx, Result{Kind: discogs.UploadAdd, Filename: "bad.csv", Checksum: "abc", Err: errors.New("rejected")}); err != nil {
		t.Fatalf("Record failure: %v", err)
	}
	if ok, _ := j.Uploaded(ctx, discogs.UploadAdd, "abc"); ok {
		t.Error("failed upload counted as uploaded")
	}

	if err := j.Record(ctx, Result{Kind: discogs.UploadAdd, Filename: "good.csv", Checksum: "abc", UploadID: 9}); err != nil {
		t.Fatalf("Record success: %v", err)
	}
	if ok, _ := j.Uploaded(ctx, discogs.UploadAdd, "abc"); !ok {
		t.Error("expected checksum to be recorded")
	}
	if ok, _ := j.Uploaded(ctx, discogs.UploadChange, "abc"); ok {
		t.Error("checksum should be scoped to its kind")
	}

	if err := j.Record(ctx, Result{Kind: discogs.UploadDelete, Checksum: "zzz", Skipped: true}); err != nil {
		t.Fatal(err)
	}
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM upload_journal").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("rows = %d, want 2 (skips are not recorded)", count)
	}
}

func TestFileChecksum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.csv")
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	got, err := fileChecksum(path)
	if err != nil {
		t.Fatal(err)
	}
	const want = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("checksum = %s", got)
	}
}
