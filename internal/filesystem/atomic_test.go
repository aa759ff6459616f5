package filesystem

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// leftovers lists directory entries other than the named ones.
func leftovers(t *testing.T, dir string, keep ...string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var out []string
	for _, e := range entries {
		found := false
		for _, k := range keep {
			if e.Name() == k {
				found = true
			}
		}
		if !found {
			out = append(out, e.Name())
		}
	}
	return out
}

func TestWriteStreamAtomic(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "inventory-export.csv")
	data := []byte("listing_id,release_id,price\n1,249504,10.00\n")

	n, err := WriteStreamAtomic(target, bytes.NewReader(data), 0o600)
	if err != nil {
		t.Fatalf("WriteStreamAtomic: %v", err)
	}
	if n != int64(len(data)) {
		t.Errorf("bytes = %d, want %d", n, len(data))
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("content = %q, want %q", got, data)
	}
	info, err := os.Stat(target)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
	if extra := leftovers(t, dir, "inventory-export.csv"); len(extra) != 0 {
		t.Errorf("temp files remain: %v", extra)
	}
}

func TestWriteStreamAtomic_Replaces(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "inventory-export.csv")
	if err := os.WriteFile(target, []byte("old export"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := WriteStreamAtomic(target, strings.NewReader("new export"), 0o644); err != nil {
		t.Fatalf("WriteStreamAtomic: %v", err)
	}
	got, _ := os.ReadFile(target)
	if string(got) != "new export" {
		t.Errorf("content = %q", got)
	}
}

type brokenBody struct{ sent bool }

func (r *brokenBody) Read(p []byte) (int, error) {
	if !r.sent {
		r.sent = true
		return copy(p, "listing_id,rel"), nil
	}
	return 0, errors.New("connection reset by peer")
}

func TestWriteStreamAtomic_InterruptedDownload(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "inventory-export.csv")
	if err := os.WriteFile(target, []byte("previous export"), 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := WriteStreamAtomic(target, &brokenBody{}, 0o644)
	if err == nil {
		t.Fatal("expected error from interrupted body")
	}
	if n != int64(len("listing_id,rel")) {
		t.Errorf("bytes = %d", n)
	}

	got, _ := os.ReadFile(target)
	if string(got) != "previous export" {
		t.Errorf("content = %q, want previous export kept", got)
	}
	if extra := leftovers(t, dir, "inventory-export.csv"); len(extra) != 0 {
		t.Errorf("temp files remain: %v", extra)
	}
}

func TestWriteFileAtomic_CreatesParentDir(t *testing.T) {
	target := filepath.Join(t.TempDir(), "images", "249504", "front.jpg")

	if err := WriteFileAtomic(target, []byte("\xff\xd8\xff"), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic: %v", err)
	}
	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "\xff\xd8\xff" {
		t.Errorf("content = %q", got)
	}
}

func TestMove(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "add.csv")
	if err := os.WriteFile(src, []byte("release_id,price\n1,9.99\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "done", "add", "add.csv")
	moved, err := Move(src, dst)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if moved != dst {
		t.Errorf("moved to %q, want %q", moved, dst)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source should be gone")
	}
	got, _ := os.ReadFile(dst)
	if string(got) != "release_id,price\n1,9.99\n" {
		t.Errorf("content = %q", got)
	}
}

func TestMove_KeepsExistingDestination(t *testing.T) {
	dir := t.TempDir()
	doneDir := filepath.Join(dir, "done")
	if err := os.MkdirAll(doneDir, 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(doneDir, "add.csv"), []byte("monday"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(doneDir, "add (1).csv"), []byte("tuesday"), 0o644); err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(dir, "add.csv")
	if err := os.WriteFile(src, []byte("wednesday"), 0o644); err != nil {
		t.Fatal(err)
	}

	moved, err := Move(src, filepath.Join(doneDir, "add.csv"))
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if want := filepath.Join(doneDir, "add (2).csv"); moved != want {
		t.Errorf("moved to %q, want %q", moved, want)
	}
	first, _ := os.ReadFile(filepath.Join(doneDir, "add.csv"))
	if string(first) != "monday" {
		t.Errorf("existing file overwritten: %q", first)
	}
}

func TestMove_MissingSource(t *testing.T) {
	dir := t.TempDir()
	if _, err := Move(filepath.Join(dir, "nope.csv"), filepath.Join(dir, "out", "nope.csv")); err == nil {
		t.Error("expected error for missing source")
	}
}

func TestUniquePath(t *testing.T) {
	dir := t.TempDir()
	free := filepath.Join(dir, "delete.csv")
	got, err := UniquePath(free)
	if err != nil || got != free {
		t.Errorf("UniquePath(free) = %q, %v", got, err)
	}

	noExt := filepath.Join(dir, "README")
	if err := os.WriteFile(noExt, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	got, err = UniquePath(noExt)
	if err != nil || got != noExt+" (1)" {
		t.Errorf("UniquePath(taken) = %q, %v", got, err)
	}
}
