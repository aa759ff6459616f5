package watcher

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sydlexius/discogs"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

type sent struct {
	kind     discogs.UploadKind
	filename string
}

// fakeUploader records each Send and answers with err, or an increasing id.
type fakeUploader struct {
	mu    sync.Mutex
	calls []sent
	err   error
}

func (f *fakeUploader) Send(_ context.Context, kind discogs.UploadKind, filename string, _ discogs.ProgressFunc) (*discogs.UploadInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, sent{kind: kind, filename: filename})
	if f.err != nil {
		return nil, f.err
	}
	return &discogs.UploadInfo{ID: 100 + len(f.calls), Filename: filepath.Base(filename)}, nil
}

func (f *fakeUploader) sent() []sent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]sent(nil), f.calls...)
}

// memJournal is an in-memory Journal.
type memJournal struct {
	mu      sync.Mutex
	done    map[string]bool
	records []Result
}

func newMemJournal() *memJournal {
	return &memJournal{done: make(map[string]bool)}
}

func (j *memJournal) Uploaded(_ context.Context, kind discogs.UploadKind, checksum string) (bool, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.done[string(kind)+checksum], nil
}

func (j *memJournal) Record(_ context.Context, r Result) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.records = append(j.records, r)
	if r.Err == nil {
		j.done[string(r.Kind)+r.Checksum] = true
	}
	return nil
}

type resultLog struct {
	mu      sync.Mutex
	results []Result
}

func (l *resultLog) add(r Result) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.results = append(l.results, r)
}

func (l *resultLog) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.results)
}

func (l *resultLog) all() []Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Result(nil), l.results...)
}

func startService(t *testing.T, root string, up Uploader, journal Journal) *resultLog {
	t.Helper()
	svc := NewService(root, up, journal, testLogger())
	svc.SetDebounce(50 * time.Millisecond)
	svc.SetPollInterval(100 * time.Millisecond)
	log := &resultLog{}
	svc.OnResult(log.add)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Start(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Start returned %v", err)
		}
	})
	return log
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func writeCSV(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestExistingFileUploadedOnStart(t *testing.T) {
	root := t.TempDir()
	writeCSV(t, filepath.Join(root, "add", "new.csv"), "release_id,price\n1,5.00\n")

	up := &fakeUploader{}
	log := startService(t, root, up, nil)
	waitFor(t, "one result", func() bool { return log.len() == 1 })

	calls := up.sent()
	if len(calls) != 1 || calls[0].kind != discogs.UploadAdd {
		t.Fatalf("calls = %+v", calls)
	}
	res := log.all()[0]
	if res.Err != nil || res.UploadID != 101 {
		t.Errorf("result = %+v", res)
	}
	want := filepath.Join(root, "done", "add", "new.csv")
	if res.MovedTo != want {
		t.Errorf("MovedTo = %q, want %q", res.MovedTo, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("file not moved: %v", err)
	}
}

func TestDroppedFileUploadedWithKind(t *testing.T) {
	root := t.TempDir()
	up := &fakeUploader{}
	log := startService(t, root, up, nil)

	waitFor(t, "kind folders", func() bool {
		_, err := os.Stat(filepath.Join(root, "delete"))
		return err == nil
	})
	writeCSV(t, filepath.Join(root, "delete", "gone.csv"), "listing_id\n42\n")

	waitFor(t, "one result", func() bool { return log.len() == 1 })
	if calls := up.sent(); calls[0].kind != discogs.UploadDelete {
		t.Errorf("kind = %s, want delete", calls[0].kind)
	}
}

func TestNonCSVIgnored(t *testing.T) {
	root := t.TempDir()
	writeCSV(t, filepath.Join(root, "change", "notes.txt"), "hello")
	writeCSV(t, filepath.Join(root, "change", ".hidden.csv"), "x")
	writeCSV(t, filepath.Join(root, "stray.csv"), "x")
	writeCSV(t, filepath.Join(root, "change", "real.csv"), "listing_id,price\n1,2\n")

	up := &fakeUploader{}
	log := startService(t, root, up, nil)
	waitFor(t, "one result", func() bool { return log.len() == 1 })
	time.Sleep(250 * time.Millisecond)

	calls := up.sent()
	if len(calls) != 1 || filepath.Base(calls[0].filename) != "real.csv" {
		t.Errorf("calls = %+v", calls)
	}
	if _, err := os.Stat(filepath.Join(root, "change", "notes.txt")); err != nil {
		t.Error("non-CSV file should be left alone")
	}
}

func TestJournalSkipsDuplicateContent(t *testing.T) {
	root := t.TempDir()
	journal := newMemJournal()
	up := &fakeUploader{}
	log := startService(t, root, up, journal)

	body := "release_id,price\n7,1.00\n"
	waitFor(t, "kind folders", func() bool {
		_, err := os.Stat(filepath.Join(root, "add"))
		return err == nil
	})
	writeCSV(t, filepath.Join(root, "add", "first.csv"), body)
	waitFor(t, "first result", func() bool { return log.len() == 1 })

	writeCSV(t, filepath.Join(root, "add", "again.csv"), body)
	waitFor(t, "second result", func() bool { return log.len() == 2 })

	if n := len(up.sent()); n != 1 {
		t.Errorf("uploads = %d, want 1", n)
	}
	second := log.all()[1]
	if !second.Skipped {
		t.Errorf("second result = %+v, want skipped", second)
	}
	if second.MovedTo != filepath.Join(root, "done", "add", "again.csv") {
		t.Errorf("MovedTo = %q", second.MovedTo)
	}
}

func TestRejectedUploadMovesToFailed(t *testing.T) {
	root := t.TempDir()
	writeCSV(t, filepath.Join(root, "add", "bad.csv"), "nonsense")

	up := &fakeUploader{err: &discogs.RequestError{StatusCode: 422, Message: "invalid CSV"}}
	journal := newMemJournal()
	log := startService(t, root, up, journal)
	waitFor(t, "one result", func() bool { return log.len() == 1 })

	res := log.all()[0]
	if discogs.StatusCode(res.Err) != 422 {
		t.Errorf("err = %v", res.Err)
	}
	if res.MovedTo != filepath.Join(root, "failed", "add", "bad.csv") {
		t.Errorf("MovedTo = %q", res.MovedTo)
	}
	journal.mu.Lock()
	defer journal.mu.Unlock()
	if len(journal.records) != 1 || journal.records[0].Err == nil {
		t.Errorf("journal = %+v", journal.records)
	}
}

func TestTransportErrorLeavesFileForRetry(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "add", "later.csv")
	writeCSV(t, path, "release_id\n1\n")

	up := &fakeUploader{err: &discogs.RequestError{Err: errors.New("connection refused")}}
	log := startService(t, root, up, nil)
	waitFor(t, "retry", func() bool { return log.len() >= 2 })

	if _, err := os.Stat(path); err != nil {
		t.Errorf("file should stay in place: %v", err)
	}
	if log.all()[0].MovedTo != "" {
		t.Error("file should not be moved")
	}
}

func TestKindOf(t *testing.T) {
	svc := NewService("/drop", &fakeUploader{}, nil, testLogger())
	tests := []struct {
		path string
		kind discogs.UploadKind
		ok   bool
	}{
		{"/drop/add/a.csv", discogs.UploadAdd, true},
		{"/drop/change/b.csv", discogs.UploadChange, true},
		{"/drop/delete/c.csv", discogs.UploadDelete, true},
		{"/drop/done/add/a.csv", "", false},
		{"/drop/other/a.csv", "", false},
		{"/drop/a.csv", "", false},
	}
	for _, tt := range tests {
		kind, ok := svc.kindOf(tt.path)
		if kind != tt.kind || ok != tt.ok {
			t.Errorf("kindOf(%q) = %q, %v", tt.path, kind, ok)
		}
	}
}

func TestWatchKinds(t *testing.T) {
	root := t.TempDir()
	svc := NewService(root, &fakeUploader{}, nil, testLogger())
	if err := svc.Prepare(); err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	w, err := watchKinds(root, 2*time.Second)
	if err != nil {
		t.Skipf("fsnotify not delivering events on this filesystem: %v", err)
	}
	defer w.Close()

	entries, _ := os.ReadDir(filepath.Join(root, "add"))
	if len(entries) != 0 {
		t.Errorf("probe left %d entries behind", len(entries))
	}
}

func TestWatchKinds_MissingFolders(t *testing.T) {
	if _, err := watchKinds(filepath.Join(t.TempDir(), "absent"), 100*time.Millisecond); err == nil {
		t.Error("probe should fail when the kind folders do not exist")
	}
}
