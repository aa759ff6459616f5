// Package watcher uploads inventory CSV files dropped into a folder.
//
// The drop folder holds one subdirectory per upload kind:
//
//	<root>/add/     new listings
//	<root>/change/  listing updates
//	<root>/delete/  listing removals
//
// A file is uploaded once its size and modification time have been stable
// for the debounce interval. Sent files move to <root>/done/<kind>/ and
// rejected ones to <root>/failed/<kind>/.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sydlexius/discogs"
	"github.com/sydlexius/discogs/internal/filesystem"
)

const (
	doneDir   = "done"
	failedDir = "failed"
)

// Kinds lists the subdirectories watched for uploads.
var Kinds = []discogs.UploadKind{discogs.UploadAdd, discogs.UploadChange, discogs.UploadDelete}

// Uploader sends one CSV file. [*discogs.InventoryUploadService] satisfies it.
type Uploader interface {
	Send(ctx context.Context, kind discogs.UploadKind, filename string, progress discogs.ProgressFunc) (*discogs.UploadInfo, error)
}

// Result describes the outcome for one dropped file.
type Result struct {
	Kind     discogs.UploadKind
	Filename string
	Checksum string
	UploadID int
	// MovedTo is the file's new location under done/ or failed/.
	MovedTo string
	// Skipped is set when the journal already holds a successful upload of
	// identical content.
	Skipped bool
	Err     error
}

// fileState is what stability is judged by.
type fileState struct {
	size    int64
	modTime time.Time
}

func statFile(path string) (fileState, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return fileState{}, false
	}
	return fileState{size: info.Size(), modTime: info.ModTime()}, true
}

// Service watches a drop folder and uploads what lands in it.
type Service struct {
	root     string
	uploader Uploader
	journal  Journal
	logger   *slog.Logger
	debounce time.Duration
	poll     time.Duration
	onResult func(Result)

	probeTimeout time.Duration

	mu      sync.Mutex
	pending map[string]fileState // path -> state when last seen
}

// NewService creates a watcher for root. journal may be nil.
func NewService(root string, uploader Uploader, journal Journal, logger *slog.Logger) *Service {
	return &Service{
		root:     root,
		uploader: uploader,
		journal:  journal,
		logger:   logger.With("component", "upload-watcher"),
		debounce: 2 * time.Second,
		poll:     30 * time.Second,
		pending:  make(map[string]fileState),

		probeTimeout: 2 * time.Second,
	}
}

// SetDebounce overrides how long a file must be unchanged before upload.
func (s *Service) SetDebounce(d time.Duration) {
	if d > 0 {
		s.debounce = d
	}
}

// SetPollInterval overrides the rescan period.
func (s *Service) SetPollInterval(d time.Duration) {
	if d > 0 {
		s.poll = d
	}
}

// OnResult registers fn to be called after each file is handled. It runs on
// the watcher goroutine.
func (s *Service) OnResult(fn func(Result)) {
	s.onResult = fn
}

// Prepare creates the kind subdirectories under root.
func (s *Service) Prepare() error {
	for _, kind := range Kinds {
		if err := os.MkdirAll(filepath.Join(s.root, string(kind)), 0o750); err != nil {
			return fmt.Errorf("creating %s folder: %w", kind, err)
		}
	}
	return nil
}

// Start blocks until ctx is canceled. Files already present are queued
// immediately. If fsnotify does not work for root, the service relies on
// the periodic rescan alone.
func (s *Service) Start(ctx context.Context) error {
	if err := s.Prepare(); err != nil {
		return err
	}

	var eventCh <-chan fsnotify.Event
	var errCh <-chan error
	if w, err := watchKinds(s.root, s.probeTimeout); err != nil {
		s.logger.Warn("fsnotify unusable, running poll-only", "root", s.root, "interval", s.poll, "error", err)
	} else {
		defer w.Close() //nolint:errcheck
		eventCh = w.Events
		errCh = w.Errors
	}

	s.logger.Info("upload watcher starting", "root", s.root)

	debounceTimer := time.NewTimer(0)
	if !debounceTimer.Stop() {
		<-debounceTimer.C
	}
	defer debounceTimer.Stop()
	resetTimer := func() {
		if !debounceTimer.Stop() {
			select {
			case <-debounceTimer.C:
			default:
			}
		}
		debounceTimer.Reset(s.debounce)
	}

	if s.scan() {
		resetTimer()
	}

	pollTicker := time.NewTicker(s.poll)
	defer pollTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("upload watcher stopping")
			return nil

		case ev, ok := <-eventCh:
			if !ok {
				return errors.New("fsnotify event channel closed")
			}
			if s.handleFSEvent(ev) {
				resetTimer()
			}

		case err, ok := <-errCh:
			if !ok {
				return errors.New("fsnotify error channel closed")
			}
			s.logger.Error("fsnotify error", "error", err)

		case <-pollTicker.C:
			if s.scan() {
				resetTimer()
			}

		case <-debounceTimer.C:
			if s.flush(ctx) {
				resetTimer()
			}
		}
	}
}

// kindOf returns the upload kind for a file directly inside a kind folder.
func (s *Service) kindOf(path string) (discogs.UploadKind, bool) {
	parent := filepath.Dir(path)
	if filepath.Dir(parent) != filepath.Clean(s.root) {
		return "", false
	}
	kind := discogs.UploadKind(filepath.Base(parent))
	if !kind.Valid() {
		return "", false
	}
	return kind, true
}

func candidate(name string) bool {
	return !strings.HasPrefix(name, ".") && strings.EqualFold(filepath.Ext(name), ".csv")
}

// handleFSEvent queues a created or written CSV. It reports whether the
// debounce timer should restart.
func (s *Service) handleFSEvent(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return false
	}
	if !candidate(filepath.Base(ev.Name)) {
		return false
	}
	if _, ok := s.kindOf(ev.Name); !ok {
		return false
	}
	return s.enqueue(ev.Name)
}

func (s *Service) enqueue(path string) bool {
	st, ok := statFile(path)
	if !ok {
		return false
	}
	s.mu.Lock()
	prev, seen := s.pending[path]
	s.pending[path] = st
	s.mu.Unlock()
	if !seen {
		s.logger.Debug("upload queued", "path", path)
	}
	return !seen || prev != st
}

// scan queues every candidate file in the kind folders and reports whether
// anything new or changed was found.
func (s *Service) scan() bool {
	queued := false
	for _, kind := range Kinds {
		dir := filepath.Join(s.root, string(kind))
		entries, err := os.ReadDir(dir)
		if err != nil {
			s.logger.Warn("reading drop folder", "path", dir, "error", err)
			continue
		}
		for _, e := range entries {
			if e.IsDir() || !candidate(e.Name()) {
				continue
			}
			if s.enqueue(filepath.Join(dir, e.Name())) {
				queued = true
			}
		}
	}
	return queued
}

// flush uploads every pending file whose state is unchanged since it was
// queued. It reports whether files are still waiting.
func (s *Service) flush(ctx context.Context) bool {
	s.mu.Lock()
	paths := make([]string, 0, len(s.pending))
	for p := range s.pending {
		paths = append(paths, p)
	}
	s.mu.Unlock()
	sort.Strings(paths)

	waiting := false
	for _, path := range paths {
		if ctx.Err() != nil {
			return false
		}
		s.mu.Lock()
		queued := s.pending[path]
		s.mu.Unlock()

		current, ok := statFile(path)
		if !ok {
			s.forget(path)
			continue
		}
		if current != queued {
			s.mu.Lock()
			s.pending[path] = current
			s.mu.Unlock()
			waiting = true
			continue
		}

		s.forget(path)
		kind, _ := s.kindOf(path)
		s.report(s.process(ctx, kind, path))
	}
	return waiting
}

func (s *Service) forget(path string) {
	s.mu.Lock()
	delete(s.pending, path)
	s.mu.Unlock()
}

func (s *Service) process(ctx context.Context, kind discogs.UploadKind, path string) Result {
	res := Result{Kind: kind, Filename: path}

	sum, err := fileChecksum(path)
	if err != nil {
		res.Err = fmt.Errorf("hashing %s: %w", path, err)
		return res
	}
	res.Checksum = sum

	if s.journal != nil {
		done, err := s.journal.Uploaded(ctx, kind, sum)
		if err != nil {
			s.logger.Warn("upload journal unavailable", "error", err)
		} else if done {
			res.Skipped = true
			res.MovedTo = s.move(path, doneDir, kind)
			return res
		}
	}

	info, err := s.uploader.Send(ctx, kind, path, nil)
	if err != nil {
		res.Err = err
		if discogs.StatusCode(err) != 0 {
			// The API rejected the file; retrying the same bytes won't help.
			res.MovedTo = s.move(path, failedDir, kind)
		}
	} else {
		res.UploadID = info.ID
		res.MovedTo = s.move(path, doneDir, kind)
	}

	if s.journal != nil {
		if err := s.journal.Record(ctx, res); err != nil {
			s.logger.Warn("recording upload", "path", path, "error", err)
		}
	}
	return res
}

func (s *Service) move(path, bucket string, kind discogs.UploadKind) string {
	dst := filepath.Join(s.root, bucket, string(kind), filepath.Base(path))
	moved, err := filesystem.Move(path, dst)
	if err != nil {
		s.logger.Error("moving uploaded file", "path", path, "error", err)
		return ""
	}
	return moved
}

func (s *Service) report(res Result) {
	switch {
	case res.Err != nil:
		s.logger.Error("upload failed", "kind", string(res.Kind), "path", res.Filename, "error", res.Err)
	case res.Skipped:
		s.logger.Info("upload skipped, already sent", "kind", string(res.Kind), "path", res.Filename)
	default:
		s.logger.Info("upload sent", "kind", string(res.Kind), "path", res.Filename, "upload_id", res.UploadID)
	}
	if s.onResult != nil {
		s.onResult(res)
	}
}
