package watcher

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
)

// probePrefix marks the marker files written by watchKinds. Dotfiles are
// never treated as uploads, so a leftover marker is harmless.
const probePrefix = ".discogs_probe_"

// errNoEvents means the watch was accepted but the marker file never showed
// up as an event, which is typical of network mounts.
var errNoEvents = errors.New("no fsnotify events delivered")

// watchKinds watches every kind folder under root and proves the watch
// works by writing a marker into the first one and waiting for its Create
// event. On error the caller runs poll-only.
func watchKinds(root string, timeout time.Duration) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, kind := range Kinds {
		dir := filepath.Join(root, string(kind))
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	marker := filepath.Join(root, string(Kinds[0]), probePrefix+uuid.NewString())
	if err := os.WriteFile(marker, nil, 0o600); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("writing probe file: %w", err)
	}
	defer os.Remove(marker) //nolint:errcheck

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil, errNoEvents
			}
			if ev.Has(fsnotify.Create) && ev.Name == marker {
				return w, nil
			}
		case err := <-w.Errors:
			_ = w.Close()
			return nil, err
		case <-timer.C:
			_ = w.Close()
			return nil, errNoEvents
		}
	}
}
