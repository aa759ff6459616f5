// Package webhook posts drop folder upload outcomes to chat and push
// services.
package webhook

import (
	"fmt"
	"net/url"
	"slices"
	"time"
)

// Target types.
const (
	TypeGeneric = "generic"
	TypeDiscord = "discord"
	TypeSlack   = "slack"
	TypeGotify  = "gotify"
)

// Event types.
const (
	UploadQueued  = "upload.queued"
	UploadSkipped = "upload.skipped"
	UploadFailed  = "upload.failed"
)

// Target is a configured webhook endpoint. An empty Events list subscribes
// to every event.
type Target struct {
	Name   string   `yaml:"name"`
	URL    string   `yaml:"url"`
	Type   string   `yaml:"type"`
	Events []string `yaml:"events"`
}

// Validate checks the URL scheme, type and event names.
func (t Target) Validate() error {
	u, err := url.Parse(t.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("webhook %q: invalid url %q", t.Name, t.URL)
	}
	switch t.Type {
	case "", TypeGeneric, TypeDiscord, TypeSlack, TypeGotify:
	default:
		return fmt.Errorf("webhook %q: unknown type %q", t.Name, t.Type)
	}
	for _, e := range t.Events {
		if e != UploadQueued && e != UploadSkipped && e != UploadFailed {
			return fmt.Errorf("webhook %q: unknown event %q", t.Name, e)
		}
	}
	return nil
}

func (t Target) wants(eventType string) bool {
	return len(t.Events) == 0 || slices.Contains(t.Events, eventType)
}

// Event is one notification.
type Event struct {
	Type      string
	Timestamp time.Time
	Message   string
	Data      map[string]any
}

// text is the human-readable line for chat targets.
func (e Event) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Type
}
