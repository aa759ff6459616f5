package webhook

import (
	"encoding/json"
	"maps"
	"slices"
	"time"
)

const (
	colorInfo  = 0x3498db
	colorWarn  = 0xf1c40f
	colorError = 0xe74c3c
)

type genericPayload struct {
	ID        string         `json:"id"`
	Event     string         `json:"event"`
	Timestamp time.Time      `json:"timestamp"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Timestamp   string         `json:"timestamp"`
	Fields      []discordField `json:"fields,omitempty"`
}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type slackPayload struct {
	Text string `json:"text"`
}

type gotifyPayload struct {
	Title    string `json:"title"`
	Message  string `json:"message"`
	Priority int    `json:"priority"`
}

// payload builds the JSON body a target of type t expects.
func payload(t string, id string, e Event) ([]byte, error) {
	var v any
	switch t {
	case TypeDiscord:
		v = discordPayload{Embeds: []discordEmbed{{
			Title:       title(e),
			Description: e.text(),
			Color:       severity(e, colorInfo, colorWarn, colorError),
			Timestamp:   e.Timestamp.UTC().Format(time.RFC3339),
			Fields:      fields(e.Data),
		}}}
	case TypeSlack:
		v = slackPayload{Text: "*" + title(e) + "*\n" + e.text()}
	case TypeGotify:
		v = gotifyPayload{Title: title(e), Message: e.text(), Priority: severity(e, 2, 4, 8)}
	default:
		v = genericPayload{ID: id, Event: e.Type, Timestamp: e.Timestamp, Message: e.Message, Data: e.Data}
	}
	return json.Marshal(v)
}

func title(e Event) string {
	return "Discogs: " + e.Type
}

// severity picks info for queued uploads, warn for skips and error for
// failures.
func severity[T any](e Event, info, warn, bad T) T {
	switch e.Type {
	case UploadFailed:
		return bad
	case UploadSkipped:
		return warn
	}
	return info
}

// fields renders Data as inline embed fields in key order.
func fields(data map[string]any) []discordField {
	if len(data) == 0 {
		return nil
	}
	out := make([]discordField, 0, len(data))
	for _, k := range slices.Sorted(maps.Keys(data)) {
		out = append(out, discordField{Name: k, Value: stringify(data[k]), Inline: true})
	}
	return out
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "?"
	}
	return string(b)
}
