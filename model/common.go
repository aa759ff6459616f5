// Package model defines the entities returned by the Discogs API.
//
// Types mirror the JSON payloads field for field. They carry no behavior
// beyond enum validation and lenient timestamp decoding.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Pagination is the envelope accompanying every paged list response.
type Pagination struct {
	Page    int               `json:"page"`
	Pages   int               `json:"pages"`
	PerPage int               `json:"per_page"`
	Items   int               `json:"items"`
	URLs    map[string]string `json:"urls"`
}

// Pagination link relations.
const (
	RelFirst = "first"
	RelPrev  = "prev"
	RelNext  = "next"
	RelLast  = "last"
)

// URL returns the link for rel, or "" when the envelope has none.
func (p Pagination) URL(rel string) string {
	if p.URLs == nil {
		return ""
	}
	return p.URLs[rel]
}

// Time decodes the several timestamp layouts Discogs emits. Inventory jobs
// report times without a zone; everything else uses RFC 3339.
type Time struct {
	time.Time
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON accepts null, "" and any layout in timeLayouts.
func (t *Time) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// MarshalJSON writes RFC 3339, or null for the zero time.
func (t Time) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339))
}

// Image is an image attached to a release, master, artist or label.
type Image struct {
	Type        string `json:"type"` // "primary" or "secondary"
	URI         string `json:"uri"`
	URI150      string `json:"uri150"`
	ResourceURL string `json:"resource_url"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
}

// Video is an embedded video reference.
type Video struct {
	URI         string `json:"uri"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Duration    int    `json:"duration"`
	Embed       bool   `json:"embed"`
}

// Track is one entry in a tracklist.
type Track struct {
	Position     string         `json:"position"`
	Type         string         `json:"type_"`
	Title        string         `json:"title"`
	Duration     string         `json:"duration"`
	ExtraArtists []ArtistCredit `json:"extraartists,omitempty"`
}

// Format is a physical or digital format of a release.
type Format struct {
	Name         string   `json:"name"`
	Qty          string   `json:"qty"`
	Text         string   `json:"text,omitempty"`
	Descriptions []string `json:"descriptions,omitempty"`
}

// Identifier is a barcode, matrix number or similar.
type Identifier struct {
	Type        string `json:"type"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
}

// ArtistCredit is an artist as credited on a release or track.
type ArtistCredit struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ANV         string `json:"anv"`
	Join        string `json:"join"`
	Role        string `json:"role"`
	Tracks      string `json:"tracks"`
	ResourceURL string `json:"resource_url"`
}

// LabelCredit is a label or company as credited on a release.
type LabelCredit struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	CatNo          string `json:"catno"`
	EntityType     string `json:"entity_type"`
	EntityTypeName string `json:"entity_type_name"`
	ResourceURL    string `json:"resource_url"`
}

// UserRef is the short form of a user embedded in other entities.
type UserRef struct {
	ID          int    `json:"id,omitempty"`
	Username    string `json:"username"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	ResourceURL string `json:"resource_url"`
}

// Price is an amount in a currency.
type Price struct {
	Currency Currency `json:"currency"`
	Value    float64  `json:"value"`
}

// Rating is an average score and the number of votes behind it.
type Rating struct {
	Count   int     `json:"count"`
	Average float64 `json:"average"`
}

// Community summarizes what Discogs users say about a release.
type Community struct {
	Have         int       `json:"have"`
	Want         int       `json:"want"`
	Rating       Rating    `json:"rating"`
	Submitter    *UserRef  `json:"submitter,omitempty"`
	Contributors []UserRef `json:"contributors,omitempty"`
	DataQuality  string    `json:"data_quality"`
	Status       string    `json:"status"`
}

// EntityRef is a minimal reference to another entity by id and name.
type EntityRef struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	ResourceURL string `json:"resource_url"`
	Active      bool   `json:"active,omitempty"`
}

// Stats reports how many users hold or want an item.
type Stats struct {
	Community StatCounts `json:"community"`
	User      StatCounts `json:"user"`
}

// StatCounts is a pair of wantlist and collection counts.
type StatCounts struct {
	InWantlist   int `json:"in_wantlist"`
	InCollection int `json:"in_collection"`
}

// Company is a company credited on a release, such as a pressing plant or
// studio. It shares the label credit payload.
type Company = LabelCredit
