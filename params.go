package discogs

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/sydlexius/discogs/model"
)

// Page size bounds accepted by the API.
const (
	MinPerPage = 1
	MaxPerPage = 100
)

// PageParams selects a page of a paginated list. Zero fields are left to
// the API defaults (page 1, 50 per page).
type PageParams struct {
	Page    int
	PerPage int
}

// Validate checks the page bounds.
func (p PageParams) Validate() error {
	if p.Page < 0 {
		return &ValidationError{Field: "page", Reason: "must be at least 1"}
	}
	if p.PerPage != 0 && (p.PerPage < MinPerPage || p.PerPage > MaxPerPage) {
		return &ValidationError{Field: "per_page", Reason: "must be between 1 and 100"}
	}
	return nil
}

// Encode validates p and appends page and per_page.
func (p PageParams) Encode(q url.Values) error {
	if err := p.Validate(); err != nil {
		return err
	}
	setInt(q, "page", p.Page)
	setInt(q, "per_page", p.PerPage)
	return nil
}

// SortParams orders a list. Each endpoint accepts its own set of sort keys.
type SortParams struct {
	Sort      string
	SortOrder model.SortOrder
}

func (s SortParams) validate(keys []string) error {
	if s.Sort != "" && !slices.Contains(keys, s.Sort) {
		return &ValidationError{Field: "sort", Reason: "must be one of " + strings.Join(keys, ", ")}
	}
	if s.SortOrder != "" && !s.SortOrder.Valid() {
		return &ValidationError{Field: "sort_order", Reason: `must be "asc" or "desc"`}
	}
	return nil
}

func (s SortParams) encode(q url.Values) {
	setString(q, "sort", s.Sort)
	setString(q, "sort_order", string(s.SortOrder))
}

// Sort keys per endpoint.
var (
	masterVersionSorts  = []string{"released", "title", "format", "label", "catno", "country"}
	artistReleaseSorts  = []string{"year", "title", "format"}
	inventorySorts      = []string{"listed", "price", "item", "artist", "label", "catno", "audio", "status", "location"}
	orderSorts          = []string{"id", "buyer", "created", "status", "last_activity"}
	collectionItemSorts = []string{"label", "artist", "title", "catno", "format", "rating", "added", "year"}
)

// queryEncoder is implemented by every request type.
type queryEncoder interface {
	Validate() error
	Encode(q url.Values) error
}

// encodeQuery validates r and returns its query parameters.
func encodeQuery(r queryEncoder) (url.Values, error) {
	q := url.Values{}
	if err := r.Encode(q); err != nil {
		return nil, err
	}
	return q, nil
}

func requireID(field string, id int) error {
	if id <= 0 {
		return &ValidationError{Field: field, Reason: "must be positive"}
	}
	return nil
}

func requireName(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return &ValidationError{Field: field, Reason: "must not be blank"}
	}
	return nil
}

func requireRating(field string, rating, lowest int) error {
	if rating < lowest || rating > 5 {
		return &ValidationError{Field: field, Reason: "must be between " + strconv.Itoa(lowest) + " and 5"}
	}
	return nil
}

func optionalCurrency(c model.Currency) error {
	if c != "" && !c.Valid() {
		return &ValidationError{Field: "curr_abbr", Reason: "unsupported currency " + strconv.Quote(string(c))}
	}
	return nil
}

// firstError returns the first non-nil error.
func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func setString(q url.Values, key, value string) {
	if strings.TrimSpace(value) != "" {
		q.Set(key, value)
	}
}

func setInt(q url.Values, key string, value int) {
	if value != 0 {
		q.Set(key, strconv.Itoa(value))
	}
}

func setIntPtr(q url.Values, key string, value *int) {
	if value != nil {
		q.Set(key, strconv.Itoa(*value))
	}
}

func setBool(q url.Values, key string, value *bool) {
	if value != nil {
		q.Set(key, strconv.FormatBool(*value))
	}
}
