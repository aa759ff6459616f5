package discogs

import (
	"net/url"

	"github.com/sydlexius/discogs/model"
)

// GetReleaseRequest looks up a release. CurrAbbr selects the currency of
// the lowest marketplace price.
type GetReleaseRequest struct {
	ReleaseID int
	CurrAbbr  model.Currency
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *GetReleaseRequest) Validate() error {
	return firstError(requireID("release id", r.ReleaseID), optionalCurrency(r.CurrAbbr))
}

// Encode validates r and adds its query parameters to q.
func (r *GetReleaseRequest) Encode(q url.Values) error {
	if err := r.Validate(); err != nil {
		return err
	}
	setString(q, "curr_abbr", string(r.CurrAbbr))
	return nil
}

// ReleaseRatingRequest addresses one user's rating of a release.
type ReleaseRatingRequest struct {
	ReleaseID int
	Username  string
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *ReleaseRatingRequest) Validate() error {
	return firstError(requireID("release id", r.ReleaseID), requireName("username", r.Username))
}

// Encode only validates; r adds no query parameters.
func (r *ReleaseRatingRequest) Encode(q url.Values) error { return r.Validate() }

// UpdateReleaseRatingRequest sets a user's rating of a release. Ratings
// run from 1 to 5; remove a rating with DeleteReleaseRating.
type UpdateReleaseRatingRequest struct {
	ReleaseID int
	Username  string
	Rating    int
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *UpdateReleaseRatingRequest) Validate() error {
	return firstError(
		requireID("release id", r.ReleaseID),
		requireName("username", r.Username),
		requireRating("rating", r.Rating, 1),
	)
}

// Encode only validates; r adds no query parameters.
func (r *UpdateReleaseRatingRequest) Encode(q url.Values) error { return r.Validate() }

func (r *UpdateReleaseRatingRequest) body() any {
	return map[string]int{"rating": r.Rating}
}

// MasterVersionsRequest lists the releases of a master, optionally
// filtered.
type MasterVersionsRequest struct {
	MasterID int
	Format   string
	Label    string
	Released string
	Country  string
	SortParams
	PageParams
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *MasterVersionsRequest) Validate() error {
	return firstError(
		requireID("master id", r.MasterID),
		r.SortParams.validate(masterVersionSorts),
		r.PageParams.Validate(),
	)
}

// Encode validates r and adds its query parameters to q.
func (r *MasterVersionsRequest) Encode(q url.Values) error {
	if err := r.Validate(); err != nil {
		return err
	}
	setString(q, "format", r.Format)
	setString(q, "label", r.Label)
	setString(q, "released", r.Released)
	setString(q, "country", r.Country)
	r.SortParams.encode(q)
	return r.PageParams.Encode(q)
}

// ArtistReleasesRequest lists an artist's releases and masters.
type ArtistReleasesRequest struct {
	ArtistID int
	SortParams
	PageParams
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *ArtistReleasesRequest) Validate() error {
	return firstError(
		requireID("artist id", r.ArtistID),
		r.SortParams.validate(artistReleaseSorts),
		r.PageParams.Validate(),
	)
}

// Encode validates r and adds its query parameters to q.
func (r *ArtistReleasesRequest) Encode(q url.Values) error {
	if err := r.Validate(); err != nil {
		return err
	}
	r.SortParams.encode(q)
	return r.PageParams.Encode(q)
}

// LabelReleasesRequest lists a label's catalog.
type LabelReleasesRequest struct {
	LabelID int
	PageParams
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *LabelReleasesRequest) Validate() error {
	return firstError(requireID("label id", r.LabelID), r.PageParams.Validate())
}

// Encode validates r and adds its query parameters to q.
func (r *LabelReleasesRequest) Encode(q url.Values) error {
	if err := r.Validate(); err != nil {
		return err
	}
	return r.PageParams.Encode(q)
}

// SearchRequest queries the database. Every field is optional; an empty
// search returns everything. Searching requires authentication.
type SearchRequest struct {
	Query        string
	Type         model.SearchType
	Title        string
	ReleaseTitle string
	Credit       string
	Artist       string
	ANV          string
	Label        string
	Genre        string
	Style        string
	Country      string
	Year         string
	Format       string
	CatNo        string
	Barcode      string
	Track        string
	Submitter    string
	Contributor  string
	PageParams
}

// Validate reports the first invalid field as a [*ValidationError].
func (r *SearchRequest) Validate() error {
	if r.Type != "" && !r.Type.Valid() {
		return &ValidationError{Field: "type", Reason: "must be release, master, artist or label"}
	}
	return r.PageParams.Validate()
}

// Encode validates r and adds its query parameters to q.
func (r *SearchRequest) Encode(q url.Values) error {
	if err := r.Validate(); err != nil {
		return err
	}
	for _, kv := range []struct{ key, value string }{
		{"q", r.Query},
		{"type", string(r.Type)},
		{"title", r.Title},
		{"release_title", r.ReleaseTitle},
		{"credit", r.Credit},
		{"artist", r.Artist},
		{"anv", r.ANV},
		{"label", r.Label},
		{"genre", r.Genre},
		{"style", r.Style},
		{"country", r.Country},
		{"year", r.Year},
		{"format", r.Format},
		{"catno", r.CatNo},
		{"barcode", r.Barcode},
		{"track", r.Track},
		{"submitter", r.Submitter},
		{"contributor", r.Contributor},
	} {
		setString(q, kv.key, kv.value)
	}
	return r.PageParams.Encode(q)
}
